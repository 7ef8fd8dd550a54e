// Package http exposes the order lifecycle over a JSON API served by echo.
package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// HeaderUserID carries the id of the acting user.
const HeaderUserID = "X-User-Id"

// OrderService changes orders; *commands.OrderLifecycleService implements it.
type OrderService interface {
	PlaceOrder(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, error)
	ChangeStatus(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (order.State, error)
	SetDeliveryStaff(ctx context.Context, cmd commands.AssignDeliveryStaffCommand) (order.State, error)
}

// GetOrderHandler is implemented by queries.GetOrderQueryHandler.
type GetOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
}

// FilterOrdersHandler is implemented by queries.FilterOrdersQueryHandler.
type FilterOrdersHandler interface {
	Handle(ctx context.Context, query queries.FilterOrdersQuery) ([]queries.FilterOrdersQueryResponse, error)
}

// Server handles HTTP requests by translating them into commands and queries.
type Server struct {
	orders OrderService

	getOrderHandler     GetOrderHandler
	filterOrdersHandler FilterOrdersHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	orders OrderService,
	getOrderHandler GetOrderHandler,
	filterOrdersHandler FilterOrdersHandler,
) *Server {
	return &Server{
		orders:              orders,
		getOrderHandler:     getOrderHandler,
		filterOrdersHandler: filterOrdersHandler,
	}
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderType, err := order.ParseType(body.Type)
	if err != nil {
		return writeError(ctx, err)
	}

	contact, err := order.NewContactDetails(body.ContactDetails.Name, body.ContactDetails.PhoneNumber)
	if err != nil {
		return writeError(ctx, err)
	}

	var address *order.DeliveryAddress
	if a := body.DeliveryAddress; a != nil {
		parsed, addrErr := order.NewDeliveryAddress(a.Street, a.BuildingNumber, a.City, a.PostalCode, a.Country)
		if addrErr != nil {
			return writeError(ctx, addrErr)
		}
		address = &parsed
	}

	items := make([]commands.PlaceOrderItem, len(body.Items))
	for i, item := range body.Items {
		items[i] = commands.PlaceOrderItem{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		}
	}

	cmd, err := commands.NewPlaceOrderCommand(
		ctx.Request().Header.Get(HeaderUserID), orderType, contact, address, body.SpecialInstructions, items)
	if err != nil {
		return writeError(ctx, err)
	}

	placed, err := s.orders.PlaceOrder(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/v1/orders/%d", placed.ID()))
	return ctx.JSON(http.StatusCreated, PlacedOrder{
		ID:          placed.ID(),
		Status:      placed.Status().String(),
		TotalAmount: placed.TotalAmount().String(),
	})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(view))
}

// FilterOrders handles GET /api/v1/orders?status=&type=.
func (s *Server) FilterOrders(ctx echo.Context) error {
	var status *order.Status
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			return writeError(ctx, err)
		}
		status = &parsed
	}

	var orderType *order.Type
	if raw := ctx.QueryParam("type"); raw != "" {
		parsed, err := order.ParseType(raw)
		if err != nil {
			return writeError(ctx, err)
		}
		orderType = &parsed
	}

	query, err := queries.NewFilterOrdersQuery(status, orderType)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.filterOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]OrderSummary, len(result))
	for i, r := range result {
		response[i] = toOrderSummary(r)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ChangeOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body StatusChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.ParseStatus(body.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(ctx.Request().Header.Get(HeaderUserID), orderID, target)
	if err != nil {
		return writeError(ctx, err)
	}

	state, err := s.orders.ChangeStatus(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderState(orderID, state))
}

// AssignDeliveryStaff handles PATCH /api/v1/orders/:id/delivery.
func (s *Server) AssignDeliveryStaff(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body DeliveryStaffAssignment
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAssignDeliveryStaffCommand(
		ctx.Request().Header.Get(HeaderUserID), orderID, body.DeliveryStaffID)
	if err != nil {
		return writeError(ctx, err)
	}

	state, err := s.orders.SetDeliveryStaff(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderState(orderID, state))
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// requireActor rejects requests without an acting user before the body is read.
func requireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if ctx.Request().Header.Get(HeaderUserID) == "" {
			return ctx.JSON(http.StatusUnauthorized, Error{
				Code:    http.StatusUnauthorized,
				Message: "missing " + HeaderUserID + " header",
			})
		}
		return next(ctx)
	}
}

func orderIDParam(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order id %q", ctx.Param("id"))
	}
	return id, nil
}
