package queries

import (
	"context"
	"database/sql"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads the order tables directly, bypassing the domain model.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order lookups.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the order or an ObjectNotFoundError.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp, err := h.loadOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.Items, err = h.loadItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) loadOrder(ctx context.Context, orderID int64) (GetOrderQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			type,
			status,
			contact_name,
			contact_phone_number,
			delivery_street,
			delivery_building_number,
			delivery_city,
			delivery_postal_code,
			delivery_country,
			special_instructions,
			delivery_staff_id,
			fulfillment_time_minutes,
			total_amount,
			created_at,
			created_by,
			last_updated_at,
			last_updated_by
		FROM orders
		WHERE id = ?
	`, orderID).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetOrderQueryResponse{}, err
		}
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID)
	}

	var (
		resp                        GetOrderQueryResponse
		orderType, status           int
		street, city, postal, cntry sql.NullString
		building                    sql.NullInt64
		staffID, updatedBy          sql.NullString
		fulfillment                 sql.NullInt64
		updatedAt                   sql.NullTime
		total                       decimal.Decimal
	)

	err = rows.Scan(
		&resp.ID,
		&orderType,
		&status,
		&resp.ContactName,
		&resp.ContactPhoneNumber,
		&street,
		&building,
		&city,
		&postal,
		&cntry,
		&resp.SpecialInstructions,
		&staffID,
		&fulfillment,
		&total,
		&resp.CreatedAt,
		&resp.CreatedBy,
		&updatedAt,
		&updatedBy,
	)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.Type = order.Type(orderType)
	resp.Status = order.Status(status)

	resp.TotalAmount, err = kernel.NewMoney(total)
	if err != nil {
		return GetOrderQueryResponse{}, fmt.Errorf("order %d total: %w", orderID, err)
	}

	if city.Valid {
		resp.DeliveryAddress = &DeliveryAddressResponse{
			Street:         street.String,
			BuildingNumber: int(building.Int64),
			City:           city.String,
			PostalCode:     postal.String,
			Country:        cntry.String,
		}
	}
	if staffID.Valid {
		resp.DeliveryStaffID = &staffID.String
	}
	if fulfillment.Valid {
		minutes := int(fulfillment.Int64)
		resp.FulfillmentTimeMinutes = &minutes
	}
	if updatedAt.Valid {
		resp.LastUpdatedAt = &updatedAt.Time
	}
	if updatedBy.Valid {
		resp.LastUpdatedBy = &updatedBy.String
	}

	return resp, rows.Err()
}

func (h GetOrderQueryHandler) loadItems(ctx context.Context, orderID int64) ([]OrderItemResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			menu_item_id,
			quantity,
			unit_price,
			special_instructions
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemResponse, 0)
	for rows.Next() {
		var (
			item  OrderItemResponse
			price decimal.Decimal
		)
		if err = rows.Scan(&item.MenuItemID, &item.Quantity, &price, &item.SpecialInstructions); err != nil {
			return nil, err
		}

		item.UnitPrice, err = kernel.NewMoney(price)
		if err != nil {
			return nil, fmt.Errorf("order %d item %d price: %w", orderID, item.MenuItemID, err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
