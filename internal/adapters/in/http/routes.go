package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterHandlers mounts the order API, the health check and, when metricsHandler is
// not nil, the Prometheus scrape endpoint.
func RegisterHandlers(e *echo.Echo, s *Server, metricsHandler http.Handler) {
	e.GET("/health", s.Health)
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}

	api := e.Group("/api/v1")
	api.POST("/orders", s.PlaceOrder, requireActor)
	api.GET("/orders", s.FilterOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.ChangeOrderStatus, requireActor)
	api.PATCH("/orders/:id/delivery", s.AssignDeliveryStaff, requireActor)
}
