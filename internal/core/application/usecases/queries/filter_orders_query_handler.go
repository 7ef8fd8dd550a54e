package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// FilterOrdersQueryHandler lists orders straight from the orders table.
type FilterOrdersQueryHandler struct {
	db *gorm.DB
}

// NewFilterOrdersQueryHandler creates a handler for order listings.
func NewFilterOrdersQueryHandler(db *gorm.DB) FilterOrdersQueryHandler {
	return FilterOrdersQueryHandler{db: db}
}

// Handle returns the matching orders sorted by id. No match yields an empty slice.
func (h FilterOrdersQueryHandler) Handle(
	ctx context.Context,
	query FilterOrdersQuery,
) ([]FilterOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var status, orderType *int
	if s := query.Status(); s != nil {
		v := int(*s)
		status = &v
	}
	if t := query.OrderType(); t != nil {
		v := int(*t)
		orderType = &v
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			type,
			status,
			delivery_staff_id,
			fulfillment_time_minutes,
			created_at,
			created_by,
			last_updated_at,
			last_updated_by
		FROM orders
		WHERE (CAST(? AS integer) IS NULL OR status = ?)
		  AND (CAST(? AS integer) IS NULL OR type = ?)
		ORDER BY id
	`, status, status, orderType, orderType).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]FilterOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp               FilterOrdersQueryResponse
			t, s               int
			staffID, updatedBy sql.NullString
			fulfillment        sql.NullInt64
			updatedAt          sql.NullTime
		)

		err = rows.Scan(
			&resp.ID,
			&t,
			&s,
			&staffID,
			&fulfillment,
			&resp.CreatedAt,
			&resp.CreatedBy,
			&updatedAt,
			&updatedBy,
		)
		if err != nil {
			return nil, err
		}

		resp.Type = order.Type(t)
		resp.Status = order.Status(s)
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

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
