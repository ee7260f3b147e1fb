package order

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/bizgrow/backend/internal/domain/shared"
	csvimport "github.com/bizgrow/backend/internal/infrastructure/import"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const exportPageSize = 100

// OrderCSVColumns is the column order of order exports
var OrderCSVColumns = []string{
	"order_number", "created_at", "status", "customer_name", "customer_phone",
	"customer_email", "delivery_mode", "items", "subtotal", "delivery_fee", "total",
}

// ExportOrders streams every order matching filter as CSV, oldest first.
// Paging is ignored; the filter's status, date range and search still apply.
func (s *OrderService) ExportOrders(ctx context.Context, storeID uuid.UUID, filter shared.Filter, w io.Writer) error {
	cw, err := csvimport.NewWriter(w, OrderCSVColumns)
	if err != nil {
		return err
	}

	filter = filter.Normalize()
	filter.Page = 1
	filter.PageSize = exportPageSize
	filter.OrderBy = "created_at"
	filter.OrderDir = "asc"

	exported := 0
	for {
		orders, err := s.orders.FindAllForStore(ctx, storeID, filter)
		if err != nil {
			return err
		}
		for i := range orders {
			if err := cw.Write(orderRecordOf(&orders[i])); err != nil {
				return err
			}
		}
		exported += len(orders)
		if len(orders) < filter.PageSize {
			break
		}
		filter.Page++
	}
	if err := cw.Flush(); err != nil {
		return err
	}

	s.logger.Debug("orders exported", zap.String("store_id", storeID.String()), zap.Int("count", exported))
	return nil
}

func orderRecordOf(o *order.Order) []string {
	quantity := 0
	for _, it := range o.Items {
		quantity += it.Quantity
	}
	return []string{
		o.OrderNumber,
		o.CreatedAt.UTC().Format(time.RFC3339),
		string(o.Status),
		o.Customer.Name,
		o.Customer.Phone,
		o.Customer.Email,
		string(o.DeliveryMode),
		strconv.Itoa(quantity),
		o.Subtotal.StringFixed(2),
		o.DeliveryFee.StringFixed(2),
		o.Total.StringFixed(2),
	}
}
