package order

import (
	"context"
	"time"

	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/domain/shared/valueobject"
	"github.com/bizgrow/backend/internal/domain/store"
	"github.com/google/uuid"
)

// ErrInvoicesDisabled is returned when no renderer is configured
var ErrInvoicesDisabled = shared.NewDomainError("FEATURE_DISABLED", "Invoice PDFs are not enabled")

// InvoiceLine is a printable order line with amounts already formatted
type InvoiceLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// InvoiceData is everything an invoice template needs
type InvoiceData struct {
	StoreName       string
	StoreAddress    string
	StorePhone      string
	StoreEmail      string
	OrderNumber     string
	OrderDate       time.Time
	Status          string
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	DeliveryMode    string
	Lines           []InvoiceLine
	Subtotal        string
	DeliveryFee     string
	Total           string
	Notes           string
}

// InvoiceRenderer turns invoice data into a PDF
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, data InvoiceData) ([]byte, error)
}

// NewInvoiceData formats an order for printing
func NewInvoiceData(st *store.Store, o *order.Order) InvoiceData {
	lines := make([]InvoiceLine, len(o.Items))
	for i, it := range o.Items {
		lines[i] = InvoiceLine{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: valueobject.NewMoneyINR(it.Price).Format(),
			LineTotal: valueobject.NewMoneyINR(it.LineTotal).Format(),
		}
	}
	return InvoiceData{
		StoreName:       st.Name,
		StoreAddress:    st.Address,
		StorePhone:      st.Phone,
		StoreEmail:      st.Email,
		OrderNumber:     o.OrderNumber,
		OrderDate:       o.CreatedAt,
		Status:          string(o.Status),
		CustomerName:    o.Customer.Name,
		CustomerPhone:   o.Customer.Phone,
		CustomerEmail:   o.Customer.Email,
		CustomerAddress: o.Customer.Address,
		DeliveryMode:    string(o.DeliveryMode),
		Lines:           lines,
		Subtotal:        valueobject.NewMoneyINR(o.Subtotal).Format(),
		DeliveryFee:     valueobject.NewMoneyINR(o.DeliveryFee).Format(),
		Total:           valueobject.NewMoneyINR(o.Total).Format(),
		Notes:           o.Notes,
	}
}

// Invoice renders the order's invoice and returns the PDF with a file name
func (s *OrderService) Invoice(ctx context.Context, storeID, id uuid.UUID) ([]byte, string, error) {
	if s.invoices == nil {
		return nil, "", ErrInvoicesDisabled
	}
	st, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, "", err
	}
	o, err := s.orders.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.invoices.RenderInvoice(ctx, NewInvoiceData(st, o))
	if err != nil {
		return nil, "", err
	}
	return pdf, "invoice-" + o.OrderNumber + ".pdf", nil
}
