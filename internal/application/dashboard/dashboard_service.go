// Package dashboard assembles the merchant dashboard widgets.
package dashboard

import (
	"context"
	"fmt"
	"time"

	catalogapp "github.com/bizgrow/backend/internal/application/catalog"
	orderapp "github.com/bizgrow/backend/internal/application/order"
	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/domain/notification"
	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWidgetLimit = 5
	maxWidgetLimit     = 50
)

// IST is the business day the "today" figures are counted in
var IST = time.FixedZone("IST", 5*60*60+30*60)

// StatsResponse is the stats card row
type StatsResponse struct {
	TotalProducts       int64           `json:"total_products"`
	ActiveProducts      int64           `json:"active_products"`
	TotalOrders         int64           `json:"total_orders"`
	PendingOrders       int64           `json:"pending_orders"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TodayOrders         int64           `json:"today_orders"`
	TodayRevenue        decimal.Decimal `json:"today_revenue"`
	TotalCustomers      int64           `json:"total_customers"`
	UnreadNotifications int64           `json:"unread_notifications"`
}

// TopProductResponse is one best-seller row
type TopProductResponse struct {
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// OverviewResponse bundles every widget for the first paint
type OverviewResponse struct {
	Stats        StatsResponse                `json:"stats"`
	RecentOrders []orderapp.OrderResponse     `json:"recent_orders"`
	TopProducts  []TopProductResponse         `json:"top_products"`
	LowStock     []catalogapp.ProductResponse `json:"low_stock"`
}

// DashboardService reads the aggregates behind the dashboard
type DashboardService struct {
	products      catalog.ProductRepository
	orders        order.Repository
	customers     order.CustomerRepository
	notifications notification.Repository
	location      *time.Location
	now           func() time.Time
	logger        *zap.Logger
}

// Option configures a DashboardService
type Option func(*DashboardService)

// WithLocation sets the zone whose midnight starts "today"
func WithLocation(loc *time.Location) Option {
	return func(s *DashboardService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *DashboardService) {
		s.logger = logger
	}
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	products catalog.ProductRepository,
	orders order.Repository,
	customers order.CustomerRepository,
	notifications notification.Repository,
	opts ...Option,
) *DashboardService {
	s := &DashboardService{
		products:      products,
		orders:        orders,
		customers:     customers,
		notifications: notifications,
		location:      IST,
		now:           time.Now,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats computes the stats cards. The queries run concurrently.
func (s *DashboardService) Stats(ctx context.Context, storeID uuid.UUID) (*StatsResponse, error) {
	var (
		stats   StatsResponse
		summary *order.Summary
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.products.CountForStore(gctx, storeID, shared.DefaultFilter())
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		stats.TotalProducts = n
		return nil
	})
	g.Go(func() error {
		n, err := s.products.CountForStore(gctx, storeID, shared.DefaultFilter().With("is_active", true))
		if err != nil {
			return fmt.Errorf("count active products: %w", err)
		}
		stats.ActiveProducts = n
		return nil
	})
	g.Go(func() error {
		sum, err := s.orders.Summarize(gctx, storeID, s.startOfDay())
		if err != nil {
			return fmt.Errorf("summarize orders: %w", err)
		}
		summary = sum
		return nil
	})
	g.Go(func() error {
		n, err := s.customers.CountForStore(gctx, storeID, shared.DefaultFilter())
		if err != nil {
			return fmt.Errorf("count customers: %w", err)
		}
		stats.TotalCustomers = n
		return nil
	})
	g.Go(func() error {
		n, err := s.notifications.CountUnread(gctx, storeID)
		if err != nil {
			return fmt.Errorf("count unread notifications: %w", err)
		}
		stats.UnreadNotifications = n
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to compute dashboard stats", zap.String("store_id", storeID.String()), zap.Error(err))
		return nil, err
	}

	stats.TotalOrders = summary.TotalOrders
	stats.PendingOrders = summary.PendingOrders
	stats.TotalRevenue = summary.TotalRevenue
	stats.TodayOrders = summary.OrdersSince
	stats.TodayRevenue = summary.RevenueSince
	return &stats, nil
}

// RecentOrders returns the latest orders
func (s *DashboardService) RecentOrders(ctx context.Context, storeID uuid.UUID, limit int) ([]orderapp.OrderResponse, error) {
	orders, err := s.orders.FindRecent(ctx, storeID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return orderapp.ToOrderResponses(orders), nil
}

// TopProducts ranks products by units sold
func (s *DashboardService) TopProducts(ctx context.Context, storeID uuid.UUID, limit int) ([]TopProductResponse, error) {
	rows, err := s.orders.TopProducts(ctx, storeID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	out := make([]TopProductResponse, len(rows))
	for i, r := range rows {
		out[i] = TopProductResponse{ProductID: r.ProductID, Name: r.Name, Quantity: r.Quantity, Revenue: r.Revenue}
	}
	return out, nil
}

// LowStock lists active products at or below the low stock threshold
func (s *DashboardService) LowStock(ctx context.Context, storeID uuid.UUID, limit int) ([]catalogapp.ProductResponse, error) {
	products, err := s.products.FindLowStock(ctx, storeID, catalog.LowStockThreshold, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return catalogapp.ToProductResponses(products), nil
}

// Overview loads all widgets at once
func (s *DashboardService) Overview(ctx context.Context, storeID uuid.UUID, limit int) (*OverviewResponse, error) {
	var resp OverviewResponse
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.Stats(gctx, storeID)
		if err != nil {
			return err
		}
		resp.Stats = *stats
		return nil
	})
	g.Go(func() (err error) {
		resp.RecentOrders, err = s.RecentOrders(gctx, storeID, limit)
		return err
	})
	g.Go(func() (err error) {
		resp.TopProducts, err = s.TopProducts(gctx, storeID, limit)
		return err
	})
	g.Go(func() (err error) {
		resp.LowStock, err = s.LowStock(gctx, storeID, limit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *DashboardService) startOfDay() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultWidgetLimit
	}
	if limit > maxWidgetLimit {
		return maxWidgetLimit
	}
	return limit
}
