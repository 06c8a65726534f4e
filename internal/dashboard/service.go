package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/umkmdelicious/backend/internal/invoices"
	"github.com/umkmdelicious/backend/pkg/db/models"
	"github.com/umkmdelicious/backend/pkg/enums"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
)

const (
	recentOrdersLimit    = 5
	popularProductsLimit = 3
)

// Stats is the admin dashboard snapshot.
type Stats struct {
	TotalSales        int64                  `json:"total_sales"`
	DailySales        int64                  `json:"daily_sales"`
	MonthlySales      int64                  `json:"monthly_sales"`
	TotalOrders       int64                  `json:"total_orders"`
	AverageOrderValue decimal.Decimal        `json:"average_order_value"`
	TotalProducts     int64                  `json:"total_products"`
	PendingOrders     int64                  `json:"pending_orders"`
	ProcessingOrders  int64                  `json:"processing_orders"`
	CompletedOrders   int64                  `json:"completed_orders"`
	RecentOrders      []models.Invoice       `json:"recent_orders"`
	PopularProducts   []invoices.PopularItem `json:"popular_products"`
}

// Service assembles dashboard statistics for the admin panel.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type salesReader interface {
	Get(ctx context.Context) (*models.Sale, error)
}

type catalogCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

type invoiceStats interface {
	CountByStatus(ctx context.Context) (map[enums.InvoiceStatus]int64, error)
	Recent(ctx context.Context, limit int) ([]models.Invoice, error)
	PopularItems(ctx context.Context, limit int) ([]invoices.PopularItem, error)
}

type service struct {
	sales    salesReader
	catalog  catalogCounter
	invoices invoiceStats
}

// NewService builds the dashboard service from its read-side dependencies.
func NewService(sales salesReader, catalog catalogCounter, invoiceRepo invoiceStats) (Service, error) {
	if sales == nil {
		return nil, fmt.Errorf("sales reader required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog counter required")
	}
	if invoiceRepo == nil {
		return nil, fmt.Errorf("invoice stats required")
	}
	return &service{sales: sales, catalog: catalog, invoices: invoiceRepo}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	sale, err := s.sales.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales totals")
	}

	products, err := s.catalog.CountActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}

	statusCounts, err := s.invoices.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}

	recent, err := s.invoices.Recent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent orders")
	}

	popular, err := s.invoices.PopularItems(ctx, popularProductsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load popular products")
	}

	if recent == nil {
		recent = []models.Invoice{}
	}
	if popular == nil {
		popular = []invoices.PopularItem{}
	}

	// Orders are counted from the invoice table, not the sales aggregate:
	// deleting an order removes its row but leaves total_orders untouched.
	var totalOrders int64
	for _, n := range statusCounts {
		totalOrders += n
	}

	return &Stats{
		TotalSales:        sale.TotalSales,
		DailySales:        sale.DailySales,
		MonthlySales:      sale.MonthlySales,
		TotalOrders:       totalOrders,
		AverageOrderValue: sale.AverageOrderValue,
		TotalProducts:     products,
		PendingOrders:     statusCounts[enums.InvoiceStatusWaiting],
		ProcessingOrders:  statusCounts[enums.InvoiceStatusProcessing],
		CompletedOrders:   statusCounts[enums.InvoiceStatusDone],
		RecentOrders:      recent,
		PopularProducts:   popular,
	}, nil
}
