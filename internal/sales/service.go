package sales

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/umkmdelicious/backend/pkg/db"
	"github.com/umkmdelicious/backend/pkg/db/models"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
)

// Service is the sole writer of the sales aggregate. Order flows call
// ApplyDelta inside their own transaction so totals move together with the
// invoice rows.
type Service interface {
	ApplyDelta(ctx context.Context, tx *gorm.DB, amount int, isNewOrder bool) error
	Get(ctx context.Context) (*models.Sale, error)
	ResetDaily(ctx context.Context) error
	ResetMonthly(ctx context.Context) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a sales service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// ApplyDelta adds amount to every running total (and bumps the order counter
// for new orders) within the caller's transaction.
func (s *service) ApplyDelta(ctx context.Context, tx *gorm.DB, amount int, isNewOrder bool) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "sales delta requires a transaction")
	}

	repo := s.repo.WithTx(tx)
	sale, err := repo.FetchOrCreate(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales row")
	}
	if err := repo.ApplyDelta(ctx, sale.ID, amount, isNewOrder); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply sales delta")
	}
	return nil
}

// Get returns the current totals, creating the row when the table is empty.
func (s *service) Get(ctx context.Context) (*models.Sale, error) {
	sale, err := s.repo.FetchOrCreate(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales row")
	}
	return sale, nil
}

// ResetDaily zeroes the daily counter when the day rolls over.
func (s *service) ResetDaily(ctx context.Context) error {
	return s.reset(ctx, "daily_sales")
}

// ResetMonthly zeroes the monthly counter when the month rolls over.
func (s *service) ResetMonthly(ctx context.Context) error {
	return s.reset(ctx, "monthly_sales")
}

func (s *service) reset(ctx context.Context, columns ...string) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		sale, err := repo.FetchOrCreate(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales row")
		}
		if err := repo.ResetColumns(ctx, sale.ID, columns...); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset sales counters")
		}
		return nil
	})
}
