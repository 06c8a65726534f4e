package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/umkmdelicious/backend/pkg/logger"
)

// Marker TTLs must outlive their period so a reset cannot fire twice.
const (
	dailyMarkerTTL   = 48 * time.Hour
	monthlyMarkerTTL = 35 * 24 * time.Hour
)

type salesResetter interface {
	ResetDaily(ctx context.Context) error
	ResetMonthly(ctx context.Context) error
}

type resetMarker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	LockKey(name string) string
}

// SalesResetJobParams configure the periodic sales counter resets.
type SalesResetJobParams struct {
	Logger *logger.Logger
	Sales  salesResetter
	Marker resetMarker
}

// NewDailySalesResetJob zeroes the daily counter once per calendar day.
func NewDailySalesResetJob(params SalesResetJobParams) (Job, error) {
	return newSalesResetJob(params, "daily-sales-reset", "2006-01-02", dailyMarkerTTL, func(ctx context.Context, s salesResetter) error {
		return s.ResetDaily(ctx)
	})
}

// NewMonthlySalesResetJob zeroes the monthly counter once per calendar month.
func NewMonthlySalesResetJob(params SalesResetJobParams) (Job, error) {
	return newSalesResetJob(params, "monthly-sales-reset", "2006-01", monthlyMarkerTTL, func(ctx context.Context, s salesResetter) error {
		return s.ResetMonthly(ctx)
	})
}

func newSalesResetJob(params SalesResetJobParams, name, period string, ttl time.Duration, reset func(context.Context, salesResetter) error) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sales == nil {
		return nil, fmt.Errorf("sales service required")
	}
	if params.Marker == nil {
		return nil, fmt.Errorf("reset marker required")
	}
	return &salesResetJob{
		logg:   params.Logger,
		sales:  params.Sales,
		marker: params.Marker,
		name:   name,
		period: period,
		ttl:    ttl,
		reset:  reset,
		now:    time.Now,
	}, nil
}

type salesResetJob struct {
	logg   *logger.Logger
	sales  salesResetter
	marker resetMarker
	name   string
	period string
	ttl    time.Duration
	reset  func(context.Context, salesResetter) error
	now    func() time.Time
}

func (j *salesResetJob) Name() string { return j.name }

// Run performs at most one reset per period. The Redis marker makes the job
// idempotent across cycles, restarts, and competing workers.
func (j *salesResetJob) Run(ctx context.Context) error {
	stamp := j.now().UTC().Format(j.period)
	key := j.marker.LockKey(j.name + ":" + stamp)

	first, err := j.marker.SetNX(ctx, key, stamp, j.ttl)
	if err != nil {
		return fmt.Errorf("mark %s for %s: %w", j.name, stamp, err)
	}
	if !first {
		return nil
	}

	if err := j.reset(ctx, j.sales); err != nil {
		return fmt.Errorf("%s for %s: %w", j.name, stamp, err)
	}
	j.logg.Info(ctx, j.name+" applied")
	return nil
}
