package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/umkmdelicious/backend/internal/invoices"
	"github.com/umkmdelicious/backend/pkg/config"
	"github.com/umkmdelicious/backend/pkg/logger"
)

// StatusAdvanceJobParams configure the invoice lifecycle scheduler.
type StatusAdvanceJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Scheduler   config.SchedulerConfig
	RepoFactory invoiceAdvancerFactory
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type invoiceAdvancer interface {
	AdvanceWaiting(ctx context.Context, olderThan time.Time, now time.Time) (int64, error)
	AdvanceProcessing(ctx context.Context, olderThan time.Time, now time.Time) (int64, error)
}

type invoiceAdvancerFactory func(tx *gorm.DB) invoiceAdvancer

func defaultInvoiceAdvancer(tx *gorm.DB) invoiceAdvancer {
	return invoices.NewRepository(tx)
}

// NewStatusAdvanceJob builds the cron job that walks invoices through
// waiting, processing, and done on time thresholds.
func NewStatusAdvanceJob(params StatusAdvanceJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Scheduler.WaitThreshold <= 0 || params.Scheduler.ProcessThreshold <= 0 {
		return nil, fmt.Errorf("scheduler thresholds must be positive")
	}
	repoFactory := params.RepoFactory
	if repoFactory == nil {
		repoFactory = defaultInvoiceAdvancer
	}
	return &statusAdvanceJob{
		logg:             params.Logger,
		db:               params.DB,
		waitThreshold:    params.Scheduler.WaitThreshold,
		processThreshold: params.Scheduler.ProcessThreshold,
		repoFactory:      repoFactory,
		now:              time.Now,
	}, nil
}

type statusAdvanceJob struct {
	logg             *logger.Logger
	db               txRunner
	waitThreshold    time.Duration
	processThreshold time.Duration
	repoFactory      invoiceAdvancerFactory
	now              func() time.Time
}

func (j *statusAdvanceJob) Name() string { return "status-advance" }

// Run moves every overdue invoice with two set-based updates. Both updates
// are conditional on the current status, so re-running the job is harmless.
func (j *statusAdvanceJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var toProcessing, toDone int64

	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.repoFactory(tx)

		moved, err := repo.AdvanceWaiting(ctx, now.Add(-j.waitThreshold), now)
		if err != nil {
			return fmt.Errorf("advance waiting invoices: %w", err)
		}
		toProcessing = moved

		moved, err = repo.AdvanceProcessing(ctx, now.Add(-j.processThreshold), now)
		if err != nil {
			return fmt.Errorf("advance processing invoices: %w", err)
		}
		toDone = moved
		return nil
	})
	if err != nil {
		return fmt.Errorf("status advance: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"to_processing": toProcessing,
		"to_done":       toDone,
	})
	j.logg.Info(logCtx, "status advance complete")
	return nil
}
