package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/library/internal/logger"
	"github.com/mrlokans/library/internal/metrics"
)

const SweepOrphanLinksQueue = "sweep_orphan_links"

// OrphanLinksSweeper deletes association rows whose student or book is gone.
type OrphanLinksSweeper interface {
	DeleteOrphans(ctx context.Context) (int64, error)
}

// SweepOrphanLinksTask removes student_book rows that reference a missing
// student or book.
type SweepOrphanLinksTask struct {
	// Trigger records who enqueued the sweep: "schedule", "api" or "cli".
	Trigger string `json:"trigger,omitempty"`
}

func (t SweepOrphanLinksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        SweepOrphanLinksQueue,
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SweepOrphanLinks runs one sweep and records the removed rows.
func SweepOrphanLinks(ctx context.Context, sweeper OrphanLinksSweeper, log *logger.Logger) (int64, error) {
	if sweeper == nil {
		return 0, fmt.Errorf("orphan links sweeper not configured")
	}
	if log == nil {
		log = logger.Nop()
	}

	deleted, err := sweeper.DeleteOrphans(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep orphan links: %w", err)
	}

	metrics.LinksRemoved.WithLabelValues(metrics.ReasonOrphanSweep).Add(float64(deleted))
	log.Info("Swept orphan student book links", "deleted", deleted)
	return deleted, nil
}

func SweepOrphanLinksProcessor(sweeper OrphanLinksSweeper, log *logger.Logger) backlite.QueueProcessor[SweepOrphanLinksTask] {
	if log == nil {
		log = logger.Nop()
	}
	return func(ctx context.Context, task SweepOrphanLinksTask) error {
		_, err := SweepOrphanLinks(ctx, sweeper, log.With("trigger", task.Trigger))
		return err
	}
}

func NewSweepOrphanLinksQueue(sweeper OrphanLinksSweeper, log *logger.Logger) backlite.Queue {
	return backlite.NewQueue(SweepOrphanLinksProcessor(sweeper, log))
}
