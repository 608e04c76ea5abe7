package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/privacyscan/internal/model"
)

// DefaultBatchConcurrency is used when WithConcurrency is not given.
const DefaultBatchConcurrency = 4

// BatchProcessor scans multiple targets concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline so that the Pipeline stays focused on one session.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each scan.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent scans.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scans.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// The pipelineFactory is called once per target so that no state leaks
// between scans.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch scans targets concurrently and returns one session per
// target, in input order, including sessions whose pipeline failed.
// The error is non-nil only when ctx was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.ScanSession, error) {
	sessions := make([]*model.ScanSession, len(targets))
	err := bp.ProcessBatchWithCallback(ctx, targets, func(s *model.ScanSession, i int) {
		sessions[i] = s
	})
	return sessions, err
}

// ProcessBatchWithCallback scans targets and calls callback as each one
// finishes. The callback runs on the scanning goroutine; index is the
// target's position in targets.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(session *model.ScanSession, index int),
) error {
	bp.logger.Debug("starting batch processing",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			session := model.NewScanSession(target)
			if err := ctx.Err(); err != nil {
				session.TimedOut = true
				session.Error = err
				session.ErrorMessage = err.Error()
				callback(session, i)
				return err
			}

			if err := bp.pipelineFactory().Execute(ctx, session); err != nil {
				bp.logger.Warn("scan failed", "target", target, "error", err)
			}
			callback(session, i)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Debug("batch processing complete",
		"total_targets", len(targets),
		"elapsed", time.Since(start),
	)
	return err
}
