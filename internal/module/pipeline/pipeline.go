package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"github.com/quickai/server/internal/infra/config"
	"github.com/quickai/server/internal/module/creation"
	apperrors "github.com/quickai/server/internal/utils/errors"
	"github.com/quickai/server/internal/utils/metrics"
	"github.com/quickai/server/internal/utils/requestctx"
	"go.uber.org/zap"
)

const defaultFreeLimit = 10

// Pipeline runs operations: gate, validate, execute, record, charge.
type Pipeline struct {
	registry  *Registry
	records   CreationStore
	usage     UsageCounter
	freeLimit int
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// New creates a pipeline. m may be nil.
func New(registry *Registry, records CreationStore, usage UsageCounter, cfg config.QuotaConfig, m *metrics.Metrics, logger *zap.Logger) *Pipeline {
	limit := cfg.FreeLimit
	if limit <= 0 {
		limit = defaultFreeLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		registry:  registry,
		records:   records,
		usage:     usage,
		freeLimit: limit,
		metrics:   m,
		logger:    logger,
	}
}

// FreeLimit returns the number of free operations a caller gets.
func (p *Pipeline) FreeLimit() int {
	return p.freeLimit
}

// Run executes req for caller. Rejections and failures are returned as
// *apperrors.AppError values that render directly into the envelope.
func (p *Pipeline) Run(ctx context.Context, caller Caller, req *Request) (*Result, error) {
	op, ok := p.registry.Get(req.Kind)
	if !ok {
		return nil, apperrors.Internal("Operation failed", fmt.Errorf("no operation registered for %q", req.Kind))
	}

	log := p.logger.With(requestctx.LogFields(ctx)...).With(
		zap.String("kind", string(req.Kind)),
		zap.String("user_id", caller.UserID),
	)

	if err := op.Gate().check(caller, p.freeLimit); err != nil {
		log.Info("operation rejected by gate",
			zap.Stringer("gate", op.Gate()),
			zap.String("plan", string(caller.Plan)),
			zap.Int("free_usage", caller.FreeUsage),
		)
		outcome := metrics.OutcomeQuotaRejected
		if op.Gate() == GatePlan {
			outcome = metrics.OutcomeForbidden
		}
		p.recordOutcome(req.Kind, outcome)
		return nil, err
	}

	if err := op.Validate(req); err != nil {
		log.Info("operation request rejected", zap.Error(err))
		p.recordOutcome(req.Kind, metrics.OutcomeInvalid)
		return nil, err
	}

	result, err := op.Execute(ctx, caller, req)
	if err != nil {
		if apperrors.GetStatusCode(err) == http.StatusOK {
			log.Info("operation request rejected", zap.Error(err))
			p.recordOutcome(req.Kind, metrics.OutcomeInvalid)
		} else {
			log.Error("operation failed", zap.Error(err))
			p.recordOutcome(req.Kind, metrics.OutcomeUpstreamFailed)
		}
		return nil, err
	}

	record := &creation.Creation{
		UserID:  caller.UserID,
		Prompt:  result.Prompt,
		Content: result.Payload,
		Type:    string(op.Kind()),
		Publish: result.Publish,
	}
	if err := p.records.Record(ctx, record); err != nil {
		log.Error("failed to record creation", zap.Error(err))
		p.recordOutcome(req.Kind, metrics.OutcomePersistFailed)
		return nil, apperrors.Internal(failureMessage(req.Kind), err)
	}

	if !caller.IsPremium() {
		// The record is already committed; a lost increment is reported, not undone.
		if err := p.usage.Increment(ctx, caller.UserID); err != nil {
			log.Warn("failed to increment free usage",
				zap.Int64("creation_id", record.ID),
				zap.String("inconsistency", "creation recorded without usage charge"),
				zap.Error(err),
			)
			if p.metrics != nil {
				p.metrics.RecordUsageIncrementFailure()
			}
		}
	}

	log.Debug("operation completed", zap.Int64("creation_id", record.ID))
	p.recordOutcome(req.Kind, metrics.OutcomeSuccess)
	return result, nil
}

func (p *Pipeline) recordOutcome(kind Kind, outcome string) {
	if p.metrics != nil {
		p.metrics.RecordPipelineRun(string(kind), outcome)
	}
}
