package runs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/veridocs/kycengine/internal/domain/validation"
	"github.com/veridocs/kycengine/internal/infrastructure/messaging/kafka"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
)

// Validation bundles everything one validation pass produces.
type Validation struct {
	Assembly *Assembly
	Result   validation.Result
	Trace    validation.TraceSection
}

// ValidateRun assembles the profile from the run's extracted payloads, runs
// the validator and trace builder over the same evaluation, persists the
// results, and announces completion.  Missing documents yield coverage flags,
// never errors; a run with no extracted payloads at all is rejected.
func (s *Service) ValidateRun(ctx context.Context, runID string) (*Validation, error) {
	started := s.now()

	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.ExtractedCount() == 0 {
		return nil, errors.New(errors.ErrCodeRunNotReady, "run has no extracted documents").WithDetail(runID)
	}

	assembly, err := s.assemble(run)
	if err != nil {
		return nil, err
	}

	ev := validation.Evaluate(assembly.Profile, s.policy, s.now())
	result := validation.Validate(ev)
	trace := validation.BuildTrace(ev)

	profileJSON, err := json.Marshal(assembly.Profile)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal profile")
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal validation result")
	}
	if err := s.runs.SaveResults(ctx, runID, profileJSON, resultJSON); err != nil {
		return nil, err
	}

	s.cacheResults(ctx, runID, assembly, result, trace)
	s.observeValidation(result, s.now().Sub(started))

	if s.publisher != nil {
		critical, warning, _ := validation.CountByLevel(result.Flags)
		payload := kafka.RunValidatedPayload{
			RunID:         runID,
			CustomerID:    run.CustomerID,
			Score:         result.Score,
			CriticalFlags: critical,
			WarningFlags:  warning,
			ValidatedAt:   result.GeneratedAt,
		}
		if err := s.publisher.Publish(ctx, kafka.TopicRunValidated, "run.validated", runID, payload); err != nil {
			s.logger.Warn("failed to announce validation",
				logging.String("run_id", runID), logging.Err(err))
		} else if s.metrics != nil {
			s.metrics.EventsPublishedTotal.WithLabelValues(kafka.TopicRunValidated).Inc()
		}
	}

	s.logger.Info("run validated",
		logging.String("run_id", runID),
		logging.Float64("score", result.Score),
		logging.Int("flags", len(result.Flags)))
	return &Validation{Assembly: assembly, Result: result, Trace: trace}, nil
}

// GetTrace returns the evidence trace for a run, from cache when available.
func (s *Service) GetTrace(ctx context.Context, runID string) (*validation.TraceSection, error) {
	if s.cache != nil {
		var cached validation.TraceSection
		if err := s.cache.GetTrace(ctx, runID, &cached); err == nil {
			return &cached, nil
		}
	}
	v, err := s.ValidateRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &v.Trace, nil
}

// GetValidation returns the validation result for a run, from cache when
// available.
func (s *Service) GetValidation(ctx context.Context, runID string) (*validation.Result, error) {
	if s.cache != nil {
		var cached validation.Result
		if err := s.cache.GetValidation(ctx, runID, &cached); err == nil {
			return &cached, nil
		}
	}
	v, err := s.ValidateRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &v.Result, nil
}

// cacheResults stores the validation artifacts best-effort.
func (s *Service) cacheResults(ctx context.Context, runID string, assembly *Assembly,
	result validation.Result, trace validation.TraceSection) {
	if s.cache == nil {
		return
	}
	for name, err := range map[string]error{
		"profile":    s.cache.SetProfile(ctx, runID, assembly.Profile),
		"validation": s.cache.SetValidation(ctx, runID, result),
		"trace":      s.cache.SetTrace(ctx, runID, trace),
	} {
		if err != nil {
			s.logger.Warn("cache write failed",
				logging.String("run_id", runID),
				logging.String("artifact", name),
				logging.Err(err))
		}
	}
}

// observeValidation records metrics for one validation pass.
func (s *Service) observeValidation(result validation.Result, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	flagLevels := make(map[string]string, len(result.Flags))
	for _, f := range result.Flags {
		flagLevels[string(f.Code)] = string(f.Level)
	}
	s.metrics.ObserveValidation(result.Score, flagLevels, elapsed)
}
