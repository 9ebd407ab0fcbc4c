package leadscore

import (
	"context"

	applog "suryaghar-backend/internal/logger"
	"suryaghar-backend/internal/metrics"

	"go.uber.org/zap"
)

// Model is anything that can produce an AI score.
type Model interface {
	Score(ctx context.Context, in Input) (*Result, error)
}

// Scorer never fails: model errors degrade to the heuristic.
type Scorer struct {
	model  Model
	logger *zap.Logger
}

func NewScorer(model Model, logger *zap.Logger) *Scorer {
	return &Scorer{model: model, logger: applog.OrNop(logger)}
}

func (s *Scorer) Score(ctx context.Context, in Input) *Result {
	if s.model != nil {
		res, err := s.model.Score(ctx, in)
		if err == nil {
			metrics.LeadScores.WithLabelValues(SourceAI).Inc()
			return res
		}
		s.logger.Warn("lead scoring model failed, using heuristic", zap.Error(err))
	}

	metrics.LeadScores.WithLabelValues(SourceHeuristic).Inc()
	return Heuristic(in)
}
