package executor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/screenops/screenops/internal/models"
)

// EvaluateCondition evaluates one perceptual predicate against a screen
// capture. It never panics: decode errors, unavailable backends, and
// unsupported variants all resolve to false with a log line.
func EvaluateCondition(ctx context.Context, c *models.Condition, screen []byte, rc *RunContext) (ok bool) {
	log := rc.Logger.With("condition_type", c.Type, "analyzer", c.Analyzer)

	defer func() {
		if r := recover(); r != nil {
			log.Error("condition evaluation panicked", "kind", models.FailurePerception, "panic", r)
			ok = false
		}
	}()

	if len(screen) == 0 {
		log.Error("no screen data to evaluate", "kind", models.FailurePerception)
		return false
	}

	switch c.Type {
	case models.ConditionText:
		return evaluateText(ctx, c, screen, rc, log)
	case models.ConditionTemplate:
		return matchTemplate(c, screen, log)
	default:
		log.Error("unsupported condition type", "kind", models.FailureConfig)
		return false
	}
}

func evaluateText(ctx context.Context, c *models.Condition, screen []byte, rc *RunContext, log *slog.Logger) bool {
	var (
		text string
		err  error
	)

	switch c.Analyzer {
	case models.AnalyzerOCR:
		if rc.Extractor == nil {
			log.Error("text extractor not available", "kind", models.FailurePerception)
			return false
		}
		text, err = rc.Extractor.Extract(ctx, screen)
	case models.AnalyzerAI:
		if rc.Describer == nil {
			log.Error("semantic describer not available", "kind", models.FailurePerception)
			return false
		}
		text, err = rc.Describer.Describe(ctx, screen)
	default:
		log.Error("unsupported analyzer for text condition", "kind", models.FailureConfig)
		return false
	}

	if err != nil {
		log.Error("perception backend failed", "kind", models.FailurePerception, "error", err)
		return false
	}

	found := strings.Contains(strings.ToLower(text), strings.ToLower(c.Content))
	log.Info("text condition evaluated", "needle", c.Content, "found", found)
	return found
}
