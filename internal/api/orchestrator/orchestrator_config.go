package orchestrator

import "time"

// Stage names, used for flags, cache keys and metrics.
const (
	StageStrategy     = "strategy"
	StageValidation   = "validation"
	StageGapDetection = "gap_detection"
	StageGapFill      = "gap_fill"
)

type StageConfig struct {
	Enabled bool
	TTL     time.Duration
}

// OrchestrationConfig is threaded through the pipeline. A disabled stage
// returns its neutral result without touching the AI service or the cache.
type OrchestrationConfig struct {
	Enabled      bool
	Strategy     StageConfig
	Validation   StageConfig
	GapDetection StageConfig
	GapFill      StageConfig
	// MinRelevance drops validated POIs scoring below it (0..1).
	MinRelevance float64
	Temperature  float32
}

func DefaultConfig() OrchestrationConfig {
	return OrchestrationConfig{
		Enabled:      true,
		Strategy:     StageConfig{Enabled: true, TTL: 7 * 24 * time.Hour},
		Validation:   StageConfig{Enabled: true, TTL: 3 * 24 * time.Hour},
		GapDetection: StageConfig{Enabled: true, TTL: 24 * time.Hour},
		GapFill:      StageConfig{Enabled: true, TTL: 24 * time.Hour},
		MinRelevance: 0.5,
		Temperature:  0.2,
	}
}

func (c OrchestrationConfig) stage(name string) StageConfig {
	var s StageConfig
	switch name {
	case StageStrategy:
		s = c.Strategy
	case StageValidation:
		s = c.Validation
	case StageGapDetection:
		s = c.GapDetection
	case StageGapFill:
		s = c.GapFill
	}
	if !c.Enabled {
		s.Enabled = false
	}
	return s
}
