package config

import (
	"log"
	"math"
	"sync"
	"time"
)

type RankingConfig struct {
	WeightJD          float64
	WeightComparative float64
	WeightSalary      float64
	LockTTL           time.Duration
}

var (
	rankingConfig *RankingConfig
	rankingOnce   sync.Once
)

func LoadRankingConfig() *RankingConfig {
	rankingOnce.Do(func() {
		cfg := &RankingConfig{
			WeightJD:          envFloat("RANK_WEIGHT_JD", 0.4),
			WeightComparative: envFloat("RANK_WEIGHT_COMPARATIVE", 0.3),
			WeightSalary:      envFloat("RANK_WEIGHT_SALARY", 0.3),
			LockTTL:           envDuration("RANK_LOCK_TTL", 2*time.Minute),
		}
		sum := cfg.WeightJD + cfg.WeightComparative + cfg.WeightSalary
		if math.Abs(sum-1) > 1e-9 || cfg.WeightJD < 0 || cfg.WeightComparative < 0 || cfg.WeightSalary < 0 {
			log.Printf("Warning: ranking weights %.3f/%.3f/%.3f do not sum to 1, using 0.4/0.3/0.3",
				cfg.WeightJD, cfg.WeightComparative, cfg.WeightSalary)
			cfg.WeightJD, cfg.WeightComparative, cfg.WeightSalary = 0.4, 0.3, 0.3
		}
		rankingConfig = cfg
	})
	return rankingConfig
}
