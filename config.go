package main

import "sync"

type Config struct {
	GhostMode               bool            `json:"ghost_mode"`
	AiDepth                 int             `json:"ai_depth"`
	AiTimeLimitMs           int             `json:"ai_time_limit_ms"`
	AiEnablePruning         bool            `json:"ai_enable_pruning"`
	AiSearchBreadth         int             `json:"ai_search_breadth"`
	AiTopLayerBreadth       int             `json:"ai_top_layer_breadth"`
	AiAvgBranchingFactor    int             `json:"ai_avg_branching_factor"`
	AiMaxDepth              int             `json:"ai_max_depth"`
	AiScoreDecayFactor      float64         `json:"ai_score_decay_factor"`
	AiBlockingOverrideRatio float64         `json:"ai_blocking_override_ratio"`
	AiLogSearchStats        bool            `json:"ai_log_search_stats"`
	Heuristics              HeuristicConfig `json:"heuristics"`
}

type HeuristicConfig struct {
	Open4        int `json:"open_4"`
	Broken4      int `json:"broken_4"`
	Closed4      int `json:"closed_4"`
	Open3        int `json:"open_3"`
	Broken3      int `json:"broken_3"`
	Closed3      int `json:"closed_3"`
	Open2        int `json:"open_2"`
	Broken2      int `json:"broken_2"`
	ForkOpen3    int `json:"fork_open_3"`
	ForkFourPlus int `json:"fork_four_plus"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		GhostMode: true,

		// Search mode: 0 picks iterative deepening under the time limit,
		// >= 1 forces that exact depth, SearchDepthDisabled turns the AI off.
		AiDepth:       SearchDepthAuto,
		AiTimeLimitMs: 5500,

		AiEnablePruning: true,

		// Branching control: wide at the ply nearest the root, narrow below.
		AiSearchBreadth:      6,
		AiTopLayerBreadth:    12,
		AiAvgBranchingFactor: 5,
		AiMaxDepth:           16,

		// Nearer advantages outrank farther ones of equal size.
		AiScoreDecayFactor: 0.95,

		// How close a blocking move must come to the best losing line
		// before defense wins the tie.
		AiBlockingOverrideRatio: 0.2,

		AiLogSearchStats: false,

		Heuristics: HeuristicConfig{
			Open4:        4800,
			Broken4:      3200,
			Closed4:      1000,
			Open3:        720,
			Broken3:      640,
			Closed3:      150,
			Open2:        80,
			Broken2:      60,
			ForkOpen3:    2000,
			ForkFourPlus: 4000,
		},
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}
