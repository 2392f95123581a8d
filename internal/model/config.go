package model

import "time"

// Config holds the complete readnext configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Stream      StreamConfig      `yaml:"stream" json:"stream"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
}

// HTTPConfig controls the optional content fetcher.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" json:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" json:"respect_robots"`
}

// CacheConfig controls fetched-content caching.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// ConcurrencyConfig controls batch ingestion.
type ConcurrencyConfig struct {
	IngestWorkers     int     `yaml:"ingest_workers" json:"ingest_workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// StreamConfig controls the streaming analyzer.
type StreamConfig struct {
	ChunkSize  int           `yaml:"chunk_size" json:"chunk_size"`   // words per chunk
	ChunkDelay time.Duration `yaml:"chunk_delay" json:"chunk_delay"` // pause between emissions
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// LLMConfig configures the optional study-question provider.
// Generated questions never feed back into scoring.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"-" json:"-"`
	BaseURL   string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "readnext/0.1 (+https://github.com/kri-ruj/readnext)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			IngestWorkers:     4,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Stream: StreamConfig{
			ChunkSize:  100,
			ChunkDelay: 100 * time.Millisecond,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 500,
		},
	}
}
