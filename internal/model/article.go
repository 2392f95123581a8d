package model

// RawArticle is the inbound shape supplied by the transport layer.
// ID, URL and Title are required; Content is optional and falls back
// to the title during analysis.
type RawArticle struct {
	ID      int    `json:"id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// ArticleRecord is the canonical intelligence record for one ingested
// document. Identity fields are immutable once created; the computed
// fields are written only by the pipeline phases and the streaming
// analyzer.
type ArticleRecord struct {
	ID      int    `json:"id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`

	// Multi-factor metrics
	QuantumScore         float64 `json:"quantum_score"`          // 0-1000 priority score
	KnowledgeDensity     float64 `json:"knowledge_density"`      // distinct words / total words
	CognitiveLoad        float64 `json:"cognitive_load"`         // 0-1 difficulty proxy
	RetentionProbability float64 `json:"retention_probability"`  // 0.4-0.7 given load bounds
	ImpactFactor         float64 `json:"impact_factor"`          // quantum score / 1000

	// Reading-time metrics, overwritten per chunk by the streaming analyzer
	ReadingVelocity    float64 `json:"reading_velocity"`    // words per minute
	EngagementScore    float64 `json:"engagement_score"`    // 0-1
	ComprehensionLevel float64 `json:"comprehension_level"` // 0-1

	// Extracted structure
	Entities    []string           `json:"entities,omitempty"`
	Concepts    []string           `json:"concepts,omitempty"` // at most 10, vocabulary order
	Emotions    map[string]float64 `json:"emotions,omitempty"`
	KeyInsights []string           `json:"key_insights,omitempty"` // at most 5
	ActionItems []string           `json:"action_items,omitempty"` // at most 5
	Tags        []string           `json:"tags,omitempty"`

	// Graph cross-references, written at insertion time
	ConnectedArticles    []int           `json:"connected_articles,omitempty"`
	RelationshipStrength map[int]float64 `json:"relationship_strength,omitempty"`

	// Predicted outcomes
	NextArticles    []int   `json:"next_articles,omitempty"`
	OptimalReadTime string  `json:"optimal_read_time,omitempty"`
	EstimatedValue  float64 `json:"estimated_value"`
}

// NewArticleRecord builds a record from raw input with all intelligence
// fields at their neutral defaults.
func NewArticleRecord(raw RawArticle) *ArticleRecord {
	return &ArticleRecord{
		ID:                   raw.ID,
		URL:                  raw.URL,
		Title:                raw.Title,
		Content:              raw.Content,
		Emotions:             make(map[string]float64),
		RelationshipStrength: make(map[int]float64),
	}
}

// AnalysisText returns the text used for content analysis: the content
// when present, otherwise the title.
func (a *ArticleRecord) AnalysisText() string {
	if a.Content != "" {
		return a.Content
	}
	return a.Title
}

// ValidationError reports that a required field was missing from raw
// article input. It is the only error the core surfaces to callers.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "invalid article: missing " + e.Field
}

// EngagementData captures one reading event, supplied by the caller
// after an article has been read (or abandoned).
type EngagementData struct {
	Completed bool    `json:"completed"`
	Duration  float64 `json:"duration_seconds,omitempty"`
}

// ChunkMetrics is the ephemeral per-chunk measurement emitted during
// streaming analysis. It is never persisted; each emission overwrites
// the corresponding ArticleRecord fields.
type ChunkMetrics struct {
	Velocity      float64 `json:"velocity"`      // words per minute, 200-400
	Engagement    float64 `json:"engagement"`    // 0.5-1.0
	Comprehension float64 `json:"comprehension"` // 0.6-1.0
	Position      int     `json:"position"`
	WordCount     int     `json:"word_count"`
}

// ChunkEvent is one emission of the streaming analyzer.
type ChunkEvent struct {
	ChunkID  int          `json:"chunk_id"`
	Metrics  ChunkMetrics `json:"metrics"`
	Insights []string     `json:"insights,omitempty"`
}
