package user

import (
	"math"
	"sync"
	"time"

	"github.com/kri-ruj/readnext/internal/model"
)

// Cognitive states predicted from the time of day.
const (
	StateFresh      = "fresh"
	StateFocused    = "focused"
	StateTired      = "tired"
	StateDistracted = "distracted"
)

// readingLevelStep is the fixed increment applied when a completed
// article's cognitive load exceeds the current level.
const readingLevelStep = 0.01

// BehaviorModel tracks one user's reading behavior for the lifetime of
// the process. It is never serialized by this core. All accessors are
// safe for concurrent use; the scorer only reads.
type BehaviorModel struct {
	mu sync.RWMutex

	readingLevel  float64
	interests     map[string]struct{}
	knownConcepts map[string]struct{}

	// metric name -> append-only observations
	readingPatterns map[string][]float64

	learningStyle string
	goals         []string

	now func() time.Time
}

// NewBehaviorModel creates a model with the neutral starting level.
func NewBehaviorModel() *BehaviorModel {
	return &BehaviorModel{
		readingLevel:    0.5,
		interests:       make(map[string]struct{}),
		knownConcepts:   make(map[string]struct{}),
		readingPatterns: make(map[string][]float64),
		learningStyle:   "visual",
		now:             time.Now,
	}
}

// SetClock replaces the model's clock. Tests use this to pin the hour.
func (m *BehaviorModel) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// ReadingLevel returns the current reading level (0-1).
func (m *BehaviorModel) ReadingLevel() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readingLevel
}

// SetInterests replaces the interest set.
func (m *BehaviorModel) SetInterests(interests []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interests = make(map[string]struct{}, len(interests))
	for _, i := range interests {
		m.interests[i] = struct{}{}
	}
}

// HasInterests reports whether any interests are configured.
func (m *BehaviorModel) HasInterests() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.interests) > 0
}

// InterestMatches counts how many of the given concepts are interests.
func (m *BehaviorModel) InterestMatches(concepts []string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, c := range concepts {
		if _, ok := m.interests[c]; ok {
			count++
		}
	}
	return count
}

// KnowsConcept reports whether the concept has been seen before.
func (m *BehaviorModel) KnowsConcept(concept string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.knownConcepts[concept]
	return ok
}

// KnownConceptCount returns the size of the known-concept set.
func (m *BehaviorModel) KnownConceptCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.knownConcepts)
}

// SetGoals replaces the user's stated goals.
func (m *BehaviorModel) SetGoals(goals []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals = append([]string(nil), goals...)
}

// LearningStyle returns the configured learning style.
func (m *BehaviorModel) LearningStyle() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.learningStyle
}

// Update folds one reading event into the model. The reading level only
// increases, by the fixed step, and only when a completed article's
// cognitive load exceeds it. Concepts merge into the known set; the
// timestamp, duration and velocity observations are appended.
func (m *BehaviorModel) Update(article *model.ArticleRecord, engagement model.EngagementData) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if engagement.Completed && article.CognitiveLoad > m.readingLevel {
		m.readingLevel = math.Min(1.0, m.readingLevel+readingLevelStep)
	}

	for _, c := range article.Concepts {
		m.knownConcepts[c] = struct{}{}
	}

	m.readingPatterns["time"] = append(m.readingPatterns["time"], float64(m.now().Unix()))
	m.readingPatterns["duration"] = append(m.readingPatterns["duration"], engagement.Duration)
	m.readingPatterns["velocity"] = append(m.readingPatterns["velocity"], article.ReadingVelocity)
}

// Pattern returns a copy of the observations recorded for a metric.
func (m *BehaviorModel) Pattern(name string) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]float64(nil), m.readingPatterns[name]...)
}

// PredictCognitiveState maps the current hour to a coarse state. It is
// not session-aware: early morning is fresh, the post-lunch dip is
// tired, late night is distracted, everything else focused.
func (m *BehaviorModel) PredictCognitiveState() string {
	m.mu.RLock()
	hour := m.now().Hour()
	m.mu.RUnlock()

	switch {
	case hour >= 6 && hour <= 10:
		return StateFresh
	case hour >= 14 && hour <= 16:
		return StateTired
	case hour >= 22 || hour <= 5:
		return StateDistracted
	default:
		return StateFocused
	}
}
