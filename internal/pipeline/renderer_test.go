package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kri-ruj/readnext/internal/model"
)

func sampleRecord() *model.ArticleRecord {
	return &model.ArticleRecord{
		ID:                   1,
		Title:                "Go Concurrency",
		QuantumScore:         620,
		KnowledgeDensity:     0.42,
		CognitiveLoad:        0.3,
		RetentionProbability: 0.58,
		OptimalReadTime:      "afternoon",
		EstimatedValue:       0.65,
		KeyInsights:          []string{"channels are important"},
		Concepts:             []string{"algorithm", "system"},
		Tags:                 []string{"#golang", "#programming"},
		NextArticles:         []int{2, 3},
		RelationshipStrength: map[int]float64{2: 0.5, 3: 0.4},
	}
}

func TestRenderer_RenderStudyNotes(t *testing.T) {
	notes := NewRenderer(false).RenderStudyNotes(sampleRecord())

	for _, want := range []string{
		"# Study Notes: Go Concurrency",
		"- **Quantum Score**: 620/1000",
		"## Key Insights",
		"- channels are important",
		"## Tags\n#golang #programming",
		"- article 2 (similarity 0.50)",
	} {
		if !strings.Contains(notes, want) {
			t.Errorf("study notes missing %q:\n%s", want, notes)
		}
	}
	if strings.Contains(notes, "Generated by readnext") {
		t.Error("footer rendered despite being disabled")
	}
}

func TestRenderer_RenderStudyNotes_EmptySections(t *testing.T) {
	record := &model.ArticleRecord{ID: 2, Title: "Bare"}
	notes := NewRenderer(true).RenderStudyNotes(record)

	if !strings.Contains(notes, "_No insights extracted_") {
		t.Error("expected insight placeholder")
	}
	if strings.Contains(notes, "## Tags") {
		t.Error("tags section rendered without tags")
	}
	if !strings.Contains(notes, "Generated by readnext") {
		t.Error("expected footer when enabled")
	}
}

func TestRenderer_RenderQuestions(t *testing.T) {
	r := NewRenderer(false)

	if got := r.RenderQuestions(nil); got != "" {
		t.Errorf("expected empty output for no questions, got %q", got)
	}

	out := r.RenderQuestions([]model.StudyQuestion{
		{Question: "What is a goroutine?"},
		{Question: "When do channels block?"},
	})
	if !strings.Contains(out, "## Study Questions") {
		t.Error("missing heading")
	}
	if !strings.Contains(out, "1. What is a goroutine?") || !strings.Contains(out, "2. When do channels block?") {
		t.Errorf("questions not numbered:\n%s", out)
	}
}

func TestRenderer_RenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.json")
	if err := NewRenderer(false).RenderJSON(sampleRecord(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var decoded model.ArticleRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != 1 || decoded.QuantumScore != 620 {
		t.Errorf("round-trip mismatch: %+v", decoded)
	}
}

func TestRenderer_RenderReportMarkdown(t *testing.T) {
	report := &model.Report{
		TotalArticles: 3,
		QuantumMetrics: model.QuantumMetrics{
			AverageScore: 500,
			TopScore:     800,
		},
		KnowledgeMetrics: model.KnowledgeMetrics{
			UniqueConcepts:      4,
			KnowledgeDensityAvg: 0.4,
			TopConcepts:         []model.ConceptCount{{Concept: "ai", Count: 2}},
		},
		Predictions: model.Predictions{
			NextWeekReading: 5,
			KnowledgeGaps:   []string{"distributed systems"},
			OptimalSchedule: map[string][]model.ScheduledRead{
				"monday": {{ArticleID: 1, Time: "8:00 AM", Duration: "30 min"}},
			},
		},
		Recommendations: []string{"Schedule complex articles for morning reading"},
	}

	md := NewRenderer(false).RenderReportMarkdown(report)

	for _, want := range []string{
		"# Reading Intelligence Report",
		"Articles analyzed: 3",
		"- Top: 800.0",
		"- ai (2)",
		"- Next week reading estimate: 5 articles",
		"- Knowledge gaps: distributed systems",
		"- monday 8:00 AM: article 1 (30 min)",
		"- Schedule complex articles for morning reading",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}
