package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kri-ruj/readnext/internal/model"
)

// Renderer writes article records and analytics reports to JSON and
// Markdown outputs.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer. The footer can be disabled for
// reports embedded in other documents.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes any value as indented JSON to the given path.
func (r *Renderer) RenderJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderStudyNotes formats an article record as Markdown study notes.
func (r *Renderer) RenderStudyNotes(article *model.ArticleRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Study Notes: %s\n\n", article.Title)
	fmt.Fprintf(&b, "## Quick Facts\n")
	fmt.Fprintf(&b, "- **Quantum Score**: %.0f/1000\n", article.QuantumScore)
	fmt.Fprintf(&b, "- **Knowledge Density**: %.2f\n", article.KnowledgeDensity)
	fmt.Fprintf(&b, "- **Cognitive Load**: %.2f\n", article.CognitiveLoad)
	fmt.Fprintf(&b, "- **Retention Probability**: %.2f\n", article.RetentionProbability)
	fmt.Fprintf(&b, "- **Optimal Read Time**: %s\n", article.OptimalReadTime)
	fmt.Fprintf(&b, "- **Estimated Value**: %.2f\n\n", article.EstimatedValue)

	writeList(&b, "Key Insights", article.KeyInsights, "No insights extracted")
	writeList(&b, "Action Items", article.ActionItems, "No action items extracted")
	writeList(&b, "Concepts", article.Concepts, "No concepts identified")
	writeList(&b, "Entities", article.Entities, "No entities identified")

	if len(article.Tags) > 0 {
		fmt.Fprintf(&b, "## Tags\n%s\n\n", strings.Join(article.Tags, " "))
	}

	if len(article.NextArticles) > 0 {
		fmt.Fprintf(&b, "## Read Next\n")
		for _, id := range article.NextArticles {
			fmt.Fprintf(&b, "- article %d (similarity %.2f)\n", id, article.RelationshipStrength[id])
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n*Generated by readnext on %s*\n", time.Now().Format("2006-01-02 15:04"))
	}

	return b.String()
}

// RenderQuestions formats study questions as a Markdown section, suitable
// for appending to study notes.
func (r *Renderer) RenderQuestions(questions []model.StudyQuestion) string {
	if len(questions) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Study Questions\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Question)
	}
	b.WriteString("\n")
	return b.String()
}

// RenderReportMarkdown formats the fleet analytics report as Markdown.
func (r *Renderer) RenderReportMarkdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Reading Intelligence Report\n\n")
	fmt.Fprintf(&b, "Articles analyzed: %d\n\n", report.TotalArticles)

	fmt.Fprintf(&b, "## Scores\n")
	fmt.Fprintf(&b, "- Average: %.1f\n", report.QuantumMetrics.AverageScore)
	fmt.Fprintf(&b, "- Top: %.1f\n\n", report.QuantumMetrics.TopScore)

	fmt.Fprintf(&b, "## Knowledge\n")
	fmt.Fprintf(&b, "- Unique concepts: %d\n", report.KnowledgeMetrics.UniqueConcepts)
	fmt.Fprintf(&b, "- Mean knowledge density: %.2f\n", report.KnowledgeMetrics.KnowledgeDensityAvg)
	for _, cc := range report.KnowledgeMetrics.TopConcepts {
		fmt.Fprintf(&b, "  - %s (%d)\n", cc.Concept, cc.Count)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Predictions\n")
	fmt.Fprintf(&b, "- Next week reading estimate: %d articles\n", report.Predictions.NextWeekReading)
	if len(report.Predictions.KnowledgeGaps) > 0 {
		fmt.Fprintf(&b, "- Knowledge gaps: %s\n", strings.Join(report.Predictions.KnowledgeGaps, ", "))
	}
	if len(report.Predictions.OptimalSchedule) > 0 {
		fmt.Fprintf(&b, "- Schedule:\n")
		days := make([]string, 0, len(report.Predictions.OptimalSchedule))
		for day := range report.Predictions.OptimalSchedule {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			for _, slot := range report.Predictions.OptimalSchedule[day] {
				fmt.Fprintf(&b, "  - %s %s: article %d (%s)\n", day, slot.Time, slot.ArticleID, slot.Duration)
			}
		}
	}
	b.WriteString("\n")

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(&b, "## Recommendations\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n*Generated by readnext on %s*\n", report.Timestamp.Format("2006-01-02 15:04"))
	}

	return b.String()
}

// RenderSummary prints a one-screen article summary to stdout.
func (r *Renderer) RenderSummary(article *model.ArticleRecord) {
	fmt.Printf("Article %d: %s\n", article.ID, article.Title)
	fmt.Printf("  Quantum score:   %.0f/1000\n", article.QuantumScore)
	fmt.Printf("  Cognitive load:  %.2f\n", article.CognitiveLoad)
	fmt.Printf("  Estimated value: %.2f\n", article.EstimatedValue)
	if len(article.Concepts) > 0 {
		fmt.Printf("  Concepts:        %s\n", strings.Join(article.Concepts, ", "))
	}
	if len(article.ConnectedArticles) > 0 {
		fmt.Printf("  Connections:     %d\n", len(article.ConnectedArticles))
	}
	fmt.Printf("  Read:            %s\n", article.OptimalReadTime)
}

func writeList(b *strings.Builder, heading string, items []string, empty string) {
	fmt.Fprintf(b, "## %s\n", heading)
	if len(items) == 0 {
		fmt.Fprintf(b, "_%s_\n\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
