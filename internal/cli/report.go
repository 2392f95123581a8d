package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kri-ruj/readnext/internal/analytics"
	"github.com/kri-ruj/readnext/internal/model"
	"github.com/kri-ruj/readnext/internal/pipeline"
	"github.com/kri-ruj/readnext/internal/recommend"
	"github.com/spf13/cobra"
)

var (
	reportJSON    string
	reportMD      string
	similarTo     int
	dupeThreshold float64
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <records-dir-or-file>",
	Short: "Aggregate analyzed articles into a fleet report",
	Long: `Report loads previously analyzed article records and produces
fleet analytics:
- Score distribution with average and top score
- Concept frequencies and mean knowledge density
- Reading pace prediction, knowledge gaps, and an optimal schedule
- Habit recommendations

It can also surface similar-article recommendations and near-duplicates.

Example:
  readnext report ./readnext-records
  readnext report ./readnext-records --md report.md --json report.json
  readnext report ./readnext-records --similar 42
  readnext report ./readnext-records --duplicates 0.8`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportJSON, "json", "", "output JSON path (optional)")
	reportCmd.Flags().StringVar(&reportMD, "md", "", "output Markdown path (optional)")
	reportCmd.Flags().IntVar(&similarTo, "similar", 0, "print articles similar to the given article ID")
	reportCmd.Flags().Float64Var(&dupeThreshold, "duplicates", 0, "print article pairs with concept similarity above this threshold")
}

func runReport(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no article records found in %s", args[0])
	}

	report := analytics.NewAggregator().GenerateReport(records)
	renderer := pipeline.NewRenderer(!noFooter)

	if reportJSON != "" {
		if err := renderer.RenderJSON(report, reportJSON); err != nil {
			return err
		}
	}

	md := renderer.RenderReportMarkdown(report)
	if reportMD != "" {
		if err := os.WriteFile(reportMD, []byte(md), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	} else {
		fmt.Print(md)
	}

	recommender := recommend.NewRecommender()

	if similarTo != 0 {
		if err := printSimilar(recommender, records, similarTo); err != nil {
			return err
		}
	}

	if dupeThreshold > 0 {
		printDuplicates(recommender, records, dupeThreshold)
	}

	return nil
}

func printSimilar(r *recommend.Recommender, records []*model.ArticleRecord, id int) error {
	var target *model.ArticleRecord
	for _, record := range records {
		if record.ID == id {
			target = record
			break
		}
	}
	if target == nil {
		return fmt.Errorf("article %d not found", id)
	}

	recs := r.SimilarArticles(target, records, 5)
	fmt.Printf("Similar to article %d (%s):\n", target.ID, target.Title)
	if len(recs) == 0 {
		fmt.Println("  no similar articles found")
		return nil
	}
	for _, rec := range recs {
		fmt.Printf("  %d. %s (%.2f) - %s\n", rec.ID, rec.Title, rec.Similarity, rec.Reason)
	}
	return nil
}

func printDuplicates(r *recommend.Recommender, records []*model.ArticleRecord, threshold float64) {
	pairs := r.DetectDuplicates(records, threshold)
	fmt.Printf("Potential duplicates (similarity >= %.2f):\n", threshold)
	if len(pairs) == 0 {
		fmt.Println("  none found")
		return
	}
	for _, pair := range pairs {
		fmt.Printf("  article %d and article %d (%.2f)\n", pair.A, pair.B, pair.Similarity)
	}
}

// loadRecords reads article records from a directory of article-*.json
// files or from a single JSON file holding an array of records.
func loadRecords(path string) ([]*model.ArticleRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var records []*model.ArticleRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return records, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}

	var records []*model.ArticleRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "article-") || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(path, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var record model.ArticleRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		records = append(records, &record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}
