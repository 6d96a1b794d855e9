package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/relcorpus/internal/model"
)

// Renderer writes consolidation reports
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown renders the report body
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	b.WriteString("# Relation corpus report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Records\n\n")
	b.WriteString("| Stage | Count |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Batch files | %d |\n", len(report.Sources))
	fmt.Fprintf(&b, "| Input records | %d |\n", report.InputRecords)
	if report.DuplicatesRemoved > 0 {
		fmt.Fprintf(&b, "| Duplicates removed | %d |\n", report.DuplicatesRemoved)
	}
	fmt.Fprintf(&b, "| Dropped (mention not found) | %d |\n", report.DroppedMissingSpan)
	fmt.Fprintf(&b, "| Unknown relation | %d |\n", report.Rejected)
	fmt.Fprintf(&b, "| Accepted | %d |\n", report.Accepted)
	fmt.Fprintf(&b, "| Distinct entities | %d |\n\n", report.Entities)

	b.WriteString("## Split\n\n")
	b.WriteString("| Partition | Ratio | Records |\n|---|---:|---:|\n")
	fmt.Fprintf(&b, "| train | %.2f | %d |\n", report.Ratios.Train, report.Split.Train)
	fmt.Fprintf(&b, "| val | %.2f | %d |\n", report.Ratios.Val, report.Split.Val)
	fmt.Fprintf(&b, "| test | %.2f | %d |\n\n", report.Ratios.Test, report.Split.Test)
	fmt.Fprintf(&b, "Seed: `%d`\n\n", report.Ratios.Seed)

	b.WriteString("## Relation distribution\n\n")
	b.WriteString("| Relation | Records |\n|---|---:|\n")
	for _, rc := range report.Distribution {
		fmt.Fprintf(&b, "| %s | %d |\n", escapeCell(rc.Relation), rc.Count)
	}
	b.WriteString("\n")

	if len(report.UnknownRelations) > 0 {
		b.WriteString("## Unknown relations\n\n")
		b.WriteString("| Relation | Records |\n|---|---:|\n")
		for _, rc := range report.UnknownRelations {
			fmt.Fprintf(&b, "| %s | %d |\n", escapeCell(rc.Relation), rc.Count)
		}
		b.WriteString("\n")
	}

	if len(report.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, s := range report.Signals {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", s.Type, s.Severity, s.Description)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderSummary prints the split counts and the unknown-relation tally
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	if len(report.UnknownRelations) > 0 {
		fmt.Fprintln(w, "Unknown relations found:")
		for _, rc := range report.UnknownRelations {
			fmt.Fprintf(w, "%s %d\n", rc.Relation, rc.Count)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Training dataset count: %d\n", report.Split.Train)
	fmt.Fprintf(w, "Validation dataset count: %d\n", report.Split.Val)
	fmt.Fprintf(w, "Testing dataset count: %d\n", report.Split.Test)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
