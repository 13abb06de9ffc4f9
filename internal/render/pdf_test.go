package render

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/marco/workyard/internal/report"
)

func sampleDocument() *report.Document {
	return &report.Document{
		Title: "Weekly Summary",
		Sections: []report.Section{
			{
				Title: "Overview",
				Summary: []report.SummaryPair{
					{Label: "Total Tasks", Value: "10"},
					{Label: "Completion Rate", Value: "60.00%"},
				},
			},
			{
				Title: "Tasks",
				Table: &report.Table{
					Headers: []string{"Task", "Status", "Assignee"},
					Rows: [][]string{
						{"Pour foundation", "DONE", "Ana"},
						{"Frame walls", "IN_PROGRESS", "Joe"},
					},
				},
			},
		},
	}
}

func TestPDFRender(t *testing.T) {
	data, err := NewPDFRenderer().Render(sampleDocument())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Render produced empty output")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with PDF magic, got %q", data[:8])
	}
}

func TestPDFRenderNilDocument(t *testing.T) {
	_, err := NewPDFRenderer().Render(nil)
	if !errors.Is(err, report.ErrRenderFailure) {
		t.Errorf("Render(nil) = %v, want ErrRenderFailure", err)
	}
}

func TestPDFRenderLongTable(t *testing.T) {
	// More rows than fit on one A4 page; rendering must paginate, not fail.
	doc := &report.Document{Title: "Big Report"}
	table := &report.Table{Headers: []string{"Task", "Status"}}
	for i := 0; i < 200; i++ {
		table.Rows = append(table.Rows, []string{fmt.Sprintf("task-%d", i), "TODO"})
	}
	doc.Sections = []report.Section{{Title: "Tasks", Table: table}}

	data, err := NewPDFRenderer().Render(doc)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Render produced empty output")
	}
}

func TestPDFRenderRaggedRows(t *testing.T) {
	// Rows shorter than the header must render with blank trailing cells.
	doc := &report.Document{
		Title: "Ragged",
		Sections: []report.Section{{
			Title: "Data",
			Table: &report.Table{
				Headers: []string{"A", "B", "C"},
				Rows:    [][]string{{"only one cell"}},
			},
		}},
	}
	if _, err := NewPDFRenderer().Render(doc); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
}
