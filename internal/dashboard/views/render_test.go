package views

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/types"
)

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

func TestRenderIndex(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}

	data := IndexData{
		Readings: []types.Reading{
			{ID: 1, Timestamp: "2026-08-30T12:00:00Z", Temperature: f(21.5), Rained: b(true)},
			{ID: 2, Timestamp: "2026-08-30T12:10:00Z"},
		},
		Page:       1,
		PageSize:   25,
		Total:      2,
		TotalPages: 1,
		Flash:      "Updated 2 labels",
	}

	var buf bytes.Buffer
	if err := RenderIndex(&buf, data); err != nil {
		t.Fatalf("RenderIndex() error = %v", err)
	}

	body := buf.String()
	for _, want := range []string{"21.50", "rained_1", "rained_2", "Updated 2 labels", "/export.csv"} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered page does not contain %q", want)
		}
	}
}

func TestRenderIndex_NotLoaded(t *testing.T) {
	saved := indexTmpl
	indexTmpl = nil
	t.Cleanup(func() { indexTmpl = saved })

	var buf bytes.Buffer
	if err := RenderIndex(&buf, IndexData{}); err == nil {
		t.Fatal("RenderIndex() error = nil; want template-not-loaded error")
	}
}

func TestLoadTemplatesFromFS_MissingDir(t *testing.T) {
	saved := indexTmpl
	t.Cleanup(func() { indexTmpl = saved })

	if err := loadTemplatesFromFS(fstest.MapFS{}, "missing"); err == nil {
		t.Fatal("loadTemplatesFromFS() error = nil; want error for missing dir")
	}
}
