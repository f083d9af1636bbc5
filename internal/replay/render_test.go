package replay

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hylla/flowboard/internal/app"
	"github.com/hylla/flowboard/internal/domain"
	"gopkg.in/yaml.v3"
)

func renderResult(t *testing.T, now time.Time) Result {
	t.Helper()
	b, err := domain.NewBoard(
		domain.Column{ID: "projects", Title: "Projects", Tasks: []domain.Task{{ID: "t1", Text: "Finish essay"}}},
		domain.Column{ID: "other", Title: "Other"},
	)
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	return Result{Board: b, Snapshot: app.SnapshotFromBoard(b, now)}
}

func TestParseOutputFormat(t *testing.T) {
	for raw, want := range map[string]OutputFormat{"": OutputText, "TEXT": OutputText, "json": OutputJSON, " yaml ": OutputYAML} {
		got, err := ParseOutputFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseOutputFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseOutputFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}

func TestRenderText(t *testing.T) {
	var out bytes.Buffer
	if err := Render(&out, renderResult(t, time.Now()), OutputText); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"Projects (1)", "Other (0)", "Finish essay [red]"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output\n%s", want, out.String())
		}
	}
}

func TestRenderJSONAndYAMLProduceSnapshots(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	if err := Render(&out, renderResult(t, now), OutputJSON); err != nil {
		t.Fatalf("Render(json) error = %v", err)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(out.Bytes(), &snap); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if snap.Version != app.SnapshotVersion || len(snap.Tasks) != 1 || snap.Tasks[0].ColumnID != "projects" {
		t.Fatalf("unexpected snapshot %#v", snap)
	}

	out.Reset()
	if err := Render(&out, renderResult(t, now), OutputYAML); err != nil {
		t.Fatalf("Render(yaml) error = %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if doc["version"] != app.SnapshotVersion {
		t.Fatalf("unexpected yaml document %v", doc)
	}
}
