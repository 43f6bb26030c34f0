package questionnaire

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestCatalog_Load(t *testing.T) {
	path := writeCatalogFile(t, `[
		{"id": "active_cancer", "category": "absolute", "question": "Do you have active cancer?"},
		{"id": "obesity", "category": "relative", "question": "Is your BMI over 40?", "description": "Severe obesity"}
	]`)

	qs := NewCatalog(path, zerolog.Nop()).Load()
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].ID != "active_cancer" || qs[0].Category != CategoryAbsolute {
		t.Errorf("unexpected first question: %+v", qs[0])
	}
	if qs[1].Category != CategoryRelative || qs[1].Description == "" {
		t.Errorf("unexpected second question: %+v", qs[1])
	}
}

func TestCatalog_MissingFile(t *testing.T) {
	qs := NewCatalog(filepath.Join(t.TempDir(), "nope.json"), zerolog.Nop()).Load()
	if len(qs) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(qs))
	}
}

func TestCatalog_MalformedFile(t *testing.T) {
	path := writeCatalogFile(t, `{"not": "a list"`)
	qs := NewCatalog(path, zerolog.Nop()).Load()
	if len(qs) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(qs))
	}
}
