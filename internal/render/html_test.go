package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nycovid/pkg/provenance"
)

func TestRenderDocument(t *testing.T) {
	spec, err := BuildChartSpec(sampleTable(), "Test Data", "Test Source")
	if err != nil {
		t.Fatalf("BuildChartSpec returned unexpected error: %v", err)
	}

	doc, err := RenderDocument(spec)
	if err != nil {
		t.Fatalf("RenderDocument returned unexpected error: %v", err)
	}

	html := string(doc)

	if !strings.Contains(html, "<title>Test Data</title>") {
		t.Error("document missing title")
	}

	if !strings.Contains(html, `id="county-select"`) {
		t.Error("document missing county selector")
	}

	if !strings.Contains(html, `id="county-st-lawrence"`) {
		t.Error("document missing St. Lawrence chart container")
	}

	if !strings.Contains(html, "<svg") {
		t.Error("document contains no inline SVG")
	}

	// The document carries a verifiable provenance stamp
	ok, err := provenance.Verify(html)
	if err != nil || !ok {
		t.Errorf("provenance verification failed: %v", err)
	}
}

func TestWriteDocument_Atomic(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "out", "final.html")

	if err := WriteDocument(outPath, []byte("<html></html>")); err != nil {
		t.Fatalf("WriteDocument returned unexpected error: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read written document: %v", err)
	}

	if string(data) != "<html></html>" {
		t.Error("written document content mismatch")
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(outPath))
	if err != nil {
		t.Fatalf("Failed to list output dir: %v", err)
	}

	if len(entries) != 1 {
		t.Errorf("output dir has %d entries, want 1 (no temp leftovers)", len(entries))
	}
}

func TestWriteDocument_FailureLeavesNoFile(t *testing.T) {
	tmpDir := t.TempDir()

	// Parent "directory" is actually a file, so the write must fail
	blocker := filepath.Join(tmpDir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocker file: %v", err)
	}

	outPath := filepath.Join(blocker, "final.html")

	if err := WriteDocument(outPath, []byte("<html></html>")); err == nil {
		t.Fatal("WriteDocument expected error when destination dir cannot be created")
	}

	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("no file must exist at the destination after a failed write")
	}
}
