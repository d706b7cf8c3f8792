package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"nycovid/pkg/fsutil"
	"nycovid/pkg/provenance"
)

//go:embed template.html
var templateFS embed.FS

var docTemplate = template.Must(template.ParseFS(templateFS, "template.html"))

// RenderDocument executes the document template for the chart spec and stamps
// the result with a provenance block.
func RenderDocument(spec *ChartSpec) ([]byte, error) {
	var buf bytes.Buffer
	if err := docTemplate.Execute(&buf, spec); err != nil {
		return nil, fmt.Errorf("failed to execute document template: %w", err)
	}

	signed := provenance.Sign(buf.String(), spec.SourceName)

	return []byte(signed), nil
}

// WriteDocument persists the document atomically: the destination path never
// holds a partial file, even when the write fails mid-way.
func WriteDocument(path string, doc []byte) error {
	if err := fsutil.WriteFileAtomic(path, doc, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}
