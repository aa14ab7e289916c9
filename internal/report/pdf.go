package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

// WritePDF writes the report's markdown to outputDir and converts it to a
// PDF next to it, returning the PDF path. The markdown file is kept so a
// failed conversion can be inspected.
func (r StudyReport) WritePDF(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", outputDir, err)
	}

	name := fmt.Sprintf("study-report-%d-%s", r.LearnerID, r.PeriodEnd.Format("2006-01-02"))
	markdownPath := filepath.Join(outputDir, name+".md")
	if err := os.WriteFile(markdownPath, []byte(r.RenderMarkdown()), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}

	return convertMarkdownToPDF(markdownPath)
}

// convertMarkdownToPDF converts a markdown file to a PDF in the same
// directory.
func convertMarkdownToPDF(markdownPath string) (string, error) {
	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

// Outbox is a Sink that files delivered reports into per-recipient
// directories; the actual transport picks them up from there.
type Outbox struct {
	directory string
}

// NewOutbox creates an Outbox rooted at directory.
func NewOutbox(directory string) *Outbox {
	return &Outbox{directory: directory}
}

// Deliver implements Sink.
func (o *Outbox) Deliver(_ context.Context, recipient string, pdfPath string) error {
	recipientDir := filepath.Join(o.directory, sanitizeRecipient(recipient))
	if err := os.MkdirAll(recipientDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", recipientDir, err)
	}

	content, err := os.ReadFile(pdfPath)
	if err != nil {
		return fmt.Errorf("os.ReadFile(%s) > %w", pdfPath, err)
	}
	target := filepath.Join(recipientDir, filepath.Base(pdfPath))
	if err := os.WriteFile(target, content, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", target, err)
	}
	return nil
}

// sanitizeRecipient makes a recipient address safe as a directory name.
func sanitizeRecipient(recipient string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "@", "_at_")
	return replacer.Replace(recipient)
}
