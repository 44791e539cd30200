package arxiv

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// PopplerExtractor extracts text by piping PDF bytes through the pdftotext
// binary from poppler-utils.
type PopplerExtractor struct {
	// Binary overrides the executable name. Empty means "pdftotext".
	Binary string
}

// ExtractText runs pdftotext over the document and returns its plain text.
func (p *PopplerExtractor) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	binary := p.Binary
	if binary == "" {
		binary = "pdftotext"
	}

	// "-" for both input and output keeps everything on pipes.
	cmd := exec.CommandContext(ctx, binary, "-enc", "UTF-8", "-", "-")
	cmd.Stdin = bytes.NewReader(pdf)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s failed: %s: %w", binary, msg, err)
		}
		return "", fmt.Errorf("%s failed: %w", binary, err)
	}

	text := stdout.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text extracted from PDF")
	}
	return text, nil
}
