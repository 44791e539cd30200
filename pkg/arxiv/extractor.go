package arxiv

import "context"

// TextExtractor converts PDF bytes to plain text. PDF parsing is an external
// capability; implementations typically shell out to a converter or call a
// parsing service.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}
