package port

import "context"

// ExtractInput carries a source document for text extraction.
type ExtractInput struct {
	FileBytes   []byte
	FileName    string
	ContentType string
}

// ExtractOutput is the page-concatenated text of a document.
type ExtractOutput struct {
	Text     string
	Pages    int
	Provider string
}

// TextExtractor turns document bytes into line-oriented text.
type TextExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
