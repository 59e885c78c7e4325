// Package document extracts the plain text of uploaded résumé documents.
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrUnreadable is returned when the input cannot be opened as a document at all.
	// A document that opens but holds no text is not an error.
	ErrUnreadable = errors.New("document is unreadable")
	// ErrUnsupportedFormat is returned when the input is not a known document format.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Input is a raw uploaded document.
type Input struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Document is the result of a successful extraction.
type Document struct {
	Format        Format `json:"format"`
	Text          string `json:"-"`
	Pages         int    `json:"pages"`
	PagesWithText int    `json:"pages_with_text"`
	FailedPages   []int  `json:"failed_pages,omitempty"`
}

// Empty reports whether no page yielded any text.
func (d *Document) Empty() bool {
	return d == nil || strings.TrimSpace(d.Text) == ""
}

// pageSource is an opened paginated document. Pages are numbered from 1.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

// Extractor opens documents and assembles their text page by page.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract detects the input format, opens it and returns its full text.
func (e *Extractor) Extract(ctx context.Context, in Input) (*Document, error) {
	format, err := DetectFormat(in.ContentType, in.Filename, in.Data)
	if err != nil {
		return nil, err
	}

	var (
		src     pageSource
		release func() error
	)

	switch format {
	case FormatPDF:
		src, err = openPDF(in.Data)
	case FormatDOCX:
		src, release, err = openDOCX(in.Data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, format, err)
	}
	if release != nil {
		defer release()
	}

	doc, err := e.assemble(ctx, src)
	if err != nil {
		return nil, err
	}
	doc.Format = format

	e.logger.Debug("document text extracted",
		zap.String("filename", in.Filename),
		zap.String("format", string(format)),
		zap.Int("pages", doc.Pages),
		zap.Int("pages_with_text", doc.PagesWithText),
		zap.Ints("failed_pages", doc.FailedPages),
		zap.Int("text_length", len(doc.Text)),
	)

	return doc, nil
}

// assemble joins the text of every page that has any, in page order. A page
// that fails is logged and contributes nothing.
func (e *Extractor) assemble(ctx context.Context, src pageSource) (*Document, error) {
	total, err := numPages(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	doc := &Document{Pages: total}
	texts := make([]string, 0, total)

	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := pageText(src, n)
		if err != nil {
			e.logger.Warn("page text extraction failed, skipping page",
				zap.Int("page", n),
				zap.Error(err),
			)
			doc.FailedPages = append(doc.FailedPages, n)
			continue
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		texts = append(texts, text)
	}

	doc.PagesWithText = len(texts)
	doc.Text = strings.Join(texts, "\n")

	return doc, nil
}

// numPages and pageText turn panics raised by the underlying parsers on
// malformed input into errors.
func numPages(src pageSource) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading page tree: %v", r)
		}
	}()
	return src.NumPage(), nil
}

func pageText(src pageSource, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", n, r)
		}
	}()
	return src.PageText(n)
}
