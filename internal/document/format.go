package document

import (
	"bytes"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var pdfMagic = []byte("%PDF-")

// DetectFormat decides the document format from the declared content type,
// falling back to the file extension and the PDF header for generic types.
func DetectFormat(contentType, filename string, data []byte) (Format, error) {
	mediaType := strings.TrimSpace(contentType)
	if mediaType != "" {
		if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
			mediaType = parsed
		}
	}

	switch strings.ToLower(mediaType) {
	case MimePDF:
		return FormatPDF, nil
	case MimeDOCX:
		return FormatDOCX, nil
	case "", "application/octet-stream", "binary/octet-stream":
	default:
		return "", fmt.Errorf("%w: content type %q", ErrUnsupportedFormat, contentType)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	}

	if bytes.HasPrefix(data, pdfMagic) {
		return FormatPDF, nil
	}

	return "", fmt.Errorf("%w: cannot detect format of %q", ErrUnsupportedFormat, filename)
}
