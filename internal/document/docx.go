package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// docxPages exposes a DOCX body as a single page; the format carries no
// reliable page breaks.
type docxPages struct {
	body string
}

func openDOCX(data []byte) (pageSource, func() error, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("open docx: %w", err)
	}

	return &docxPages{body: doc.Editable().GetContent()}, doc.Close, nil
}

func (d *docxPages) NumPage() int { return 1 }

func (d *docxPages) PageText(int) (string, error) {
	return wordprocessingText(d.body)
}

// wordprocessingText flattens document.xml into plain text: runs are
// concatenated, tabs and breaks become whitespace, paragraphs become lines.
func wordprocessingText(body string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(body))

	var (
		out    strings.Builder
		inText bool
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode docx body: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteString("\t")
			case "br", "cr":
				out.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}

	return strings.TrimSpace(out.String()), nil
}
