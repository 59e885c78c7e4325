package document

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

type pdfPages struct {
	reader *pdf.Reader
}

func openPDF(data []byte) (src pageSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("open pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	return &pdfPages{reader: reader}, nil
}

func (p *pdfPages) NumPage() int {
	return p.reader.NumPage()
}

func (p *pdfPages) PageText(n int) (string, error) {
	page := p.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
