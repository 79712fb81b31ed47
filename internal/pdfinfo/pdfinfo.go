// Package pdfinfo pre-flights uploaded PDFs before they are sent to the
// extraction service: structural validation, page count, and a text
// layer probe that decides whether extraction should force OCR.
package pdfinfo

import (
	"bytes"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info summarizes an uploaded PDF.
type Info struct {
	PageCount    int
	HasTextLayer bool
}

// probePages bounds the text layer probe; scanned documents rarely have
// a text layer on some pages but not the first few.
const probePages = 3

// Inspect validates the PDF and probes it. Corrupt or non-PDF uploads
// return an error; a failed text probe does not (it just means OCR).
func Inspect(data []byte) (*Info, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("invalid pdf: %w", err)
	}
	return &Info{
		PageCount:    ctx.PageCount,
		HasTextLayer: hasTextLayer(data),
	}, nil
}

// hasTextLayer reports whether any of the first few pages carry
// extractable text. Errors read as "no text": forcing OCR on a readable
// PDF costs time, skipping OCR on a scan loses the document.
func hasTextLayer(data []byte) bool {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	limit := reader.NumPage()
	if limit > probePages {
		limit = probePages
	}
	for i := 1; i <= limit; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			return true
		}
	}
	return false
}
