package resume

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var ErrNotPDF = errors.New("file is not a pdf document")

// MaxPDFSize bounds uploads sent inline to the model.
const MaxPDFSize = 20 << 20

var pdfMagic = []byte("%PDF-")

// ValidatePDF checks that data is a readable PDF document and returns its page count.
func ValidatePDF(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty file", ErrNotPDF)
	}
	if len(data) > MaxPDFSize {
		return 0, fmt.Errorf("pdf is %d bytes, limit is %d", len(data), MaxPDFSize)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic) {
		return 0, fmt.Errorf("%w: missing %s header", ErrNotPDF, pdfMagic)
	}

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: pdfcpu read: %v", ErrNotPDF, err)
	}

	if ctx.PageCount < 1 {
		return 0, fmt.Errorf("%w: document has no pages", ErrNotPDF)
	}

	return ctx.PageCount, nil
}
