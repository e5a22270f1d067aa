package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const defaultPDFPages = 2

var (
	pdfMagic = []byte("%PDF-")

	ErrPDFUnreadable = errors.New("pdf has no text layer and no extractable image")
)

// PDFRecognizer lets image recognizers accept PDF uploads. A PDF with a text
// layer is read directly; a scanned PDF has its first page image extracted
// and passed to next. Anything else goes straight to next.
type PDFRecognizer struct {
	next     Recognizer
	maxPages int
}

func NewPDF(next Recognizer) *PDFRecognizer {
	return &PDFRecognizer{next: next, maxPages: defaultPDFPages}
}

// IsPDF reports whether b starts with the PDF header.
func IsPDF(b []byte) bool {
	return bytes.HasPrefix(b, pdfMagic)
}

func (p *PDFRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if !IsPDF(image) {
		return p.next.Recognize(ctx, image)
	}

	if text, err := textLayer(image, p.maxPages); err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	img, err := firstPageImage(image)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPDFUnreadable, err)
	}
	return p.next.Recognize(ctx, img)
}

// textLayer reads the text of the first maxPages pages, one output line per
// text row, top to bottom.
func textLayer(b []byte, maxPages int) (text string, err error) {
	// the parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf text: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var lines []string
	for i := 1; i <= min(r.NumPage(), maxPages); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		// PDF y grows upwards
		sort.SliceStable(rows, func(a, b int) bool { return rows[a].Position > rows[b].Position })
		for _, row := range rows {
			if row == nil {
				continue
			}
			if line := rowText(row.Content); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

// rowText joins the glyph runs of one row, inserting a space where the gap
// to the previous run is wider than a fifth of the font size.
func rowText(runs pdf.TextHorizontal) string {
	sorted := slices.Clone(runs)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].X < sorted[b].X })

	var sb strings.Builder
	for i, t := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			gap := t.X - (prev.X + prev.W)
			if gap > math.Max(prev.FontSize, 1)*0.2 && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(t.S)
	}
	return strings.TrimSpace(sb.String())
}

// firstPageImage returns the first embedded image on page 1 in object order.
func firstPageImage(b []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("extract images: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err := api.ExtractImagesRaw(bytes.NewReader(b), []string{"1"}, conf)
	if err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}
	for _, imgs := range pages {
		objNrs := make([]int, 0, len(imgs))
		for nr := range imgs {
			objNrs = append(objNrs, nr)
		}
		slices.Sort(objNrs)
		for _, nr := range objNrs {
			data, err := io.ReadAll(imgs[nr])
			if err == nil && len(data) > 0 {
				return data, nil
			}
		}
	}
	return nil, errors.New("no image on first page")
}
