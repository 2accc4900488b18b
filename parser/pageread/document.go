// Package pageread abstracts page-level access to a statement document and
// turns pages into cell matrices via a ranked chain of extraction
// strategies.
package pageread

import (
	"io"
	"log"
	"os"

	"github.com/dslipak/pdf"
)

// Word is one positioned text fragment on a page.
type Word struct {
	Text string
	X0   float64
	X1   float64
	Top  float64
}

// Page is one page of a source document.
type Page interface {
	// Text returns the raw page text with line breaks preserved.
	Text() string
	// Words returns positioned text fragments for geometric clustering.
	Words(xTol, yTol float64) []Word
}

// TableOptions select border-detection sensitivity for table extraction.
type TableOptions struct {
	VerticalStrategy   string
	HorizontalStrategy string
	SnapTolerance      float64
	JoinTolerance      float64
}

// TableProvider is implemented by page sources that expose geometric table
// detection. Sources without it simply never satisfy the table strategies.
type TableProvider interface {
	Tables(opts TableOptions) [][][]string
}

// Document is an open statement document. Close must be called on every
// exit path once Open succeeds.
type Document interface {
	NumPages() int
	Page(i int) Page
	Close() error
}

type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
}

// Open opens a PDF document from disk.
func Open(path string) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	reader, err := newReader(file, info.Size())
	if err != nil {
		file.Close()
		return nil, err
	}
	return &pdfDocument{file: file, reader: reader}, nil
}

// OpenReader opens a PDF document from an in-memory reader, for callers
// that receive uploads rather than paths.
func OpenReader(r io.ReaderAt, size int64) (Document, error) {
	reader, err := newReader(r, size)
	if err != nil {
		return nil, err
	}
	return &pdfDocument{reader: reader}, nil
}

// The pdf library panics on malformed content streams. Contain that here
// so a broken page degrades to an empty one instead of killing the parse.
func newReader(r io.ReaderAt, size int64) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("pageread: reader panic: %v", rec)
			reader, err = nil, io.ErrUnexpectedEOF
		}
	}()
	return pdf.NewReader(r, size)
}

func (d *pdfDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) Page(i int) Page {
	return &pdfPage{page: d.reader.Page(i + 1)}
}

func (d *pdfDocument) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

type pdfPage struct {
	page pdf.Page
}

func (p *pdfPage) Text() (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("pageread: text panic: %v", rec)
			text = ""
		}
	}()
	if p.page.V.IsNull() {
		return ""
	}
	rows, err := p.page.GetTextByRow()
	if err != nil {
		log.Printf("pageread: text extraction: %v", err)
		return ""
	}
	var b []byte
	for _, row := range rows {
		for i, t := range row.Content {
			if i > 0 {
				b = append(b, ' ')
			}
			b = append(b, t.S...)
		}
		b = append(b, '\n')
	}
	return string(b)
}

func (p *pdfPage) Words(xTol, yTol float64) (words []Word) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("pageread: words panic: %v", rec)
			words = nil
		}
	}()
	if p.page.V.IsNull() {
		return nil
	}
	content := p.page.Content()
	words = make([]Word, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		words = append(words, Word{
			Text: t.S,
			X0:   t.X,
			X1:   t.X + t.W,
			// PDF y grows upward; flip so Top orders pages top-down.
			Top: -t.Y,
		})
	}
	return words
}
