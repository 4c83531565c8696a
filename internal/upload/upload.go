// Package upload validates documents before they are sent for extraction.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	// DefaultMaxBytes is the largest file the extraction API accepts.
	DefaultMaxBytes int64 = 250 << 20
	// DefaultMaxPDFPages is the largest PDF the extraction API accepts.
	DefaultMaxPDFPages = 50
)

var (
	ErrUnsupportedType = errors.New("unsupported file type: only JPEG, PNG and PDF are accepted")
	ErrTooLarge        = errors.New("file exceeds maximum size")
	ErrTooManyPages    = errors.New("PDF exceeds maximum page count")
	ErrEmpty           = errors.New("file is empty")
)

// Kind is an accepted document format.
type Kind string

const (
	KindJPEG Kind = "image/jpeg"
	KindPNG  Kind = "image/png"
	KindPDF  Kind = "application/pdf"
)

// FieldName returns the multipart field the extraction API expects.
func (k Kind) FieldName() string {
	if k == KindPDF {
		return "pdf"
	}
	return "image"
}

// Limits bounds what Validate accepts.
type Limits struct {
	MaxBytes int64
	// MaxPDFPages is only checked when EnforcePDFPages is set; by default
	// the extraction API enforces it.
	MaxPDFPages     int
	EnforcePDFPages bool
}

// DefaultLimits returns the extraction API's published limits.
func DefaultLimits() Limits {
	return Limits{MaxBytes: DefaultMaxBytes, MaxPDFPages: DefaultMaxPDFPages}
}

// File is a validated document ready to send.
type File struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	Size      int64  `json:"size"`
	PageCount int    `json:"page_count"`
	Data      []byte `json:"-"`
}

// CheckSize rejects a declared size before any bytes are read.
func (l Limits) CheckSize(size int64) error {
	if size <= 0 {
		return ErrEmpty
	}
	if l.MaxBytes > 0 && size > l.MaxBytes {
		return fmt.Errorf("%w: %d bytes > %d bytes", ErrTooLarge, size, l.MaxBytes)
	}
	return nil
}

// Detect sniffs the content type of data, using the file extension to
// settle ambiguous results.
func Detect(name string, data []byte) (Kind, error) {
	sniffed := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(sniffed, string(KindJPEG)):
		return KindJPEG, nil
	case strings.HasPrefix(sniffed, string(KindPNG)):
		return KindPNG, nil
	case strings.HasPrefix(sniffed, string(KindPDF)):
		return KindPDF, nil
	}

	// Sniffing only reports application/octet-stream or text for short or
	// truncated files; the extension decides those.
	if sniffed == "application/octet-stream" || strings.HasPrefix(sniffed, "text/plain") {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".jpg", ".jpeg":
			return KindJPEG, nil
		case ".png":
			return KindPNG, nil
		case ".pdf":
			return KindPDF, nil
		}
	}
	return "", fmt.Errorf("%w (got %s)", ErrUnsupportedType, sniffed)
}

// Validate checks size and type. PDF page counts are read here only when
// EnforcePDFPages is set; otherwise PageCount is left at zero for PDFs.
func (l Limits) Validate(name string, data []byte) (*File, error) {
	if err := l.CheckSize(int64(len(data))); err != nil {
		return nil, err
	}

	kind, err := Detect(name, data)
	if err != nil {
		return nil, err
	}

	f := &File{
		Name:      filepath.Base(name),
		Kind:      kind,
		Size:      int64(len(data)),
		PageCount: 1,
		Data:      data,
	}

	if kind == KindPDF {
		f.PageCount = 0
		if l.EnforcePDFPages {
			pages, err := PDFPageCount(data)
			if err != nil {
				return nil, err
			}
			f.PageCount = pages
			if l.MaxPDFPages > 0 && pages > l.MaxPDFPages {
				return nil, fmt.Errorf("%w: %d pages > %d", ErrTooManyPages, pages, l.MaxPDFPages)
			}
		}
	}

	return f, nil
}

// ReadFile checks the size of the file at path and only then reads and
// validates it.
func (l Limits) ReadFile(path string) (*File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if err := l.CheckSize(fi.Size()); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return l.Validate(filepath.Base(path), data)
}

// PDFPageCount reads the page count of an in-memory PDF.
func PDFPageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	count, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("failed to get PDF page count: %w", err)
	}
	return count, nil
}
