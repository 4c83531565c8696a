package upload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

// minimalPDF builds a structurally valid PDF with the given number of
// blank pages.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int

	buf.WriteString("%PDF-1.4\n")
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		writeObj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     Kind
		wantErr  bool
	}{
		{"png", "scan.png", pngHeader, KindPNG, false},
		{"jpeg", "scan.jpg", jpegHeader, KindJPEG, false},
		{"pdf", "doc.pdf", minimalPDF(1), KindPDF, false},
		{"png sniffed despite extension", "scan.pdf", pngHeader, KindPNG, false},
		{"extension breaks octet-stream tie", "scan.png", []byte{0x00, 0x01, 0x02}, KindPNG, false},
		{"gif rejected", "anim.gif", []byte("GIF89a......"), "", true},
		{"text rejected", "notes.txt", []byte("hello world"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.filename, tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedType) {
					t.Errorf("Detect() error = %v, want ErrUnsupportedType", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLimits_CheckSize(t *testing.T) {
	l := DefaultLimits()

	if err := l.CheckSize(10 << 20); err != nil {
		t.Errorf("CheckSize(10MB) error = %v", err)
	}
	if err := l.CheckSize(300 << 20); !errors.Is(err, ErrTooLarge) {
		t.Errorf("CheckSize(300MB) error = %v, want ErrTooLarge", err)
	}
	if err := l.CheckSize(0); !errors.Is(err, ErrEmpty) {
		t.Errorf("CheckSize(0) error = %v, want ErrEmpty", err)
	}
}

func TestLimits_Validate(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		f, err := DefaultLimits().Validate("dir/scan.png", pngHeader)
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if f.Name != "scan.png" || f.Kind != KindPNG || f.PageCount != 1 {
			t.Errorf("unexpected file: %+v", f)
		}
		if f.Kind.FieldName() != "image" {
			t.Errorf("FieldName() = %s, want image", f.Kind.FieldName())
		}
	})

	t.Run("pdf page count deferred by default", func(t *testing.T) {
		f, err := DefaultLimits().Validate("doc.pdf", minimalPDF(3))
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if f.PageCount != 0 {
			t.Errorf("PageCount = %d, want 0", f.PageCount)
		}
		if f.Kind.FieldName() != "pdf" {
			t.Errorf("FieldName() = %s, want pdf", f.Kind.FieldName())
		}
	})

	t.Run("pdf page limit enforced when enabled", func(t *testing.T) {
		l := Limits{MaxBytes: DefaultMaxBytes, MaxPDFPages: 2, EnforcePDFPages: true}
		if _, err := l.Validate("doc.pdf", minimalPDF(3)); !errors.Is(err, ErrTooManyPages) {
			t.Errorf("Validate() error = %v, want ErrTooManyPages", err)
		}
		f, err := l.Validate("doc.pdf", minimalPDF(2))
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if f.PageCount != 2 {
			t.Errorf("PageCount = %d, want 2", f.PageCount)
		}
	})

	t.Run("oversized", func(t *testing.T) {
		l := Limits{MaxBytes: 4}
		if _, err := l.Validate("scan.png", pngHeader); !errors.Is(err, ErrTooLarge) {
			t.Errorf("Validate() error = %v, want ErrTooLarge", err)
		}
	})
}

func TestLimits_ReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "scan.png")
		if err := os.WriteFile(path, pngHeader, 0o644); err != nil {
			t.Fatal(err)
		}
		f, err := DefaultLimits().ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if f.Name != "scan.png" || f.Kind != KindPNG {
			t.Errorf("unexpected file: %+v", f)
		}
	})

	t.Run("oversized file rejected from its size", func(t *testing.T) {
		// Sparse: 300MB on paper, no data blocks on disk.
		path := filepath.Join(dir, "huge.pdf")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Truncate(path, 300<<20); err != nil {
			t.Fatal(err)
		}
		if _, err := DefaultLimits().ReadFile(path); !errors.Is(err, ErrTooLarge) {
			t.Errorf("ReadFile() error = %v, want ErrTooLarge", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.png")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := DefaultLimits().ReadFile(path); !errors.Is(err, ErrEmpty) {
			t.Errorf("ReadFile() error = %v, want ErrEmpty", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := DefaultLimits().ReadFile(filepath.Join(dir, "nope.png")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("ReadFile() error = %v, want ErrNotExist", err)
		}
	})
}

func TestPDFPageCount(t *testing.T) {
	got, err := PDFPageCount(minimalPDF(4))
	if err != nil {
		t.Fatalf("PDFPageCount() error = %v", err)
	}
	if got != 4 {
		t.Errorf("PDFPageCount() = %d, want 4", got)
	}

	if _, err := PDFPageCount([]byte("not a pdf")); err == nil {
		t.Error("expected error for invalid PDF")
	}
}
