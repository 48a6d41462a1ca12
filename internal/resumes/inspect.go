package resumes

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"findmydreamjobs/internal/shared/util"
)

const (
	MaxUploadSize = 10 << 20 // 10MB

	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain; charset=utf-8"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrUnreadable      = errors.New("file could not be read")
)

// FileInfo is what Inspect learned about an upload.
type FileInfo struct {
	MimeType string
	Pages    int
}

// Inspect checks an upload before it is sent to the backend. Only .pdf,
// .docx and .txt files up to MaxUploadSize are accepted.
func Inspect(fileName string, data []byte) (FileInfo, error) {
	if len(data) == 0 {
		return FileInfo{}, fmt.Errorf("%w: empty file", ErrUnreadable)
	}
	if len(data) > MaxUploadSize {
		return FileInfo{}, ErrTooLarge
	}

	switch util.Ext(fileName) {
	case ".pdf":
		pages, err := pdfPages(data)
		if err != nil {
			return FileInfo{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return FileInfo{MimeType: mimePDF, Pages: pages}, nil
	case ".docx":
		if err := checkDOCX(data); err != nil {
			return FileInfo{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return FileInfo{MimeType: mimeDOCX}, nil
	case ".txt":
		if !utf8.Valid(data) {
			return FileInfo{}, fmt.Errorf("%w: text is not utf-8", ErrUnreadable)
		}
		return FileInfo{MimeType: mimeText}, nil
	default:
		return FileInfo{}, ErrUnsupportedType
	}
}

func pdfPages(data []byte) (pages int, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	pages = reader.NumPage()
	if pages == 0 {
		return 0, errors.New("pdf has no pages")
	}
	return pages, nil
}

func checkDOCX(data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return nil
		}
	}
	return errors.New("document.xml file not found")
}
