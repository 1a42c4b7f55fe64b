package inspect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"github.com/unirecords/archive-console/internal/core/domain"
)

// Inspector derives physical file properties directly from the uploaded
// bytes. It supplements the extraction service, which often reports page
// counts for scanned material unreliably or not at all.
type Inspector struct{}

func New() *Inspector {
	return &Inspector{}
}

func (i *Inspector) Inspect(filename, mimeType string, content []byte) *domain.FileProperties {
	props := &domain.FileProperties{
		OriginalFormat: originalFormat(filename, mimeType),
	}

	switch {
	case isPDF(filename, mimeType):
		props.PageCount = pdfPageCount(content)
	case isSpreadsheet(filename, mimeType):
		props.PageCount = spreadsheetSheetCount(content)
	}

	if props.PageCount == 0 && props.OriginalFormat == "" {
		return nil
	}
	return props
}

func originalFormat(filename, mimeType string) string {
	ext := strings.TrimPrefix(strings.ToUpper(filepath.Ext(filename)), ".")
	if ext != "" {
		return ext
	}
	if idx := strings.LastIndex(mimeType, "/"); idx >= 0 && idx < len(mimeType)-1 {
		return strings.ToUpper(mimeType[idx+1:])
	}
	return ""
}

func isPDF(filename, mimeType string) bool {
	return mimeType == "application/pdf" || strings.EqualFold(filepath.Ext(filename), ".pdf")
}

func isSpreadsheet(filename, mimeType string) bool {
	if mimeType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".xlsx" || ext == ".xlsm"
}

// pdfPageCount reads only the document catalog; malformed files report zero.
func pdfPageCount(content []byte) (count int) {
	defer func() {
		if recover() != nil {
			count = 0
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0
	}
	return reader.NumPage()
}

func spreadsheetSheetCount(content []byte) int {
	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return 0
	}
	defer file.Close()
	return len(file.GetSheetList())
}
