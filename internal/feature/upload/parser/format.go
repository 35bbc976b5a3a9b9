package parser

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"analytics_backend/internal/shared/apperror"
)

// Format identifies the decoder used for a file.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

var formatByExt = map[string]Format{
	".xlsx": FormatXLSX,
	".xlsm": FormatXLSX,
	".xls":  FormatXLS,
	".csv":  FormatCSV,
}

// containerFor is the MIME type the sniffed content must be, or descend from.
var containerFor = map[Format]string{
	FormatXLSX: "application/zip",
	FormatXLS:  "application/x-ole-storage",
	FormatCSV:  "text/plain",
}

// DetectFormat checks the file extension against allowed and the sniffed
// content against the extension.
func DetectFormat(fileName string, data []byte, allowed []string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	format, known := formatByExt[ext]
	if !known || !extensionAllowed(ext, allowed) {
		return "", apperror.Newf(apperror.KindUnsupportedFormat, "unsupported file type %q", ext)
	}
	if len(data) == 0 {
		return "", apperror.New(apperror.KindParseError, "file is empty")
	}

	detected := mimetype.Detect(data)
	want := containerFor[format]
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(want) {
			return format, nil
		}
	}
	return "", apperror.Newf(apperror.KindUnsupportedFormat,
		"file content (%s) does not match extension %q", detected.String(), ext)
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}
