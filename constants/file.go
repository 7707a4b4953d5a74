package constants

import "strings"

// FileTypes holds the allowed file types for the format field in a batch job.
var FileTypes = []string{"PDF"}

// AllowedExtensions holds the file extensions the batch processor picks up.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFExt reports whether the (possibly dotted, mixed-case) extension is a PDF.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == "pdf"
}
