package domain

import (
	"io"
	"mime"
	"strings"
)

// MaxFileSize is the largest accepted upload. The bound is inclusive.
const MaxFileSize int64 = 5 * 1024 * 1024

var allowedFileTypes = map[string]struct{}{
	"text/javascript":        {},
	"application/javascript": {},
	"application/json":       {},
	"text/plain":             {},
}

// FileInput is a script file picked for upload.
type FileInput struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ValidateFile applies the upload constraints: size up to MaxFileSize and
// either an allowed MIME type or a .js file name.
func ValidateFile(file FileInput) error {
	if file.Size > MaxFileSize {
		return ErrFileTooLarge
	}

	if _, ok := allowedFileTypes[baseMediaType(file.ContentType)]; ok {
		return nil
	}
	if strings.HasSuffix(file.Name, ".js") {
		return nil
	}

	return ErrFileTypeNotAllowed
}

// ContentTypeForName guesses a MIME type from the file extension, the way a
// browser file picker would. Unknown extensions yield "".
func ContentTypeForName(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}

	return baseMediaType(mime.TypeByExtension(name[idx:]))
}

func baseMediaType(contentType string) string {
	trimmed := strings.TrimSpace(contentType)
	if trimmed == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}

	return mediaType
}
