package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// ExtractText pulls the text content out of a resume file, dispatching on
// the file extension. Unrecognized extensions are read as plain text.
func ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".pdf", ".doc", ".docx", ".rtf", ".odt":
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return "", fmt.Errorf("resume: parse %s document: %w", ext, err)
		}
		return res.Body, nil
	default:
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("resume: read file: %w", err)
		}
		return string(content), nil
	}
}
