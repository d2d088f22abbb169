package ingestion

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/nexustrace/backend/internal/domain"
)

// AllowedFileTypes is the set of evidence formats the pipeline accepts.
var AllowedFileTypes = map[string]bool{
	"json": true,
	"csv":  true,
	"txt":  true,
	"pdf":  true,
}

// ParseFile converts raw evidence content to plain text using the
// format-specific parser. Unsupported types are a validation error.
func ParseFile(content []byte, fileType string) (string, error) {
	switch fileType {
	case "txt":
		return string(content), nil
	case "json":
		return parseJSON(content)
	case "csv":
		return parseCSV(content)
	case "pdf":
		return parsePDF(content)
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", domain.ErrValidation, fileType)
	}
}

func parseJSON(content []byte) (string, error) {
	var data any
	if err := json.Unmarshal(content, &data); err != nil {
		return "", fmt.Errorf("%w: invalid JSON: %v", domain.ErrValidation, err)
	}

	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render JSON: %w", err)
	}
	return string(pretty), nil
}

func parseCSV(content []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	var lines []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: invalid CSV: %v", domain.ErrValidation, err)
		}
		lines = append(lines, strings.Join(record, ", "))
	}
	return strings.Join(lines, "\n"), nil
}

func parsePDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: invalid PDF: %v", domain.ErrValidation, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: failed to extract PDF page %d: %v", domain.ErrValidation, i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
