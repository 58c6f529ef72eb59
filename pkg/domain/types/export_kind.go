package types

import "fmt"

// ExportKind is the artifact format produced by the export pipeline
type ExportKind string

const (
	ExportKindImage    ExportKind = "image"
	ExportKindDocument ExportKind = "document"
)

// IsValid checks if the export kind is valid
func (k ExportKind) IsValid() bool {
	switch k {
	case ExportKindImage,
		ExportKindDocument:
		return true
	default:
		return false
	}
}

// FileName returns the fixed file name the artifact is saved under
func (k ExportKind) FileName() string {
	switch k {
	case ExportKindImage:
		return "my-perfect-day.png"
	case ExportKindDocument:
		return "my-perfect-day.pdf"
	default:
		return ""
	}
}

// ContentType returns the MIME type of the artifact
func (k ExportKind) ContentType() string {
	switch k {
	case ExportKindImage:
		return "image/png"
	case ExportKindDocument:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// String returns the string representation of the export kind
func (k ExportKind) String() string {
	return string(k)
}

// ParseExportKind parses a string into an ExportKind
func ParseExportKind(s string) (ExportKind, error) {
	kind := ExportKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid export kind: %s", s)
	}
	return kind, nil
}
