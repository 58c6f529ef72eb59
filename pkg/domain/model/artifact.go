package model

import "github.com/secmon-lab/perfectday/pkg/domain/types"

// Artifact is an encoded export ready to be saved
type Artifact struct {
	Kind types.ExportKind
	Data []byte
}

// FileName returns the fixed name the artifact is saved under
func (a *Artifact) FileName() string {
	return a.Kind.FileName()
}

// ContentType returns the MIME type of the artifact
func (a *Artifact) ContentType() string {
	return a.Kind.ContentType()
}

// ExportOutcome tells whether an export produced a file
type ExportOutcome string

const (
	// ExportSaved means an artifact was encoded and handed to the sink
	ExportSaved ExportOutcome = "saved"
	// ExportSkipped means there was nothing rendered to export
	ExportSkipped ExportOutcome = "skipped"
)
