package core

import "errors"

// Failure taxonomy for the ingestion and answer pipeline. Validation errors
// are caller-correctable and surfaced verbatim; the rest wrap their
// underlying cause with fmt.Errorf("...: %w"-style chains so errors.Is can
// classify them at the boundary.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds the size limit")
	ErrExtraction        = errors.New("text extraction failed")
	ErrEmptyDocument     = errors.New("no text could be extracted from the document")
	ErrEmptyQuestion     = errors.New("question cannot be empty")
	ErrIndexWrite        = errors.New("vector index write failed")
	ErrIndexRead         = errors.New("vector index read failed")
	ErrAnswerGeneration  = errors.New("answer generation failed")
)
