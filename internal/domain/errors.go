package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOptions signals analysis options rejected before any stage ran.
	ErrInvalidOptions = errors.New("invalid analysis options")
	// ErrBatchNotFound signals a missing feedback batch.
	ErrBatchNotFound = errors.New("feedback batch not found")
	// ErrReportNotFound signals a missing analysis report.
	ErrReportNotFound = errors.New("analysis report not found")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// Per-item validation failure reasons, stable across releases.
const (
	ReasonEmpty    = "empty"
	ReasonTooShort = "too_short"
)

// ValidationError is a per-item, recoverable failure: the item is excluded
// from the batch and counted, never aborting the run.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// Pipeline stage names surfaced in PipelineError.
const (
	StageConfigure  = "configure"
	StageValidate   = "validate"
	StageAnalyze    = "analyze"
	StageSynthesize = "synthesize"
)

// Stable error kinds surfaced in PipelineError.
const (
	KindConfiguration     = "configuration_error"
	KindCapabilityFailure = "capability_failure"
	KindCancelled         = "cancelled"
)

// PipelineError is the single failure shape the pipeline exposes to its
// caller: the originating stage, a stable kind, and a message that never
// leaks a raw underlying-library error as the kind.
type PipelineError struct {
	Stage   string
	Kind    string
	Message string
	err     error
}

// NewPipelineError wraps err as a pipeline failure in the given stage.
func NewPipelineError(stage, kind string, err error) *PipelineError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &PipelineError{Stage: stage, Kind: kind, Message: msg, err: err}
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline %s failed (%s): %s", e.Stage, e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.err }
