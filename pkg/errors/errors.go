package errors

import "fmt"

// Error codes
const (
	CodeJobError   = "JOB_ERROR"
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeStore      = "STORE_ERROR"
	CodePipeline   = "PIPELINE_ERROR"
)

type JobError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *JobError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *JobError) Unwrap() error {
	return e.Cause
}

func NewJobError(message, code string, context map[string]any) *JobError {
	return &JobError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *JobError) WithCause(cause error) *JobError {
	e.Cause = cause
	return e
}

type APIError struct {
	*JobError
	StatusCode int
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		JobError: &JobError{
			Message: message,
			Code:    CodeAPIError,
			Context: context,
		},
		StatusCode: statusCode,
	}
}

type CacheError struct {
	*JobError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		JobError: &JobError{
			Message: message,
			Code:    CodeCache,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type StoreError struct {
	*JobError
	Table     string
	Operation string
}

func NewStoreError(message, table, operation string, cause error) *StoreError {
	return &StoreError{
		JobError: &JobError{
			Message: message,
			Code:    CodeStore,
			Context: map[string]any{
				"table":     table,
				"operation": operation,
			},
			Cause: cause,
		},
		Table:     table,
		Operation: operation,
	}
}

// PipelineError marks a fatal generative-stage failure. Stage is one of
// "filter", "draft", "translate".
type PipelineError struct {
	*JobError
	Stage string
}

func NewPipelineError(message, stage string, cause error) *PipelineError {
	return &PipelineError{
		JobError: &JobError{
			Message: message,
			Code:    CodePipeline,
			Context: map[string]any{
				"stage": stage,
			},
			Cause: cause,
		},
		Stage: stage,
	}
}
