package service

import (
	"errors"
	"fmt"
)

const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
	CodeOverlap    = "TIME_OVERLAP"
)

// эталоны для errors.Is, сравниваются по коду
var (
	ErrNotFound   = &BusinessError{Code: CodeNotFound}
	ErrValidation = &BusinessError{Code: CodeValidation}
	ErrOverlap    = &BusinessError{Code: CodeOverlap}
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key    string
	Paylod any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func (b *BusinessError) Is(target error) bool {
	var other *BusinessError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == b.Code
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:    key,
		Paylod: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Paylod
	}

	return busErr
}

func NewNotFound(resource string, id string) *BusinessError {
	return NewBusinessError(CodeNotFound,
		fmt.Sprintf("%s %s не найден(а)", resource, id),
		ToDetail("resource", resource),
		ToDetail("id", id),
	)
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(CodeValidation,
		fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

// NewOverlapError - интервал кандидата пересекается с интервалом conflictID
func NewOverlapError(start, end string, conflictID string, conflictStart, conflictEnd string) *BusinessError {
	return NewBusinessError(CodeOverlap,
		fmt.Sprintf("Интервал %s-%s пересекается с задачей %s (%s-%s)", start, end, conflictID, conflictStart, conflictEnd),
		ToDetail("start_time", start),
		ToDetail("end_time", end),
		ToDetail("conflict_id", conflictID),
		ToDetail("conflict_start_time", conflictStart),
		ToDetail("conflict_end_time", conflictEnd),
	)
}
