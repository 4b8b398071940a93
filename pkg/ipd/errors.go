package ipd

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrTruncated = errors.New("ipd: truncated input")
	ErrMalformed = errors.New("ipd: malformed input")
	ErrNotFound  = errors.New("ipd: database not found")
	ErrTooLarge  = errors.New("ipd: input too large")
)

// Stage identifies the part of the file being decoded when an error occurred.
type Stage string

const (
	StageHeader       Stage = "header"
	StageNameTable    Stage = "name-table"
	StageRecordStream Stage = "record-stream"
	StageRecord       Stage = "record"
	StageField        Stage = "field"
)

// DecodeError describes where and why decoding failed.
type DecodeError struct {
	Stage  Stage
	Offset int64 // absolute offset of the failed read
	Kind   error // ErrTruncated or ErrMalformed
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d: %s", e.Kind, e.Stage, e.Offset, e.Detail)
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

func truncated(stage Stage, offset int64, format string, args ...any) error {
	return &DecodeError{Stage: stage, Offset: offset, Kind: ErrTruncated, Detail: fmt.Sprintf(format, args...)}
}

func malformed(stage Stage, offset int64, format string, args ...any) error {
	return &DecodeError{Stage: stage, Offset: offset, Kind: ErrMalformed, Detail: fmt.Sprintf(format, args...)}
}
