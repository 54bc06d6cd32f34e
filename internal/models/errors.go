package models

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is
var (
	ErrUnknownCity        = errors.New("unknown city")
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	ErrMalformedRecord    = errors.New("malformed record")
	ErrEmptyInput         = errors.New("empty input")
)

// UnknownCityError is returned when a city id is not in the catalog
type UnknownCityError struct {
	City string
}

func (e *UnknownCityError) Error() string {
	return fmt.Sprintf("unknown city %q", e.City)
}

func (e *UnknownCityError) Is(target error) bool {
	return target == ErrUnknownCity
}

// IsTransient returns false as the catalog is immutable
func (e *UnknownCityError) IsTransient() bool {
	return false
}

// DatasetUnavailableError is returned when a city's dataset cannot be opened
type DatasetUnavailableError struct {
	City     string
	Location string
	Err      error
}

func (e *DatasetUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dataset for %s is not available (%s): %v", e.City, e.Location, e.Err)
	}
	return fmt.Sprintf("dataset for %s is not available (%s)", e.City, e.Location)
}

func (e *DatasetUnavailableError) Is(target error) bool {
	return target == ErrDatasetUnavailable
}

func (e *DatasetUnavailableError) Unwrap() error {
	return e.Err
}

// IsTransient returns false; a new selection re-triggers the load
func (e *DatasetUnavailableError) IsTransient() bool {
	return false
}

// MalformedRecordError describes a value that could not be parsed.
// Line is the 1-based line in the source file, 0 when not applicable.
type MalformedRecordError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := "malformed record"
	if e.Column != "" {
		msg = fmt.Sprintf("malformed %s value %q", e.Column, e.Value)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// IsTransient returns false as malformed data is permanent
func (e *MalformedRecordError) IsTransient() bool {
	return false
}

// EmptyInputError is returned by scalar queries over zero rows
type EmptyInputError struct {
	Query string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no trips match the current selection", e.Query)
}

func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// IsTransient returns false
func (e *EmptyInputError) IsTransient() bool {
	return false
}
