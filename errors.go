package main

import (
	"errors"
	"fmt"
)

var (
	ErrImageRead            = errors.New("pixsteg: could not read image")
	ErrCapacityExceeded     = errors.New("pixsteg: message is too long")
	ErrBufferExhausted      = errors.New("pixsteg: image too small for the message")
	ErrUnsupportedCharacter = errors.New("pixsteg: unsupported character")
	ErrCorruptedPayload     = errors.New("pixsteg: message appears to be corrupted")
)

// CapacityError reports a payload that does not fit the capacity bound.
// MaxAllowed is the longest payload the buffer accepts.
type CapacityError struct {
	Length     int
	MaxAllowed int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("message is too long! Maximum %d characters allowed for this image (got %d)", e.MaxAllowed, e.Length)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// UnsupportedCharacterError carries the offending rune and its position in the payload.
type UnsupportedCharacterError struct {
	Rune  rune
	Index int
}

func (e *UnsupportedCharacterError) Error() string {
	return fmt.Sprintf("%v: %q (U+%04X) at position %d is outside 0..254", ErrUnsupportedCharacter, e.Rune, e.Rune, e.Index)
}

func (e *UnsupportedCharacterError) Is(target error) bool {
	return target == ErrUnsupportedCharacter
}

// CorruptedPayloadError explains why decoding stopped.
type CorruptedPayloadError struct {
	Reason string
}

func (e *CorruptedPayloadError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCorruptedPayload, e.Reason)
}

func (e *CorruptedPayloadError) Is(target error) bool {
	return target == ErrCorruptedPayload
}
