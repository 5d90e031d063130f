package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy of the room engine. Every failure returned to a caller
// matches exactly one of these via errors.Is.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrForbidden       = errors.New("forbidden")
	ErrVideoRefInvalid = errors.New("video reference invalid")
)

var (
	ErrNotMember = fmt.Errorf("%w: not a room member", ErrForbidden)
	ErrNoVideo   = fmt.Errorf("%w: no video loaded", ErrInvalidInput)
)

// Code is the wire name of an error class.
type Code string

const (
	CodeInvalidInput    Code = "invalid_input"
	CodeNotFound        Code = "not_found"
	CodeRoomFull        Code = "room_full"
	CodeForbidden       Code = "forbidden"
	CodeVideoRefInvalid Code = "video_ref_invalid"
	CodeInternal        Code = "internal"
)

// CodeOf classifies err into one of the taxonomy codes.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrRoomFull):
		return CodeRoomFull
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrVideoRefInvalid):
		return CodeVideoRefInvalid
	default:
		return CodeInternal
	}
}
