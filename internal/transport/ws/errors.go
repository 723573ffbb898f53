package ws

import "errors"

var (
	errInvalidFrame  = errors.New("invalid frame: expected JSON update")
	errUnknownType   = errors.New(`unknown update type: expected "text" or "action"`)
	errMissingAction = errors.New("action update without data")
)
