package landmark

import "errors"

var (
	// ErrMalformedMesh is returned when a mesh reply lacks required landmarks.
	ErrMalformedMesh = errors.New("landmark: malformed mesh")

	// ErrClosed is returned by Sample after Close.
	ErrClosed = errors.New("landmark: oracle closed")

	// ErrScriptDone is returned by Script once every entry has been replayed.
	ErrScriptDone = errors.New("landmark: script exhausted")
)
