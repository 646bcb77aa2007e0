package renderer

import "errors"

var (
	ErrNoTracers         = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined   = errors.New("renderer: no scene defined")
	ErrCameraNotDefined  = errors.New("renderer: no camera defined")
	ErrInterrupted       = errors.New("renderer: interrupted while rendering")
	ErrInvalidFrameSize  = errors.New("renderer: frame dimensions must be at least 1x1")
	ErrNoSamples         = errors.New("renderer: no samples have been rendered yet")
	ErrUnsupportedFormat = errors.New("renderer: unsupported image format")
)
