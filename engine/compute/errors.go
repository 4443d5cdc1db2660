package compute

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceNotFound is returned when no GPU or fallback compute device could be acquired.
	ErrDeviceNotFound = errors.New("compute: no suitable device found")

	// ErrContextCreationFailed is returned when a device was found but the compute context
	// could not be created on it, including when a share token does not grant access to a
	// compatible device.
	ErrContextCreationFailed = errors.New("compute: context creation failed")

	// ErrEntryPointNotFound is returned by Build when the program compiled but does not
	// declare a compute entry point with the requested name.
	ErrEntryPointNotFound = errors.New("compute: entry point not found")

	// ErrImageWrapFailed is returned when an externally-owned texture could not be wrapped
	// as a compute image, e.g. an unknown texture handle or an incompatible format.
	ErrImageWrapFailed = errors.New("compute: image wrap failed")

	// ErrArgumentIndexOutOfRange is returned when an argument or image index is outside
	// the valid range for kernel arguments.
	ErrArgumentIndexOutOfRange = errors.New("compute: argument index out of range")

	// ErrImageTableFull is returned when binding a new image would exceed the fixed
	// capacity of the image table (MaxImages slots).
	ErrImageTableFull = errors.New("compute: image table full")

	// ErrDispatchFailed is returned when a kernel dispatch could not be encoded or
	// submitted. The resource stays Ready; the caller may retry.
	ErrDispatchFailed = errors.New("compute: dispatch failed")

	// ErrInvalidState is returned when an operation is attempted in a state that does not
	// permit it, such as Run before a successful Build.
	ErrInvalidState = errors.New("compute: invalid state for operation")
)

// BuildError is returned by Build when kernel compilation fails. It carries the
// full compiler diagnostic log so callers can surface it rather than a bare failure.
type BuildError struct {
	// Log is the diagnostic output produced by the shader compiler.
	Log string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("compute: kernel build failed:\n%s", e.Log)
}
