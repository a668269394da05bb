package graphics

import (
	"errors"
	"fmt"
)

// ErrContextUnavailable is returned when no graphics context can be obtained
// from the host.
var ErrContextUnavailable = errors.New("graphics context unavailable")

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link or lacks a required input.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}
