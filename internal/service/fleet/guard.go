package fleet

import (
	"fmt"
	"runtime/debug"
)

// PanicError is a recovered panic surfaced as an error
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// guard runs fn and turns a panic into a *PanicError
func guard(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	return fn()
}
