package runtime

import "fmt"

// HandlerError is the panic value used to re-raise a failed request once its 500 response is sent.
type HandlerError struct {
	RequestID string
	Err       error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("request %s failed: %v", e.RequestID, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}
