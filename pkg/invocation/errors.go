package invocation

import "fmt"

type HandlerNotFoundError struct {
	Path string
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("handler %q is not registered", e.Path)
}

type InvalidHandlerError struct {
	Reason string
}

func (e *InvalidHandlerError) Error() string {
	return "invalid handler: " + e.Reason
}

type DuplicateHandlerError struct {
	Name string
}

func (e *DuplicateHandlerError) Error() string {
	return fmt.Sprintf("handler %q is already registered", e.Name)
}
