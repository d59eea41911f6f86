package invocation

import (
	"slices"
	"strings"
	"sync"
)

// DefaultHandlerPath is resolved when no handler is configured, or when the configured path has no
// "module.function" form.
const DefaultHandlerPath = "lambda_function.lambda_handler"

var (
	mu       sync.RWMutex
	registry = map[string]Handler{}
)

// Register makes h resolvable under name, usually from an init function.
func Register(name string, h Handler) error {
	if h == nil {
		return &InvalidHandlerError{Reason: "handler is nil"}
	}
	if name = strings.TrimSpace(name); name == "" {
		return &InvalidHandlerError{Reason: "handler name is empty"}
	}

	mu.Lock()
	defer mu.Unlock()
	if _, found := registry[name]; found {
		return &DuplicateHandlerError{Name: name}
	}
	registry[name] = h
	return nil
}

// RegisterFunc registers a function with a lambda.Start compatible signature. See NewLambdaHandler.
func RegisterFunc(name string, fn any) error {
	h, err := NewLambdaHandler(fn)
	if err != nil {
		return err
	}
	return Register(name, h)
}

// MustRegister is like Register but panics on error.
func MustRegister(name string, h Handler) {
	if err := Register(name, h); err != nil {
		panic(err)
	}
}

// MustRegisterFunc is like RegisterFunc but panics on error.
func MustRegisterFunc(name string, fn any) {
	if err := RegisterFunc(name, fn); err != nil {
		panic(err)
	}
}

// Resolve returns the handler registered under path.
func Resolve(path string) (Handler, error) {
	path = NormalisePath(path)

	mu.RLock()
	defer mu.RUnlock()
	h, found := registry[path]
	if !found {
		return nil, &HandlerNotFoundError{Path: path}
	}
	return h, nil
}

// NormalisePath maps a configured handler path to a registry name. Paths without a dot fall back
// to DefaultHandlerPath.
func NormalisePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.Contains(path, ".") {
		return DefaultHandlerPath
	}
	return path
}

// Names returns the registered handler names in lexical order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
