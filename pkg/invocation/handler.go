package invocation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pkg/errors"
)

// Handler is a function handler. Implementations must be safe for concurrent use: a single
// handler serves every request.
//
// The returned value is interpreted by type: any map is a structured function URL response,
// anything else is the raw response body.
type Handler interface {
	Invoke(ctx context.Context, event Event, lc Context) (any, error)
}

// HandlerFunc adapts an ordinary function to a Handler.
type HandlerFunc func(ctx context.Context, event Event, lc Context) (any, error)

// Invoke calls f.
func (f HandlerFunc) Invoke(ctx context.Context, event Event, lc Context) (any, error) {
	return f(ctx, event, lc)
}

type lambdaHandler struct {
	handler lambda.Handler
}

// NewLambdaHandler adapts fn, any function signature accepted by lambda.Start, to a Handler.
// The event is passed to fn as JSON, so fn may take events.LambdaFunctionURLRequest,
// events.APIGatewayV2HTTPRequest, a map or its own type. JSON objects returned by fn become
// structured responses.
func NewLambdaHandler(fn any) (Handler, error) {
	if fn == nil {
		return nil, &InvalidHandlerError{Reason: "handler is nil"}
	}
	if err := validateSignature(reflect.TypeOf(fn)); err != nil {
		return nil, err
	}
	return &lambdaHandler{handler: lambda.NewHandler(fn)}, nil
}

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// validateSignature applies the rules lambda.NewHandler only checks on invocation: at most two
// arguments with a context.Context first when there are two, and at most two results with an error last.
func validateSignature(t reflect.Type) error {
	if t.Kind() != reflect.Func {
		return &InvalidHandlerError{Reason: "handler kind " + t.Kind().String() + " is not func"}
	}
	switch {
	case t.NumIn() > 2:
		return &InvalidHandlerError{Reason: fmt.Sprintf("handler takes %d arguments, at most 2 are allowed", t.NumIn())}
	case t.NumIn() == 2 && !t.In(0).Implements(contextType):
		return &InvalidHandlerError{Reason: "handler takes two arguments, but the first is not a context.Context"}
	case t.NumOut() > 2:
		return &InvalidHandlerError{Reason: fmt.Sprintf("handler returns %d values, at most 2 are allowed", t.NumOut())}
	case t.NumOut() > 0 && !t.Out(t.NumOut()-1).Implements(errorType):
		return &InvalidHandlerError{Reason: "the last value returned by the handler does not implement error"}
	}
	return nil
}

func (h *lambdaHandler) Invoke(ctx context.Context, event Event, _ Context) (any, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode event")
	}
	out, err := h.handler.Invoke(ctx, payload)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}

	var result any
	decoder := json.NewDecoder(bytes.NewReader(out))
	decoder.UseNumber()
	if err = decoder.Decode(&result); err != nil {
		return nil, errors.Wrap(err, "failed to decode handler result")
	}
	return result, nil
}
