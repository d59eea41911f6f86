// Package runtime serves a function handler over HTTP the way a function URL would.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/goforj/godump"
	"github.com/isometry/lambda-http-server/internal/capture"
	"github.com/isometry/lambda-http-server/internal/cors"
	"github.com/isometry/lambda-http-server/internal/helpers"
	"github.com/isometry/lambda-http-server/internal/request"
	"github.com/isometry/lambda-http-server/internal/response"
	"github.com/isometry/lambda-http-server/pkg/invocation"
)

// Methods served by the runtime. OPTIONS never reaches the handler.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPatch,
	http.MethodHead,
	http.MethodOptions,
}

type Runtime struct {
	handler    invocation.Handler
	translator *request.Translator
	policy     *cors.Policy
	recorder   capture.Recorder
	logger     *slog.Logger
	rethrow    bool
	dumpEvents bool
}

// NewRuntime creates a runtime serving every request with handler.
func NewRuntime(handler invocation.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{handler: handler, rethrow: true}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.translator == nil {
		_inst.translator = &request.Translator{}
	}
	if _inst.policy == nil {
		_inst.policy = cors.NewPolicy(cors.WithLogger(_inst.logger.With("component", "cors")))
	}
	return _inst
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	if req.Method == http.MethodOptions {
		r.logger.Debug("answering preflight request...", slog.String("origin", req.Header.Get("Origin")))
		r.policy.Preflight(resp, req)
		return
	}
	if !slices.Contains(Methods, req.Method) {
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "method not allowed", slog.Any("method", req.Method))
		r.policy.Apply(resp.Header(), req.Header.Get("Origin"))
		helpers.RespondError(resp, http.StatusMethodNotAllowed, fmt.Errorf("method %s is not allowed", req.Method))
		return
	}

	event, lc, status, err := r.handle(resp, req)
	if err != nil {
		r.logger.Error("error handling request", slog.String("error", err.Error()), slog.String("requestId", lc.AwsRequestID))
		helpers.RespondError(resp, http.StatusInternalServerError, err)
	}
	r.extensions(req.Context(), event, lc, status, err)

	if err != nil && r.rethrow {
		// net/http recovers this, logs it through the server error log and drops the connection
		panic(&HandlerError{RequestID: lc.AwsRequestID, Err: err})
	}
}

// handle runs the pipeline up to the point where the response is written. A non-nil error means
// nothing has been written yet.
func (r *Runtime) handle(resp http.ResponseWriter, req *http.Request) (invocation.Event, invocation.Context, int, error) {
	event, lc, err := r.translator.Translate(req)
	if err != nil {
		return event, lc, http.StatusInternalServerError, err
	}
	logger := r.logger.With(slog.String("requestId", lc.AwsRequestID))
	if r.dumpEvents {
		godump.Dump(event, lc)
	}

	logger.Debug("invoking handler...", slog.String("method", event.RequestContext.HTTP.Method), slog.String("path", event.RawPath))
	start := time.Now()
	result, err := invoke(invocation.WithContext(req.Context(), lc), r.handler, event, lc)
	if err != nil {
		return event, lc, http.StatusInternalServerError, err
	}

	rendered, err := response.Interpret(result).Render()
	if err != nil {
		return event, lc, http.StatusInternalServerError, err
	}
	logger.Debug("handler returned",
		slog.Int("statusCode", rendered.StatusCode),
		slog.String("body", helpers.Truncate(string(rendered.Body), 256)),
		slog.Duration("duration", time.Since(start)))

	if err = rendered.Write(resp, req.Header.Get("Origin"), r.policy); err != nil {
		logger.Warn("failed to write response body", slog.Any("error", err))
	}
	return event, lc, rendered.StatusCode, nil
}

// invoke calls the handler, turning a panic into an error.
func invoke(ctx context.Context, handler invocation.Handler, event invocation.Event, lc invocation.Context) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p}
		}
	}()
	return handler.Invoke(ctx, event, lc)
}

// extensions is a helper function to execute additional runtime extensions
func (r *Runtime) extensions(ctx context.Context, event invocation.Event, lc invocation.Context, status int, err error) {
	if r.recorder == nil || lc.AwsRequestID == "" {
		return
	}
	record := capture.Record{
		Event:      event,
		Context:    lc,
		StatusCode: status,
	}
	if err != nil {
		record.Error = err.Error()
	}
	// the request context is cancelled once the client goes away
	if recErr := r.recorder.Record(context.WithoutCancel(ctx), record); recErr != nil {
		r.logger.Warn("failed to capture invocation", slog.String("requestId", lc.AwsRequestID), slog.Any("error", recErr))
	}
}
