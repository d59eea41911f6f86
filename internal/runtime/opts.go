package runtime

import (
	"log/slog"

	"github.com/isometry/lambda-http-server/internal/capture"
	"github.com/isometry/lambda-http-server/internal/cors"
	"github.com/isometry/lambda-http-server/internal/request"
)

type Option func(*Runtime)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithTranslator replaces the default request translator, e.g. to configure the function identity.
func WithTranslator(translator *request.Translator) Option {
	return func(r *Runtime) {
		r.translator = translator
	}
}

func WithPolicy(policy *cors.Policy) Option {
	return func(r *Runtime) {
		r.policy = policy
	}
}

// WithRecorder captures every completed invocation.
func WithRecorder(recorder capture.Recorder) Option {
	return func(r *Runtime) {
		r.recorder = recorder
	}
}

// WithRethrow controls whether a failed request panics after the 500 response has been sent.
func WithRethrow(rethrow bool) Option {
	return func(r *Runtime) {
		r.rethrow = rethrow
	}
}

// WithDumpEvents prints each event and context to stdout before invocation.
func WithDumpEvents(dump bool) Option {
	return func(r *Runtime) {
		r.dumpEvents = dump
	}
}
