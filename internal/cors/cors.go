// Package cors applies the fixed cross-origin policy of the emulated function URL.
package cors

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/isometry/lambda-http-server/internal/helpers"
)

const (
	// PlaceholderOrigin is sent for origins that are not local. It is not a valid origin value, so
	// browsers will refuse such cross-origin reads.
	PlaceholderOrigin = "http://localhost:*"

	AllowMethods = "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS"
	AllowHeaders = "Content-Type, Authorization, X-Requested-With, Accept, Origin"
	MaxAge       = "86400"
)

// Policy writes the CORS headers of every response.
type Policy struct {
	logger *slog.Logger
}

type Option func(*Policy)

// WithLogger sets the logger used to report non-local origins.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Policy) {
		p.logger = logger
	}
}

// NewPolicy returns the policy.
func NewPolicy(opts ...Option) *Policy {
	_inst := &Policy{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// IsLocal reports whether origin points at the local machine.
func IsLocal(origin string) bool {
	return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
}

// AllowOrigin returns the Access-Control-Allow-Origin value for origin.
func AllowOrigin(origin string) string {
	if IsLocal(origin) {
		return origin
	}
	return PlaceholderOrigin
}

// Apply sets the CORS headers for a request coming from origin.
func (p *Policy) Apply(header http.Header, origin string) {
	if origin != "" && !IsLocal(origin) {
		helpers.OnceAMinute.Do(func() {
			p.logger.Warn("non-local origin will not be allowed by browsers", slog.String("origin", origin), slog.String("allowOrigin", PlaceholderOrigin))
		})
	}
	header.Set("Access-Control-Allow-Origin", AllowOrigin(origin))
	header.Set("Access-Control-Allow-Methods", AllowMethods)
	header.Set("Access-Control-Allow-Headers", AllowHeaders)
	header.Set("Access-Control-Allow-Credentials", "true")
	header.Set("Access-Control-Max-Age", MaxAge)
}

// Preflight answers an OPTIONS request: CORS headers, status 200 and no body.
func (p *Policy) Preflight(w http.ResponseWriter, r *http.Request) {
	p.Apply(w.Header(), r.Header.Get("Origin"))
	w.WriteHeader(http.StatusOK)
}
