// Package environment prepares the process environment seen by the handler.
package environment

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/isometry/lambda-http-server/internal/helpers"
	"github.com/isometry/lambda-http-server/pkg/invocation"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// SecretGetter resolves SSM parameters.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string, decrypt bool) (string, error)
}

// Loader collects variables from the Lambda identity, dotenv files and SSM.
type Loader struct {
	logger   *slog.Logger
	identity invocation.Identity
	files    []string
	ssm      map[string]string
	secrets  SecretGetter
	setenv   func(key, value string) error
}

type Option func(*Loader)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithFiles adds dotenv files, applied in order.
func WithFiles(files ...string) Option {
	return func(l *Loader) {
		l.files = append(l.files, files...)
	}
}

// WithSSM maps variable names to SSM parameter names resolved through secrets.
func WithSSM(secrets SecretGetter, parameters map[string]string) Option {
	return func(l *Loader) {
		l.secrets = secrets
		l.ssm = parameters
	}
}

// WithSetenv replaces os.Setenv.
func WithSetenv(setenv func(key, value string) error) Option {
	return func(l *Loader) {
		l.setenv = setenv
	}
}

func NewLoader(identity invocation.Identity, opts ...Option) *Loader {
	_inst := &Loader{identity: identity, setenv: os.Setenv}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("component", "environment")
	return _inst
}

// Lambda returns the variables the Lambda runtime defines for identity.
func Lambda(identity invocation.Identity) map[string]string {
	return map[string]string{
		"AWS_LAMBDA_FUNCTION_NAME":        identity.FunctionName,
		"AWS_LAMBDA_FUNCTION_VERSION":     identity.FunctionVersion,
		"AWS_LAMBDA_FUNCTION_MEMORY_SIZE": strconv.Itoa(identity.MemoryLimitInMB),
		"AWS_LAMBDA_LOG_GROUP_NAME":       identity.LogGroupName,
		"AWS_LAMBDA_LOG_STREAM_NAME":      identity.LogStreamName,
		"AWS_REGION":                      identity.Region,
		"AWS_DEFAULT_REGION":              identity.Region,
	}
}

// Resolve merges all sources. Later sources override earlier ones: Lambda variables, then files, then SSM.
func (l *Loader) Resolve(ctx context.Context) (map[string]string, error) {
	env := Lambda(l.identity)
	for _, file := range l.files {
		values, err := godotenv.Read(file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read env file %s", file)
		}
		l.logger.Debug("loaded env file", slog.String("file", file), slog.Int("count", len(values)))
		maps.Copy(env, values)
	}
	if len(l.ssm) > 0 {
		if l.secrets == nil {
			return nil, errors.New("SSM parameters configured without an AWS controller")
		}
		for _, name := range slices.Sorted(maps.Keys(l.ssm)) {
			value, err := l.secrets.GetSecret(ctx, l.ssm[name], true)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to resolve %s", name)
			}
			env[name] = value
		}
	}
	return env, nil
}

// Load resolves the environment, exports it and sets the lambdacontext globals.
func (l *Loader) Load(ctx context.Context) error {
	env, err := l.Resolve(ctx)
	if err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(env)) {
		if err = l.setenv(name, env[name]); err != nil {
			return errors.Wrapf(err, "failed to set %s", name)
		}
	}
	l.logger.Info("handler environment loaded", slog.Int("count", len(env)))

	lambdacontext.FunctionName = l.identity.FunctionName
	lambdacontext.FunctionVersion = l.identity.FunctionVersion
	lambdacontext.MemoryLimitInMB = l.identity.MemoryLimitInMB
	lambdacontext.LogGroupName = l.identity.LogGroupName
	lambdacontext.LogStreamName = l.identity.LogStreamName
	return nil
}
