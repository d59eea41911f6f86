// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Service is a struct that contains the configuration of the HTTP server.
	Service service
	// Function is the identity reported to the handler.
	Function function
	// Environment is the handler environment loaded at startup.
	Environment environment
	// Capture is a struct that contains the configuration for invocation capture.
	Capture capture
	// AWS is a struct that contains the configuration of the AWS clients.
	AWS aws
)

type global struct {
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty" validate:"gte=0"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
		// Format is one of json, text or dev.
		Format string `yaml:"format,omitempty" default:"json" validate:"oneof=json text dev"`
	} `yaml:"logging,omitempty"`
}

type service struct {
	Host string `yaml:"host,omitempty" default:"localhost"`
	Port int    `yaml:"port,omitempty" default:"8000" validate:"gte=0,lte=65535"`
	// Handler is the dotted module.function path of the registered handler.
	Handler           string        `yaml:"handler,omitempty" default:"lambda_function.lambda_handler"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout,omitempty" default:"10s" validate:"gte=0"`
	// WriteTimeout of zero leaves handler execution unbounded.
	WriteTimeout    time.Duration `yaml:"writeTimeout,omitempty" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout,omitempty" default:"5s" validate:"gte=0"`
	// Rethrow re-raises handler errors after the 500 response has been sent.
	Rethrow    bool `yaml:"rethrow,omitempty" default:"true"`
	DumpEvents bool `yaml:"dumpEvents,omitempty"`
}

type function struct {
	Name            string `yaml:"name,omitempty" default:"test-function" validate:"required"`
	Version         string `yaml:"version,omitempty" default:"$LATEST" validate:"required"`
	Region          string `yaml:"region,omitempty" default:"us-east-1" validate:"required"`
	AccountID       string `yaml:"accountId,omitempty" default:"123456789012" validate:"required,numeric,len=12"`
	APIID           string `yaml:"apiId,omitempty" default:"test-api-id"`
	DomainName      string `yaml:"domainName,omitempty" default:"localhost"`
	DomainPrefix    string `yaml:"domainPrefix,omitempty" default:"localhost"`
	MemoryLimitInMB int    `yaml:"memoryLimitInMB,omitempty" default:"128" validate:"gte=128,lte=10240"`
	LogGroupName    string `yaml:"logGroupName,omitempty" default:"/aws/lambda/test-function"`
	LogStreamName   string `yaml:"logStreamName,omitempty" default:"2023/01/01/[$LATEST]test"`
}

type environment struct {
	// Files are dotenv files applied in order.
	Files []string `yaml:"files,omitempty"`
	// SSM maps variable names to SSM parameter names.
	SSM map[string]string `yaml:"ssm,omitempty"`
}

type capture struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Bucket  string `yaml:"bucket,omitempty" validate:"required_if=Enabled true"`
	Prefix  string `yaml:"prefix,omitempty"`
}

type aws struct {
	// Region overrides the SDK default region.
	Region string `yaml:"region,omitempty"`
	// Endpoint points the SDK at an emulator such as LocalStack.
	Endpoint string `yaml:"endpoint,omitempty" validate:"omitempty,url"`
}

// SetDefaults resets the configuration to its default values.
func SetDefaults() error {
	Global, Service, Function, Environment, Capture, AWS = global{}, service{}, function{}, environment{}, capture{}, aws{}
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Service),
		defaults.Set(&Function),
		defaults.Set(&Environment),
		defaults.Set(&Capture),
		defaults.Set(&AWS),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	// sections missing from the file keep their current values
	a := struct {
		Global      *global      `yaml:"global,omitempty"`
		Service     *service     `yaml:"service,omitempty"`
		Function    *function    `yaml:"function,omitempty"`
		Environment *environment `yaml:"environment,omitempty"`
		Capture     *capture     `yaml:"capture,omitempty"`
		AWS         *aws         `yaml:"aws,omitempty"`
	}{&Global, &Service, &Function, &Environment, &Capture, &AWS}
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	return nil
}

// Validate checks every section against its validation tags.
func Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	sections := []struct {
		name  string
		value any
	}{
		{"global", &Global},
		{"service", &Service},
		{"function", &Function},
		{"environment", &Environment},
		{"capture", &Capture},
		{"aws", &AWS},
	}
	var errs []error
	for _, section := range sections {
		if err := v.Struct(section.value); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s configuration: %w", section.name, err))
		}
	}
	return errors.Join(errs...)
}
