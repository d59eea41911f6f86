package aws

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// WithLogger sets a custom slog.Logger instance for the Controller struct to use for logging operations.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Controller) {
		a.logger = logger
	}
}

// WithRegion overrides the region of the default SDK configuration.
func WithRegion(region string) Option {
	return func(a *Controller) {
		a.region = region
	}
}

// WithEndpoint sends every request to endpoint, e.g. http://localhost:4566 for LocalStack.
func WithEndpoint(endpoint string) Option {
	return func(a *Controller) {
		a.endpoint = endpoint
	}
}

// WithConfig uses cfg instead of loading the default SDK configuration.
func WithConfig(cfg aws.Config) Option {
	return func(a *Controller) {
		a.config = &cfg
	}
}
