// Package aws provides the Controller struct that wraps AWS services and provides S3 and SSM functionality with logging support.
package aws

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go/logging"
	"github.com/isometry/lambda-http-server/internal/helpers"
	"github.com/pkg/errors"
)

// Controller represents a wrapper for AWS services providing S3 and SSM functionality with logging support.
type Controller struct {
	logger *slog.Logger

	region   string
	endpoint string

	config    *aws.Config
	s3Client  *s3.Client
	ssmClient *ssm.Client
}

// Option defines a function type used to configure an instance of the Controller struct.
type Option func(*Controller)

// NewController initializes a Controller with customizable options and default configurations if unspecified.
// The default SDK configuration is only loaded when no configuration was injected with WithConfig.
func NewController(ctx context.Context, opts ...Option) (*Controller, error) {
	_inst := &Controller{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("controller", "aws")
	if _inst.config == nil {
		_inst.logger.Debug("loading default AWS configuration...")
		var loadOpts []func(*config.LoadOptions) error
		if _inst.region != "" {
			loadOpts = append(loadOpts, config.WithRegion(_inst.region))
		}
		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWS configuration")
		}
		cfg.Logger = newAWSLogger(_inst.logger)
		_inst.config = &cfg
	}
	if _inst.region != "" {
		_inst.config.Region = _inst.region
	}
	if _inst.endpoint != "" {
		_inst.config.BaseEndpoint = aws.String(_inst.endpoint)
	}

	_inst.s3Client = s3.NewFromConfig(*_inst.config, func(o *s3.Options) {
		// emulators rarely resolve virtual-hosted bucket names
		o.UsePathStyle = _inst.endpoint != ""
	})
	_inst.ssmClient = ssm.NewFromConfig(*_inst.config)
	return _inst, nil
}

// GetSecret retrieves a parameter value from SSM Parameter Store.
// If decrypt is true, SecureString parameters are returned decrypted.
func (a *Controller) GetSecret(ctx context.Context, name string, decrypt bool) (string, error) {
	a.logger.With("name", name).Debug("fetching SSM parameter...")
	ssmResponse, err := a.ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(decrypt),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to load SSM parameter %s", name)
	}
	if ssmResponse.Parameter == nil {
		return "", errors.Errorf("SSM parameter %s has no value", name)
	}
	return aws.ToString(ssmResponse.Parameter.Value), nil
}

// PutS3Object uploads a JSON object to bucket under key.
// Returns an error if the S3 upload fails or if the bucket name is empty.
func (a *Controller) PutS3Object(ctx context.Context, bucket, key string, body []byte) error {
	if bucket == "" {
		return errors.New("no S3 bucket configured")
	}
	a.logger.With("bucket", bucket, "key", key).Debug("uploading S3 object...")
	_, err := a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to put object to S3")
	}
	return nil
}

type awsLogger struct {
	logger *slog.Logger
}

func newAWSLogger(logger *slog.Logger) *awsLogger {
	return &awsLogger{logger}
}

func (a *awsLogger) Logf(classification logging.Classification, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if classification == logging.Warn {
		a.logger.Warn(msg)
		return
	}
	a.logger.Debug(msg, slog.String("classification", string(classification)))
}
