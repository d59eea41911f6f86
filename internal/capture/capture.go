// Package capture stores completed invocations for later inspection or replay.
package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/isometry/lambda-http-server/pkg/invocation"
	"github.com/pkg/errors"
)

// Record is one completed invocation.
type Record struct {
	Event      invocation.Event   `json:"event"`
	Context    invocation.Context `json:"context"`
	StatusCode int                `json:"statusCode"`
	Error      string             `json:"error,omitempty"`
}

// Recorder stores records.
type Recorder interface {
	Record(ctx context.Context, record Record) error
}

// Uploader is the part of the AWS controller used by S3Recorder.
type Uploader interface {
	PutS3Object(ctx context.Context, bucket, key string, body []byte) error
}

// S3Recorder uploads each record as a JSON object.
type S3Recorder struct {
	uploader Uploader
	bucket   string
	prefix   string
	now      func() time.Time
}

type Option func(*S3Recorder)

// WithPrefix sets the key prefix, e.g. "captures/".
func WithPrefix(prefix string) Option {
	return func(r *S3Recorder) {
		r.prefix = prefix
	}
}

// WithClock overrides the time used in object keys.
func WithClock(now func() time.Time) Option {
	return func(r *S3Recorder) {
		r.now = now
	}
}

func NewS3Recorder(uploader Uploader, bucket string, opts ...Option) *S3Recorder {
	_inst := &S3Recorder{uploader: uploader, bucket: bucket, now: time.Now}
	for _, opt := range opts {
		opt(_inst)
	}
	return _inst
}

// Key returns the object key of record: <prefix><RFC3339Nano>.<requestId>.json
func (r *S3Recorder) Key(record Record) string {
	return fmt.Sprintf("%s%s.%s.json", r.prefix, r.now().UTC().Format(time.RFC3339Nano), record.Context.AwsRequestID)
}

func (r *S3Recorder) Record(ctx context.Context, record Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "failed to encode capture record")
	}
	return r.uploader.PutS3Object(ctx, r.bucket, r.Key(record), body)
}
