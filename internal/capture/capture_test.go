package capture_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/isometry/lambda-http-server/internal/capture"
	"github.com/isometry/lambda-http-server/pkg/invocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	bucket, key string
	body        []byte
	err         error
}

func (f *fakeUploader) PutS3Object(_ context.Context, bucket, key string, body []byte) error {
	f.bucket, f.key, f.body = bucket, key, body
	return f.err
}

func TestS3Recorder_Record(t *testing.T) {
	uploader := &fakeUploader{}
	clock := func() time.Time { return time.Date(2024, time.January, 2, 3, 4, 5, 6, time.UTC) }
	recorder := capture.NewS3Recorder(uploader, "captures-bucket",
		capture.WithPrefix("local/"),
		capture.WithClock(clock))

	record := capture.Record{
		Event:      invocation.Event{Version: invocation.PayloadVersion, RawPath: "/orders"},
		Context:    invocation.DefaultIdentity().NewContext("req-1"),
		StatusCode: 500,
		Error:      "boom",
	}
	require.NoError(t, recorder.Record(context.Background(), record))

	assert.Equal(t, "captures-bucket", uploader.bucket)
	assert.Equal(t, "local/2024-01-02T03:04:05.000000006Z.req-1.json", uploader.key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(uploader.body, &decoded))
	assert.Equal(t, "boom", decoded["error"])
	assert.InDelta(t, 500, decoded["statusCode"], 0)
	assert.Equal(t, "/orders", decoded["event"].(map[string]any)["rawPath"])
	assert.Equal(t, "req-1", decoded["context"].(map[string]any)["aws_request_id"])
}

func TestS3Recorder_UploadError(t *testing.T) {
	uploader := &fakeUploader{err: errors.New("access denied")}
	recorder := capture.NewS3Recorder(uploader, "bucket")

	err := recorder.Record(context.Background(), capture.Record{})
	assert.EqualError(t, err, "access denied")
}
