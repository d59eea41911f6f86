package invocation_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/isometry/lambda-http-server/pkg/invocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_NewContext(t *testing.T) {
	lc := invocation.DefaultIdentity().NewContext("req-1")

	assert.Equal(t, invocation.Context{
		FunctionName:       "test-function",
		FunctionVersion:    "$LATEST",
		InvokedFunctionArn: "arn:aws:lambda:us-east-1:123456789012:function:test-function",
		MemoryLimitInMB:    "128",
		LogGroupName:       "/aws/lambda/test-function",
		LogStreamName:      "2023/01/01/[$LATEST]test",
		AwsRequestID:       "req-1",
	}, lc)
	assert.Equal(t, 30000, lc.RemainingTimeInMillis())
}

func TestIdentity_FunctionARN(t *testing.T) {
	identity := invocation.DefaultIdentity()
	identity.Region = "eu-west-1"
	identity.AccountID = "000000000000"
	identity.FunctionName = "orders"

	assert.Equal(t, "arn:aws:lambda:eu-west-1:000000000000:function:orders", identity.FunctionARN())
}

func TestWithContext(t *testing.T) {
	lc := invocation.DefaultIdentity().NewContext("req-2")
	ctx := invocation.WithContext(context.Background(), lc)

	got, ok := invocation.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, lc, got)

	_, deadline := ctx.Deadline()
	assert.False(t, deadline)

	alc, ok := lambdacontext.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "req-2", alc.AwsRequestID)

	_, ok = invocation.FromContext(context.Background())
	assert.False(t, ok)
}

func TestEvent_AbsenceMarkers(t *testing.T) {
	raw, err := json.Marshal(invocation.Event{Cookies: []string{}})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{"queryStringParameters", "pathParameters", "stageVariables"} {
		value, found := decoded[key]
		assert.True(t, found, key)
		assert.Nil(t, value, key)
	}
	assert.Equal(t, []any{}, decoded["cookies"])
	requestContext := decoded["requestContext"].(map[string]any)
	assert.Contains(t, requestContext, "authentication")
	assert.Contains(t, requestContext, "authorizer")
}
