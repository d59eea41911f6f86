package invocation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// RemainingTimeInMillis is the value reported by Context.RemainingTimeInMillis.
const RemainingTimeInMillis = 30000

// Identity is the simulated function every request is attributed to.
type Identity struct {
	FunctionName    string
	FunctionVersion string
	Region          string
	AccountID       string
	APIID           string
	DomainName      string
	DomainPrefix    string
	MemoryLimitInMB int
	LogGroupName    string
	LogStreamName   string
}

// DefaultIdentity returns the identity used when nothing is configured.
func DefaultIdentity() Identity {
	return Identity{
		FunctionName:    "test-function",
		FunctionVersion: "$LATEST",
		Region:          "us-east-1",
		AccountID:       "123456789012",
		APIID:           "test-api-id",
		DomainName:      "localhost",
		DomainPrefix:    "localhost",
		MemoryLimitInMB: 128,
		LogGroupName:    "/aws/lambda/test-function",
		LogStreamName:   "2023/01/01/[$LATEST]test",
	}
}

// FunctionARN returns the invoked function ARN for the identity.
func (i Identity) FunctionARN() string {
	return fmt.Sprintf("arn:aws:lambda:%s:%s:function:%s", i.Region, i.AccountID, i.FunctionName)
}

// Context is the invocation context passed alongside the event. It is read-only.
type Context struct {
	FunctionName       string `json:"function_name"`
	FunctionVersion    string `json:"function_version"`
	InvokedFunctionArn string `json:"invoked_function_arn"`
	MemoryLimitInMB    string `json:"memory_limit_in_mb"`
	LogGroupName       string `json:"log_group_name"`
	LogStreamName      string `json:"log_stream_name"`
	AwsRequestID       string `json:"aws_request_id"`
}

// NewContext returns the invocation context of identity for the given request id.
func (i Identity) NewContext(requestID string) Context {
	return Context{
		FunctionName:       i.FunctionName,
		FunctionVersion:    i.FunctionVersion,
		InvokedFunctionArn: i.FunctionARN(),
		MemoryLimitInMB:    strconv.Itoa(i.MemoryLimitInMB),
		LogGroupName:       i.LogGroupName,
		LogStreamName:      i.LogStreamName,
		AwsRequestID:       requestID,
	}
}

// RemainingTimeInMillis always returns 30000. It does not track elapsed time and no deadline is
// ever enforced on the handler.
func (c Context) RemainingTimeInMillis() int {
	return RemainingTimeInMillis
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying lc. The aws-lambda-go LambdaContext is attached too, so
// handlers using lambdacontext.FromContext see the same request id and ARN.
func WithContext(ctx context.Context, lc Context) context.Context {
	ctx = lambdacontext.NewContext(ctx, &lambdacontext.LambdaContext{
		AwsRequestID:       lc.AwsRequestID,
		InvokedFunctionArn: lc.InvokedFunctionArn,
	})
	return context.WithValue(ctx, contextKey{}, lc)
}

// FromContext returns the invocation context stored in ctx, if any.
func FromContext(ctx context.Context) (Context, bool) {
	lc, ok := ctx.Value(contextKey{}).(Context)
	return lc, ok
}
