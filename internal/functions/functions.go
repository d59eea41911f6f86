// Package functions registers the handlers shipped with the server.
package functions

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/isometry/lambda-http-server/pkg/invocation"
	"github.com/pkg/errors"
)

func init() {
	invocation.MustRegister(invocation.DefaultHandlerPath, invocation.HandlerFunc(Echo))
	invocation.MustRegisterFunc("examples.hello", Hello)
	invocation.MustRegister("examples.status", invocation.HandlerFunc(Status))
}

// Echo returns the event and context as a JSON document.
func Echo(_ context.Context, event invocation.Event, lc invocation.Context) (any, error) {
	body, err := json.Marshal(map[string]any{"event": event, "context": lc})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode event")
	}
	return map[string]any{
		"statusCode": http.StatusOK,
		"headers":    map[string]string{"Content-Type": "application/json"},
		"body":       string(body),
	}, nil
}

// Hello greets the caller named by the name query parameter.
func Hello(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	name := req.QueryStringParameters["name"]
	if name == "" {
		name = "world"
	}
	headers := map[string]string{"Content-Type": "text/plain; charset=utf-8"}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		headers["X-Request-Id"] = lc.AwsRequestID
	}
	return events.LambdaFunctionURLResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       "Hello, " + name + "!",
		Cookies:    []string{"greeted=" + name + "; Path=/"},
	}, nil
}

// StatusReport is returned by Status.
type StatusReport struct {
	Status   string `json:"status"`
	Function string `json:"function"`
	Region   string `json:"region"`
	Method   string `json:"method"`
}

// Status returns a non-mapping value, which is sent as a raw JSON body.
func Status(_ context.Context, event invocation.Event, lc invocation.Context) (any, error) {
	return StatusReport{
		Status:   "ok",
		Function: lc.FunctionName,
		Region:   os.Getenv("AWS_REGION"),
		Method:   event.RequestContext.HTTP.Method,
	}, nil
}
