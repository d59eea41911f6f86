package request_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/isometry/lambda-http-server/internal/request"
	"github.com/isometry/lambda-http-server/pkg/invocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 7, 8, 9, 123_000_000, time.FixedZone("CET", 3600))
}

func TestTranslate(t *testing.T) {
	tr := &request.Translator{Now: fixedClock, NewID: sequentialIDs()}
	req := httptest.NewRequest(http.MethodPost, "/orders/42?a=1&a=2&b=3", strings.NewReader(`{"k":"v"}`))
	req.Header.Set("User-Agent", "curl/8.0")
	req.Header.Set("Cookie", "x=1; y=2")

	event, lc, err := tr.Translate(req)
	require.NoError(t, err)

	assert.Equal(t, "2.0", event.Version)
	assert.Equal(t, "$default", event.RouteKey)
	assert.Equal(t, "/orders/42", event.RawPath)
	assert.Equal(t, "a=1&a=2&b=3", event.RawQueryString)
	assert.Equal(t, map[string]string{"a": "1,2", "b": "3"}, event.QueryStringParameters)
	assert.Equal(t, []string{"x=1", "y=2"}, event.Cookies)
	assert.Equal(t, `{"k":"v"}`, event.Body)
	assert.False(t, event.IsBase64Encoded)
	assert.Nil(t, event.PathParameters)
	assert.Nil(t, event.StageVariables)

	assert.Equal(t, "curl/8.0", event.Headers["User-Agent"])
	assert.Equal(t, "example.com", event.Headers["Host"])

	rc := event.RequestContext
	assert.Equal(t, "123456789012", rc.AccountID)
	assert.Equal(t, "test-api-id", rc.APIID)
	assert.Equal(t, "localhost", rc.DomainName)
	assert.Equal(t, "localhost", rc.DomainPrefix)
	assert.Nil(t, rc.Authentication)
	assert.Nil(t, rc.Authorizer)
	assert.Equal(t, "$default", rc.RouteKey)
	assert.Equal(t, "$default", rc.Stage)
	assert.Equal(t, "id-1", rc.RequestID)
	assert.Equal(t, "05/Mar/2024:06:08:09 +0000", rc.Time)
	assert.Equal(t, fixedClock().UnixMilli(), rc.TimeEpoch)
	assert.Equal(t, invocation.HTTPContext{
		Method:    http.MethodPost,
		Path:      "/orders/42",
		Protocol:  "HTTP/1.1",
		SourceIP:  "192.0.2.1",
		UserAgent: "curl/8.0",
	}, rc.HTTP)

	assert.Equal(t, "id-2", lc.AwsRequestID)
	assert.Equal(t, "test-function", lc.FunctionName)
}

func TestTranslate_FreshIDs(t *testing.T) {
	tr := &request.Translator{}

	first, firstCtx, err := tr.Translate(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	second, secondCtx, err := tr.Translate(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	ids := []string{
		first.RequestContext.RequestID, firstCtx.AwsRequestID,
		second.RequestContext.RequestID, secondCtx.AwsRequestID,
	}
	seen := map[string]bool{}
	for _, id := range ids {
		assert.Len(t, id, 36)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestTranslate_Identity(t *testing.T) {
	identity := invocation.DefaultIdentity()
	identity.AccountID = "000000000000"
	identity.FunctionName = "orders"
	tr := &request.Translator{Identity: &identity}

	event, lc, err := tr.Translate(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "000000000000", event.RequestContext.AccountID)
	assert.Equal(t, "arn:aws:lambda:us-east-1:000000000000:function:orders", lc.InvokedFunctionArn)
}

func TestTranslate_Body(t *testing.T) {
	testCases := []struct {
		Name          string
		Body          string
		ContentLength int64
		Expected      string
		Malformed     bool
	}{
		{
			Name:          "declared_length",
			Body:          "hello",
			ContentLength: 5,
			Expected:      "hello",
		},
		{
			Name:          "zero_length",
			Body:          "ignored",
			ContentLength: 0,
			Expected:      "",
		},
		{
			Name:          "unknown_length",
			Body:          "ignored",
			ContentLength: -1,
			Expected:      "",
		},
		{
			Name:          "utf8",
			Body:          "héllo",
			ContentLength: int64(len("héllo")),
			Expected:      "héllo",
		},
		{
			Name:          "invalid_utf8",
			Body:          "\xff\xfe",
			ContentLength: 2,
			Malformed:     true,
		},
		{
			Name:          "short_body",
			Body:          "abc",
			ContentLength: 10,
			Malformed:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.Body))
			req.ContentLength = tc.ContentLength

			event, _, err := (&request.Translator{}).Translate(req)
			if tc.Malformed {
				var malformed *request.MalformedRequestError
				assert.ErrorAs(t, err, &malformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, event.Body)
		})
	}
}

func TestQueryStringParameters(t *testing.T) {
	testCases := []struct {
		Name     string
		Query    string
		Expected map[string]string
	}{
		{
			Name:     "repeated_values",
			Query:    "a=1&a=2&b=3",
			Expected: map[string]string{"a": "1,2", "b": "3"},
		},
		{
			Name:     "no_query",
			Query:    "",
			Expected: nil,
		},
		{
			Name:     "blank_values_dropped",
			Query:    "a=&b=1&a=2",
			Expected: map[string]string{"a": "2", "b": "1"},
		},
		{
			Name:     "only_blank_values",
			Query:    "a=&b",
			Expected: nil,
		},
		{
			Name:     "decoded",
			Query:    "q=hello+world&path=%2Ftmp",
			Expected: map[string]string{"q": "hello world", "path": "/tmp"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			params := request.QueryStringParameters(tc.Query)
			if tc.Expected == nil {
				assert.Nil(t, params)
				return
			}
			assert.Equal(t, tc.Expected, params)
		})
	}
}

func TestCookies(t *testing.T) {
	testCases := []struct {
		Name     string
		Header   string
		Expected []string
	}{
		{Name: "two_cookies", Header: "x=1; y=2", Expected: []string{"x=1", "y=2"}},
		{Name: "absent", Header: "", Expected: []string{}},
		{Name: "untrimmed", Header: "  a=b ;c=d  ", Expected: []string{"a=b", "c=d"}},
		{Name: "no_value_parsing", Header: "session=abc=def", Expected: []string{"session=abc=def"}},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			cookies := request.Cookies(tc.Header)
			assert.NotNil(t, cookies)
			assert.Equal(t, tc.Expected, cookies)
		})
	}
}

func TestHeaders_LastValueWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Add("X-Trace", "first")
	req.Header.Add("X-Trace", "second")

	headers := request.Headers(req)
	assert.Equal(t, "second", headers["X-Trace"])
}
