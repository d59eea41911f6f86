// Package request translates inbound HTTP requests into function URL events.
package request

import (
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/isometry/lambda-http-server/pkg/invocation"
)

// TimeFormat is the layout of requestContext.time.
const TimeFormat = "02/Jan/2006:15:04:05 +0000"

// Translator builds the event and context of a request. The zero value is usable and attributes all
// requests to invocation.DefaultIdentity.
type Translator struct {
	Identity *invocation.Identity
	// Now defaults to time.Now.
	Now func() time.Time
	// NewID defaults to random UUIDs.
	NewID func() string
}

// Translate reads r and returns the event and invocation context a function URL would produce.
// Every call draws fresh timestamps and ids.
func (t *Translator) Translate(r *http.Request) (invocation.Event, invocation.Context, error) {
	body, err := readBody(r)
	if err != nil {
		return invocation.Event{}, invocation.Context{}, err
	}

	identity := invocation.DefaultIdentity()
	if t.Identity != nil {
		identity = *t.Identity
	}
	now := t.now().UTC()
	rawPath, rawQuery := splitTarget(r)

	event := invocation.Event{
		Version:               invocation.PayloadVersion,
		RouteKey:              invocation.DefaultRouteKey,
		RawPath:               rawPath,
		RawQueryString:        rawQuery,
		Cookies:               Cookies(r.Header.Get("Cookie")),
		Headers:               Headers(r),
		QueryStringParameters: QueryStringParameters(rawQuery),
		RequestContext: invocation.RequestContext{
			AccountID:    identity.AccountID,
			APIID:        identity.APIID,
			DomainName:   identity.DomainName,
			DomainPrefix: identity.DomainPrefix,
			HTTP: invocation.HTTPContext{
				Method:    r.Method,
				Path:      rawPath,
				Protocol:  r.Proto,
				SourceIP:  sourceIP(r.RemoteAddr),
				UserAgent: r.Header.Get("User-Agent"),
			},
			RequestID: t.newID(),
			RouteKey:  invocation.DefaultRouteKey,
			Stage:     invocation.DefaultRouteKey,
			Time:      now.Format(TimeFormat),
			TimeEpoch: now.UnixMilli(),
		},
		Body:            body,
		IsBase64Encoded: false,
	}

	return event, identity.NewContext(t.newID()), nil
}

func (t *Translator) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

func (t *Translator) newID() string {
	if t.NewID == nil {
		return uuid.NewString()
	}
	return t.NewID()
}

// readBody reads exactly Content-Length bytes. Bodies of unknown length are treated as empty.
func readBody(r *http.Request) (string, error) {
	if r.ContentLength <= 0 || r.Body == nil {
		return "", nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, r.ContentLength))
	if err != nil {
		return "", &MalformedRequestError{Reason: "failed to read request body", Err: err}
	}
	if int64(len(raw)) != r.ContentLength {
		return "", &MalformedRequestError{Reason: "request body is shorter than Content-Length"}
	}
	if !utf8.Valid(raw) {
		return "", &MalformedRequestError{Reason: "request body is not valid UTF-8"}
	}
	return string(raw), nil
}

// splitTarget returns the path and query of the request target as sent by the client.
func splitTarget(r *http.Request) (string, string) {
	if strings.HasPrefix(r.RequestURI, "/") {
		path, query, _ := strings.Cut(r.RequestURI, "?")
		return path, query
	}
	return r.URL.EscapedPath(), r.URL.RawQuery
}

// Cookies splits a Cookie header into its trimmed "name=value" segments.
func Cookies(header string) []string {
	if header == "" {
		return []string{}
	}
	segments := strings.Split(header, ";")
	cookies := make([]string, 0, len(segments))
	for _, segment := range segments {
		cookies = append(cookies, strings.TrimSpace(segment))
	}
	return cookies
}

// Headers folds the request headers to one value per name. The last value of a repeated header
// wins; the Host header is restored from r.Host.
func Headers(r *http.Request) map[string]string {
	headers := make(map[string]string, len(r.Header)+1)
	if r.Host != "" {
		headers["Host"] = r.Host
	}
	for name, values := range r.Header {
		if len(values) == 0 {
			continue
		}
		headers[name] = values[len(values)-1]
	}
	return headers
}

// QueryStringParameters parses rawQuery, drops blank values and joins repeated values with ",".
// It returns nil, not an empty map, when no parameter remains.
func QueryStringParameters(rawQuery string) map[string]string {
	// malformed pairs are skipped, ParseQuery still returns the others
	values, _ := url.ParseQuery(rawQuery)

	var params map[string]string
	for name, vs := range values {
		kept := make([]string, 0, len(vs))
		for _, v := range vs {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			continue
		}
		if params == nil {
			params = make(map[string]string, len(values))
		}
		params[name] = strings.Join(kept, ",")
	}
	return params
}

func sourceIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
