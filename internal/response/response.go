// Package response turns handler results into HTTP responses.
package response

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"slices"

	"github.com/isometry/lambda-http-server/internal/cors"
)

// Keys read from a structured response.
const (
	KeyStatusCode      = "statusCode"
	KeyHeaders         = "headers"
	KeyBody            = "body"
	KeyCookies         = "cookies"
	KeyIsBase64Encoded = "isBase64Encoded"
)

// Response is either Structured or Raw.
type Response interface {
	Render() (*Rendered, error)
	isResponse()
}

// Structured is a handler result of a map kind. Keys are only looked up; unknown keys are ignored.
type Structured struct {
	Fields map[string]any
}

// Raw is a handler result of any other kind, sent as the body.
type Raw struct {
	Value any
}

func (Structured) isResponse() {}
func (Raw) isResponse()        {}

// Interpret classifies a handler result by its kind alone.
func Interpret(result any) Response {
	if result != nil && reflect.TypeOf(result).Kind() == reflect.Map {
		return Structured{Fields: stringKeyed(reflect.ValueOf(result))}
	}
	return Raw{Value: result}
}

// Header is a single header line.
type Header struct {
	Name, Value string
}

// Rendered is a response ready to be written.
type Rendered struct {
	StatusCode int
	Headers    []Header
	Cookies    []string
	Body       []byte
}

// Render applies the structured response defaults: status 200, no headers, empty body, no cookies,
// body not base64 encoded.
func (s Structured) Render() (*Rendered, error) {
	rendered := &Rendered{StatusCode: http.StatusOK}

	if v, found := s.lookup(KeyStatusCode); found {
		code, err := statusCode(v)
		if err != nil {
			return nil, err
		}
		rendered.StatusCode = code
	}

	if v, found := s.lookup(KeyHeaders); found {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map {
			return nil, &EncodingError{Field: KeyHeaders, Reason: fmt.Sprintf("expected a map, got %T", v)}
		}
		headers := stringKeyed(rv)
		names := make([]string, 0, len(headers))
		for name := range headers {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			rendered.Headers = append(rendered.Headers, Header{Name: name, Value: fmt.Sprint(headers[name])})
		}
	}

	if v, found := s.lookup(KeyCookies); found {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, &EncodingError{Field: KeyCookies, Reason: fmt.Sprintf("expected a list, got %T", v)}
		}
		for i := range rv.Len() {
			rendered.Cookies = append(rendered.Cookies, fmt.Sprint(rv.Index(i).Interface()))
		}
	}

	isBase64 := false
	if v, found := s.lookup(KeyIsBase64Encoded); found {
		b, ok := v.(bool)
		if !ok {
			return nil, &EncodingError{Field: KeyIsBase64Encoded, Reason: fmt.Sprintf("expected a bool, got %T", v)}
		}
		isBase64 = b
	}

	var body string
	if v, found := s.lookup(KeyBody); found {
		switch b := v.(type) {
		case string:
			body = b
		case []byte:
			body = string(b)
		default:
			return nil, &EncodingError{Field: KeyBody, Reason: fmt.Sprintf("expected a string, got %T", v)}
		}
	}
	if body != "" {
		if isBase64 {
			decoded, err := base64.StdEncoding.DecodeString(body)
			if err != nil {
				return nil, &EncodingError{Field: KeyBody, Reason: "invalid base64", Err: err}
			}
			rendered.Body = decoded
		} else {
			rendered.Body = []byte(body)
		}
	}

	return rendered, nil
}

// lookup treats keys holding nil like absent keys.
func (s Structured) lookup(key string) (any, bool) {
	v, found := s.Fields[key]
	if !found || v == nil {
		return nil, false
	}
	return v, true
}

// Render sends strings, including named string types, verbatim and JSON-encodes everything else.
func (r Raw) Render() (*Rendered, error) {
	var body []byte
	if rv := reflect.ValueOf(r.Value); rv.Kind() == reflect.String {
		body = []byte(rv.String())
	} else {
		var buf bytes.Buffer
		encoder := json.NewEncoder(&buf)
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(r.Value); err != nil {
			return nil, &EncodingError{Field: KeyBody, Reason: "cannot encode result as JSON", Err: err}
		}
		body = bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	}

	return &Rendered{
		StatusCode: http.StatusOK,
		Headers:    []Header{{Name: "Content-Type", Value: "application/json"}},
		Body:       body,
	}, nil
}

// Write sends the response. CORS headers come first; handler headers are added after them, so a
// handler header with a CORS name is sent as a second value.
func (r *Rendered) Write(w http.ResponseWriter, origin string, policy *cors.Policy) error {
	header := w.Header()
	policy.Apply(header, origin)
	for _, h := range r.Headers {
		header.Add(h.Name, h.Value)
	}
	for _, cookie := range r.Cookies {
		header.Add("Set-Cookie", cookie)
	}

	w.WriteHeader(r.StatusCode)
	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

func statusCode(v any) (int, error) {
	var code int64
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, &EncodingError{Field: KeyStatusCode, Reason: fmt.Sprintf("%q is not an integer", n.String())}
		}
		code = i
	default:
		rv := reflect.ValueOf(v)
		switch {
		case rv.CanInt():
			code = rv.Int()
		case rv.CanUint():
			if rv.Uint() > math.MaxInt32 {
				return 0, &EncodingError{Field: KeyStatusCode, Reason: fmt.Sprintf("%d is out of range", rv.Uint())}
			}
			code = int64(rv.Uint())
		case rv.CanFloat() && rv.Float() == math.Trunc(rv.Float()):
			code = int64(rv.Float())
		default:
			return 0, &EncodingError{Field: KeyStatusCode, Reason: fmt.Sprintf("expected an integer, got %T", v)}
		}
	}
	if code < 100 || code > 999 {
		return 0, &EncodingError{Field: KeyStatusCode, Reason: fmt.Sprintf("%d is out of range", code)}
	}
	// net/http sends 1xx as an interim response followed by an implicit 200
	if code < 200 {
		return 0, &EncodingError{Field: KeyStatusCode, Reason: fmt.Sprintf("%d is an informational status", code)}
	}
	return int(code), nil
}

// stringKeyed copies the string-keyed entries of a map value. Other keys can never match a field.
func stringKeyed(rv reflect.Value) map[string]any {
	fields := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		if iter.Key().Kind() != reflect.String {
			continue
		}
		fields[iter.Key().String()] = iter.Value().Interface()
	}
	return fields
}
