// Package invocation defines the values exchanged with a function handler: the function URL event,
// the invocation context and the handler boundary itself.
package invocation

const (
	// PayloadVersion is the function URL payload format version.
	PayloadVersion = "2.0"
	// DefaultRouteKey is used for both the route key and the stage. No route matching is performed.
	DefaultRouteKey = "$default"
)

// Event is the payload format 2.0 request delivered to a handler.
// Nil maps are encoded as JSON null: handlers may distinguish "no query string" from an empty one.
type Event struct {
	Version               string            `json:"version"`
	RouteKey              string            `json:"routeKey"`
	RawPath               string            `json:"rawPath"`
	RawQueryString        string            `json:"rawQueryString"`
	Cookies               []string          `json:"cookies"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	RequestContext        RequestContext    `json:"requestContext"`
	Body                  string            `json:"body"`
	PathParameters        map[string]string `json:"pathParameters"`
	IsBase64Encoded       bool              `json:"isBase64Encoded"`
	StageVariables        map[string]string `json:"stageVariables"`
}

// RequestContext carries the synthetic identifiers of the request.
type RequestContext struct {
	AccountID      string      `json:"accountId"`
	APIID          string      `json:"apiId"`
	Authentication any         `json:"authentication"`
	Authorizer     any         `json:"authorizer"`
	DomainName     string      `json:"domainName"`
	DomainPrefix   string      `json:"domainPrefix"`
	HTTP           HTTPContext `json:"http"`
	RequestID      string      `json:"requestId"`
	RouteKey       string      `json:"routeKey"`
	Stage          string      `json:"stage"`
	Time           string      `json:"time"`
	TimeEpoch      int64       `json:"timeEpoch"`
}

// HTTPContext describes the HTTP request the event was built from.
type HTTPContext struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Protocol  string `json:"protocol"`
	SourceIP  string `json:"sourceIp"`
	UserAgent string `json:"userAgent"`
}
