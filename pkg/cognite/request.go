package cognite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"google.golang.org/protobuf/proto"

	"github.com/cognitedata-community/cognite-sdk-go/internal/constants"
	"github.com/cognitedata-community/cognite-sdk-go/internal/transport"
)

// acceptKind selects how Request.Send decodes a successful response body.
type acceptKind int

const (
	acceptNone acceptKind = iota
	acceptJSON
	acceptProtobuf
	acceptRaw
	acceptNothing
)

// sender is the subset of transport.Client a Request needs; *transport.Client
// satisfies it, and tests can substitute a fake.
type sender interface {
	Do(ctx context.Context, req *transport.Request) (*transport.Response, error)
}

// Request is a single-use, fluent request builder: method + URL + headers
// + query + body + declared response handler. Finalized on Send and not
// reusable afterwards.
type Request struct {
	client *Client
	sender sender

	method string
	path   string
	header http.Header
	query  *QueryParams
	body   []byte

	contentTypeSet bool
	accept         acceptKind
	sent           bool
	buildErr       error
}

func newRequest(c *Client, method, path string) *Request {
	return &Request{
		client: c,
		sender: c.transport,
		method: method,
		path:   path,
		header: make(http.Header),
	}
}

// Header appends a header to the request.
func (r *Request) Header(name, value string) *Request {
	r.header.Add(name, value)

	return r
}

// Query appends query parameters built by a QueryParams.
func (r *Request) Query(q *QueryParams) *Request {
	if r.query == nil {
		r.query = NewQueryParams()
	}

	for key, values := range q.Values() {
		r.query.SetEach(key, values)
	}

	return r
}

// Body sets a raw body. The caller is responsible for setting Content-Type
// itself via Header.
func (r *Request) Body(data []byte) *Request {
	r.body = data

	return r
}

// JSON serializes value as the request body and sets Content-Type:
// application/json, unless Content-Type was already set explicitly. A
// marshal failure is recorded and surfaces from Send, never silently
// dropped on the wire as an empty body.
func (r *Request) JSON(value interface{}) *Request {
	data, err := json.Marshal(value)
	if err != nil {
		r.buildErr = newPlainError(KindJSONDecode, "encoding request body", err)

		return r
	}

	r.body = data
	r.setContentTypeIfUnset("application/json")

	return r
}

// Protobuf serializes msg in protobuf wire format as the request body and
// sets Content-Type: application/protobuf. A marshal failure is recorded
// and surfaces from Send.
func (r *Request) Protobuf(msg proto.Message) *Request {
	data, err := proto.Marshal(msg)
	if err != nil {
		r.buildErr = newPlainError(KindProtobufDecode, "encoding request body", err)

		return r
	}

	r.body = data
	r.setContentTypeIfUnset("application/protobuf")

	return r
}

func (r *Request) setContentTypeIfUnset(ct string) {
	if r.contentTypeSet || r.header.Get("Content-Type") != "" {
		return
	}

	r.header.Set("Content-Type", ct)
	r.contentTypeSet = true
}

// AcceptJSON declares the expected response as JSON; decode it with
// DecodeJSON.
func (r *Request) AcceptJSON() *Request {
	r.accept = acceptJSON
	r.header.Set("Accept", "application/json")

	return r
}

// AcceptProtobuf declares the expected response as protobuf.
func (r *Request) AcceptProtobuf() *Request {
	r.accept = acceptProtobuf
	r.header.Set("Accept", "application/protobuf")

	return r
}

// AcceptRaw declares that the caller wants the raw response bytes.
func (r *Request) AcceptRaw() *Request {
	r.accept = acceptRaw
	r.header.Set("Accept", "*/*")

	return r
}

// AcceptNothing declares that the response body should be discarded.
func (r *Request) AcceptNothing() *Request {
	r.accept = acceptNothing
	r.header.Set("Accept", "*/*")

	return r
}

// Send executes the request. On success it returns the response, with the
// body dropped when AcceptNothing was declared; DecodeJSON and
// DecodeProtobuf decode the returned body. On a non-2xx status it builds a
// typed Error.
func (r *Request) Send(ctx context.Context) (*Response, error) {
	if r.sent {
		return nil, newPlainError(KindMiddlewareFailure, "request already sent", nil)
	}

	r.sent = true

	if r.buildErr != nil {
		return nil, r.buildErr
	}

	r.header.Set("User-Agent", r.client.userAgent())
	r.header.Set(constants.HeaderSDK, "go-sdk-v"+constants.SDKVersion)
	r.header.Set(constants.HeaderApp, r.client.appName)

	tresp, err := r.sender.Do(ctx, &transport.Request{
		Method:  r.method,
		Path:    r.path,
		Headers: r.header,
		Query:   r.queryValues(),
		Body:    r.body,
	})
	if err != nil {
		return nil, newPlainError(KindMiddlewareFailure, err.Error(), err)
	}

	if tresp.StatusCode < 200 || tresp.StatusCode >= 300 {
		return nil, newAPIError(tresp.StatusCode, tresp.Headers.Get(constants.HeaderRequestID), tresp.Body)
	}

	body := tresp.Body
	if r.accept == acceptNothing {
		body = nil
	}

	return &Response{StatusCode: tresp.StatusCode, Headers: tresp.Headers, Body: body}, nil
}

func (r *Request) queryValues() url.Values {
	if r.query == nil {
		return nil
	}

	return r.query.Values()
}

// Response is the successful, typed-decodable outcome of Request.Send.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// DecodeJSON decodes the response body as JSON into a freshly allocated T.
func DecodeJSON[T any](resp *Response, err error) (T, error) {
	var zero T

	if err != nil {
		return zero, err
	}

	var out T

	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	if decErr := dec.Decode(&out); decErr != nil {
		return zero, newPlainError(KindJSONDecode, fmt.Sprintf("decoding %T", out), decErr)
	}

	return out, nil
}

// DecodeProtobuf decodes the response body as protobuf into msg.
func DecodeProtobuf(resp *Response, err error, msg proto.Message) error {
	if err != nil {
		return err
	}

	if unmarshalErr := proto.Unmarshal(resp.Body, msg); unmarshalErr != nil {
		return newPlainError(KindProtobufDecode, "decoding protobuf response", unmarshalErr)
	}

	return nil
}
