/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
)

// httpHandler implements a http.Handler which is based on LLHandler to serve GraphQL queries from
// HTTP requests.
type httpHandler struct {
	*LLHandler

	config httpHandlerConfig

	// The handler for presenting errors occurred during preparation of execution; It doesn't handle
	// errors occurred during execution (in which ResultPresenter is responsible for.)
	errorPresenter ErrorPresenter

	// The handles for building requests and writing responses; If not given, DefaultRequestBuilder
	// and DefaultResultPresenter are used, respectively.
	requestBuilder  RequestBuilder
	resultPresenter ResultPresenter
}

// httpHandlerConfig contains configuration for a httpHandler.
type httpHandlerConfig struct {
	LLConfig

	// Configuration given to DefaultRequestBuilder; It is not applicable if custom
	// RequestBuilder is used.
	defaultRequestBuilderConfig DefaultRequestBuilderConfig

	// Serve GraphiQL for GET requests from browsers
	graphiql bool

	errorPresenter  ErrorPresenter
	requestBuilder  RequestBuilder
	resultPresenter ResultPresenter
}

// Option configures httpHandler
type Option func(h *httpHandlerConfig)

// MaxBodySize sets the maximum number of bytes to be read from request body for ParseHTTPRequest
// called by DefaultRequestBuilder.
func MaxBodySize(size uint) Option {
	return func(h *httpHandlerConfig) {
		h.defaultRequestBuilderConfig.HTTPRequestParserOptions.MaxBodySize = size
	}
}

// GraphiQL enables or disables the in-browser query explorer.
func GraphiQL(enabled bool) Option {
	return func(h *httpHandlerConfig) {
		h.graphiql = enabled
	}
}

// OperationCacheSize sets the number of documents held by the default operation cache.
func OperationCacheSize(size int64) Option {
	return func(h *httpHandlerConfig) {
		h.OperationCacheSize = size
	}
}

// ValidationRules replaces the rules used to validate queries against the schema. By default
// graphql.SpecifiedRules are applied.
func ValidationRules(rules []graphql.ValidationRuleFn) Option {
	return func(h *httpHandlerConfig) {
		h.ValidationRules = rules
	}
}

// OverrideErrorPresenter overrides default ErrorPresenter.
func OverrideErrorPresenter(errorPresenter ErrorPresenter) Option {
	return func(h *httpHandlerConfig) {
		h.errorPresenter = errorPresenter
	}
}

// OverrideRequestBuilder overrides default RequestBuilder.
func OverrideRequestBuilder(requestBuilder RequestBuilder) Option {
	return func(h *httpHandlerConfig) {
		h.requestBuilder = requestBuilder
	}
}

// OverrideResultPresenter overrides default ResultPresenter.
func OverrideResultPresenter(resultPresenter ResultPresenter) Option {
	return func(h *httpHandlerConfig) {
		h.resultPresenter = resultPresenter
	}
}

// OverrideOperationCache that overrides default OperationCache.
func OverrideOperationCache(cache OperationCache) Option {
	return func(h *httpHandlerConfig) {
		h.OperationCache = cache
	}
}

// New creates a net/http.Handler and builds a GraphQL web service to serve queries against the
// schema. The returned handler also implements io.Closer to release its default
// operation cache.
func New(schema *graphql.Schema, opts ...Option) (http.Handler, error) {
	// Apply Options on config.
	config := httpHandlerConfig{
		LLConfig: LLConfig{
			Schema: schema,
		},

		defaultRequestBuilderConfig: DefaultRequestBuilderConfig{
			HTTPRequestParserOptions: ParseHTTPRequestOptions{
				MaxBodySize: 10 << 20, // 10MB
			},
		},
	}
	for _, opt := range opts {
		opt(&config)
	}

	baseHandler, err := NewLLHandler(&config.LLConfig)
	if err != nil {
		return nil, err
	}

	requestBuilder := config.requestBuilder
	if requestBuilder == nil {
		requestBuilder = DefaultRequestBuilder{
			Config: &config.defaultRequestBuilderConfig,
		}
	}

	resultPresenter := config.resultPresenter
	if resultPresenter == nil {
		resultPresenter = DefaultResultPresenter{}
	}

	errorPresenter := config.errorPresenter
	if errorPresenter == nil {
		errorPresenter = DefaultErrorPresenter{}
	}

	return &httpHandler{
		LLHandler:       baseHandler,
		config:          config,
		errorPresenter:  errorPresenter,
		requestBuilder:  requestBuilder,
		resultPresenter: resultPresenter,
	}, nil
}

// ErrorPresenter implements HTTPHandler which returns h.errorPresenter.
func (h *httpHandler) ErrorPresenter() ErrorPresenter {
	return h.errorPresenter
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.config.graphiql && wantsGraphiQL(r) {
		renderGraphiQL(w, r)
		return
	}

	// Prepare executable operation from r with RequestBuilder.
	req, err := h.requestBuilder.Build(r, h)
	if err != nil {
		glog.V(2).Infof("Rejected GraphQL request from %s: %v", r.RemoteAddr, err)
		h.errorPresenter.Write(w, err)
		return
	}

	// Serve the request with LLHandler which executes query.
	result := h.Serve(req)

	// Present the result to w.
	h.resultPresenter.Write(w, r, req, result)
}

// RequestBuilder generates a Request to be served by LLHandler from an HTTP request.
type RequestBuilder interface {
	// Build turns a http.Request r into a Request for h.
	Build(r *http.Request, h HTTPHandler) (*Request, error)
}

// DefaultRequestBuilderConfig specifies settings to configure DefaultRequestBuilder.
type DefaultRequestBuilderConfig struct {
	HTTPRequestParserOptions ParseHTTPRequestOptions
}

// DefaultRequestBuilder implements the default request builder used by HTTP handler to obtain
// a Request object from a http.Request.
type DefaultRequestBuilder struct {
	Config *DefaultRequestBuilderConfig
}

// HTTPHandler provides interfaces to access settings in httpHandler from RequestBuilder.
type HTTPHandler interface {
	// Schema served by this handler
	Schema() *graphql.Schema

	// OperationCache for the parsed queries
	OperationCache() OperationCache

	// ValidationRules to check queries against the schema
	ValidationRules() []graphql.ValidationRuleFn

	// ErrorPresenter that presents errors returned from RequestBuilder
	ErrorPresenter() ErrorPresenter
}

var allowedMethods = []string{http.MethodGet, http.MethodPost}

// Build implements RequestBuilder.
func (builder DefaultRequestBuilder) Build(r *http.Request, h HTTPHandler) (*Request, error) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		return nil, &ErrMethodNotAllowed{
			Request: r,
			Allow:   allowedMethods,
			Message: "GraphQL only supports GET and POST requests.",
		}
	}

	// Parse query from request parameters.
	parsedReq, err := ParseHTTPRequest(r, &builder.Config.HTTPRequestParserOptions)
	if err != nil {
		return nil, err
	}

	// Empty query is an error.
	if len(parsedReq.Query) == 0 {
		return nil, ErrEmptyQuery{
			Request: r,
		}
	}

	// Try to find the document that has been parsed and validated for given query before from
	// cache.
	cache := h.OperationCache()
	document, ok := cache.Get(parsedReq.Query)
	if !ok {
		document, err = parser.Parse(parser.ParseParams{
			Source: source.NewSource(&source.Source{
				Body: []byte(parsedReq.Query),
				Name: "GraphQL request",
			}),
		})
		if err != nil {
			return nil, &ErrParseQuery{
				Request:       r,
				ParsedRequest: parsedReq,
				Err:           err,
			}
		}

		validation := graphql.ValidateDocument(h.Schema(), document, h.ValidationRules())
		if !validation.IsValid {
			return nil, &ErrValidate{
				Request:       r,
				ParsedRequest: parsedReq,
				Document:      document,
				Errs:          validation.Errors,
			}
		}

		// Update cache.
		cache.Add(parsedReq.Query, document)
	}

	// Only query operations may be served over GET.
	if r.Method == http.MethodGet {
		operation := findOperation(document, parsedReq.OperationName)
		if operation != nil && operation.Operation != ast.OperationTypeQuery {
			return nil, &ErrMethodNotAllowed{
				Request: r,
				Allow:   []string{http.MethodPost},
				Message: "Can only perform a " + operation.Operation + " operation from a POST request.",
			}
		}
	}

	return &Request{
		Ctx:           r.Context(),
		Document:      document,
		OperationName: parsedReq.OperationName,
		Variables:     parsedReq.Variables,
	}, nil
}

// ResultPresenter presents an execution result to a http.ResponseWriter.
type ResultPresenter interface {
	// Write writes a result to w.
	Write(
		w http.ResponseWriter,
		httpRequest *http.Request,
		graphqlRequest *Request,
		result *graphql.Result)
}

// DefaultResultPresenter implements a ResultPresenter used by HTTP handler to present a
// graphql.Result. A result without data is reported with status 500.
type DefaultResultPresenter struct{}

// Write implements ResultPresenter.
func (DefaultResultPresenter) Write(
	w http.ResponseWriter,
	httpRequest *http.Request,
	graphqlRequest *Request,
	result *graphql.Result) {

	status := http.StatusOK
	if result.Data == nil {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, result)
}
