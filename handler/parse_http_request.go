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
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseHTTPRequestOptions provides settings to ParseHTTPRequest.
type ParseHTTPRequestOptions struct {
	// Maximum size in bytes to be read when parsing a GraphQL query from HTTP request body.
	MaxBodySize uint
}

// HTTPRequest contains result values of ParseHTTPRequest.
type HTTPRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// HTTPRequestParseError is returned by ParseHTTPRequest when parsing failed.
type HTTPRequestParseError struct {
	Request *http.Request
	Options *ParseHTTPRequestOptions
	Err     error
}

// Error implements Go's error interface.
func (err *HTTPRequestParseError) Error() string {
	return err.Err.Error()
}

var errRequestBodyTooLarge = errors.New("request body is too large")

// requestParser carries the request being parsed so failures can be reported with it.
type requestParser struct {
	r       *http.Request
	options *ParseHTTPRequestOptions
}

func (p requestParser) fail(err error) (*HTTPRequest, error) {
	return nil, &HTTPRequestParseError{
		Request: p.r,
		Options: p.options,
		Err:     err,
	}
}

// ParseHTTPRequest parses a GraphQL request from a http.Request object. Requests with methods other
// than GET and POST, or POST bodies of unsupported content type yield an empty HTTPRequest.
func ParseHTTPRequest(r *http.Request, options *ParseHTTPRequestOptions) (*HTTPRequest, error) {
	p := requestParser{r, options}

	switch r.Method {
	case http.MethodGet:
		return p.parseQueryString(r.URL.RawQuery)
	case http.MethodPost:
		return p.parseBody()
	}
	return &HTTPRequest{}, nil
}

// parseBody decodes the body according to its content type. See
// https://github.com/graphql/express-graphql/blob/8826952/src/parseBody.js for the supported ones.
func (p requestParser) parseBody() (*HTTPRequest, error) {
	contentType, _, _ := mime.ParseMediaType(p.r.Header.Get("Content-Type"))

	body, err := p.readBody()
	if err != nil {
		return p.fail(err)
	}

	switch contentType {
	case "application/graphql":
		return &HTTPRequest{Query: string(body)}, nil

	case "application/x-www-form-urlencoded":
		return p.parseQueryString(string(body))

	case "", "application/json":
		req := &HTTPRequest{}
		if len(body) > 0 {
			if err := json.Unmarshal(body, req); err != nil {
				return p.fail(fmt.Errorf("POST body sent invalid JSON: %s", err))
			}
		}
		return req, nil
	}
	return &HTTPRequest{}, nil
}

// readBody reads at most options.MaxBodySize bytes from the body and fails if there's more.
func (p requestParser) readBody() ([]byte, error) {
	limit := p.options.MaxBodySize
	body, err := io.ReadAll(io.LimitReader(p.r.Body, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if uint(len(body)) > limit {
		return nil, errRequestBodyTooLarge
	}
	return body, nil
}

// parseQueryString reads query, operationName and variables from URL-encoded parameters. Each may
// appear at most once.
func (p requestParser) parseQueryString(query string) (*HTTPRequest, error) {
	values, err := url.ParseQuery(query)
	if err != nil {
		return p.fail(err)
	}

	var fields [3]string
	for i, key := range [...]string{"query", "operationName", "variables"} {
		switch v := values[key]; len(v) {
		case 0:
		case 1:
			fields[i] = v[0]
		default:
			return p.fail(fmt.Errorf(`multiple values are provided to "%s", but only one expected`, key))
		}
	}

	req := &HTTPRequest{
		Query:         fields[0],
		OperationName: fields[1],
	}
	if len(fields[2]) > 0 {
		if err := json.UnmarshalFromString(fields[2], &req.Variables); err != nil {
			return p.fail(fmt.Errorf("variables are invalid JSON: %s", err))
		}
	}
	return req, nil
}
