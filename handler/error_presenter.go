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
	"strings"

	"github.com/golang/glog"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
)

// ErrorPresenter presents an error to a http.ResponseWriter.
type ErrorPresenter interface {
	// Write sends the given error to w.
	Write(w http.ResponseWriter, err error)
}

// Errors by DefaultRequestBuilder.Build

// ErrMethodNotAllowed is returned for a request whose HTTP method cannot serve it.
type ErrMethodNotAllowed struct {
	Request *http.Request
	// Methods that would have been accepted
	Allow []string
	// Message to be presented to client
	Message string
}

// Error implements Go's error interface.
func (err *ErrMethodNotAllowed) Error() string {
	return err.Message
}

// ErrEmptyQuery describes an error when an empty query is not allowed.
type ErrEmptyQuery struct {
	Request *http.Request
}

// Error implements Go's error interface.
func (err ErrEmptyQuery) Error() string {
	return "Must provide query string."
}

// ErrParseQuery describes an invalid GraphQL query document that failed parsing.
type ErrParseQuery struct {
	Request       *http.Request
	ParsedRequest *HTTPRequest
	Err           error
}

// Error implements Go's error interface.
func (err *ErrParseQuery) Error() string {
	return "invalid query: " + err.Err.Error()
}

// ErrValidate indicates that the query document is not valid against the schema.
type ErrValidate struct {
	Request       *http.Request
	ParsedRequest *HTTPRequest
	Document      *ast.Document
	Errs          []gqlerrors.FormattedError
}

// Error implements Go's error interface.
func (err *ErrValidate) Error() string {
	var buf strings.Builder
	buf.WriteString("query failed validation because of following error(s): \n")
	for _, e := range err.Errs {
		buf.WriteRune('\t')
		buf.WriteString(e.Message)
		buf.WriteRune('\n')
	}
	return buf.String()
}

// DefaultErrorPresenter implements an ErrorPresenter which is default used by HTTP handler when no
// error presenter is provided. Errors are sent in the "errors" of a response body.
type DefaultErrorPresenter struct{}

// Write implements ErrorPresenter.
func (DefaultErrorPresenter) Write(w http.ResponseWriter, err error) {
	var (
		status int
		errs   []gqlerrors.FormattedError
	)

	switch err := err.(type) {
	case *ErrMethodNotAllowed:
		w.Header().Set("Allow", strings.Join(err.Allow, ", "))
		status = http.StatusMethodNotAllowed
		errs = gqlerrors.FormatErrors(err)

	case ErrEmptyQuery, *HTTPRequestParseError:
		status = http.StatusBadRequest
		errs = gqlerrors.FormatErrors(err)

	case *ErrParseQuery:
		status = http.StatusBadRequest
		// Present the syntax error from parser which carries locations.
		errs = gqlerrors.FormatErrors(err.Err)

	case *ErrValidate:
		status = http.StatusBadRequest
		errs = err.Errs

	default:
		status = http.StatusInternalServerError
		errs = gqlerrors.FormatErrors(err)
	}

	writeJSON(w, status, struct {
		Errors []gqlerrors.FormattedError `json:"errors"`
	}{errs})
}

// writeJSON serializes v to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Errorf("Unable to write GraphQL response: %v", err)
	}
}
