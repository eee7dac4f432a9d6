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
	"context"
	"errors"
	"sync"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// LLHandler creates a handler that is suit for serving GraphQL queries against a schema in a
// long-running process. It is useful as a low-level building block for building GraphQL services
// such as GraphQL web services.
type LLHandler struct {
	// Schema served by this handler
	schema *graphql.Schema

	// Cache for the parsed and validated documents
	cache OperationCache

	// Rules to validate documents with; nil means graphql.SpecifiedRules.
	validationRules []graphql.ValidationRuleFn

	// The default cache created by NewLLHandler; It is released by Close. Caches supplied in
	// LLConfig are owned by the caller.
	ownedCache *BoundedOperationCache
	closeOnce  sync.Once
}

// LLConfig contains configuration to set up a LLHandler.
type LLConfig struct {
	// Schema to be working on
	Schema *graphql.Schema

	// OperationCache caches documents parsed from a query to save parsing efforts. Set to
	// NopOperationCache to disable caching.
	OperationCache OperationCache

	// Size of the default operation cache; Ignored if OperationCache is given.
	OperationCacheSize int64

	// ValidationRules to check documents against the schema; graphql.SpecifiedRules if nil.
	ValidationRules []graphql.ValidationRuleFn
}

var errMissingSchema = errors.New("bookshelf/handler: must specify a schema")

// NewLLHandler creates a LLHandler from given configuration.
func NewLLHandler(config *LLConfig) (*LLHandler, error) {
	// schema is required.
	schema := config.Schema
	if schema == nil {
		return nil, errMissingSchema
	}

	handler := &LLHandler{
		schema:          schema,
		cache:           config.OperationCache,
		validationRules: config.ValidationRules,
	}

	if handler.cache == nil {
		size := config.OperationCacheSize
		if size <= 0 {
			size = 512
		}
		cache, err := NewBoundedOperationCache(size)
		if err != nil {
			return nil, err
		}
		handler.cache = cache
		handler.ownedCache = cache
	}

	return handler, nil
}

// Close releases the operation cache created by the handler. A cache given in LLConfig is left
// open. The handler must not serve requests afterwards. Close always returns nil.
func (handler *LLHandler) Close() error {
	handler.closeOnce.Do(func() {
		if handler.ownedCache != nil {
			handler.ownedCache.Close()
		}
	})
	return nil
}

// Schema returns handler.schema.
func (handler *LLHandler) Schema() *graphql.Schema {
	return handler.schema
}

// OperationCache returns handler.cache.
func (handler *LLHandler) OperationCache() OperationCache {
	return handler.cache
}

// ValidationRules returns handler.validationRules.
func (handler *LLHandler) ValidationRules() []graphql.ValidationRuleFn {
	return handler.validationRules
}

// Request contains parameter required by Serve.
type Request struct {
	Ctx context.Context

	// Document has been validated against the schema.
	Document      *ast.Document
	OperationName string
	Variables     map[string]interface{}
}

// Serve executes the operation with given context and parameters. The given request object must
// not be nil.
func (handler *LLHandler) Serve(request *Request) *graphql.Result {
	return graphql.Execute(graphql.ExecuteParams{
		Schema:        *handler.schema,
		AST:           request.Document,
		OperationName: request.OperationName,
		Args:          request.Variables,
		Context:       request.Ctx,
	})
}

// findOperation returns the operation to be executed in document. It returns nil if the operation
// cannot be determined, in which case the executor reports the error.
func findOperation(document *ast.Document, operationName string) *ast.OperationDefinition {
	var found *ast.OperationDefinition
	for _, definition := range document.Definitions {
		operation, ok := definition.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if len(operationName) == 0 {
			if found != nil {
				// Ambiguous
				return nil
			}
			found = operation
		} else if operation.Name != nil && operation.Name.Value == operationName {
			return operation
		}
	}
	return found
}
