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

// Package schema defines the GraphQL schema of bookshelf. The schema exposes authors and books kept
// in a store.Store through four queries and two mutations.
package schema

import (
	"github.com/botobag/bookshelf/store"

	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"
)

// New creates the GraphQL schema that serves queries and mutations against s.
func New(s *store.Store) (graphql.Schema, error) {
	if s == nil {
		return graphql.Schema{}, errors.New("schema: must specify a store")
	}

	r := &resolver{store: s}
	types := newTypes(r)

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    newQuery(r, types),
		Mutation: newMutation(r, types),
	})
	if err != nil {
		return graphql.Schema{}, errors.Wrap(err, "build schema")
	}
	return schema, nil
}

// MustNew is a convenience function equivalent to New but panics on failure instead of returning an
// error.
func MustNew(s *store.Store) graphql.Schema {
	schema, err := New(s)
	if err != nil {
		panic(err)
	}
	return schema
}
