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

package schema

import (
	"github.com/graphql-go/graphql"
)

// objectTypes contains the output object types shared by the query and mutation roots.
type objectTypes struct {
	author *graphql.Object
	book   *graphql.Object
}

// newTypes creates Author and Book. The two types refer to each other, so their fields are given
// as thunks that are evaluated after both objects exist.
func newTypes(r *resolver) *objectTypes {
	types := &objectTypes{}

	types.author = graphql.NewObject(graphql.ObjectConfig{
		Name:        "Author",
		Description: "Represent the author",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Int),
				},
				"name": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
				},
				"books": &graphql.Field{
					Type:    graphql.NewList(types.book),
					Resolve: r.authorBooks,
				},
			}
		}),
	})

	types.book = graphql.NewObject(graphql.ObjectConfig{
		Name:        "Book",
		Description: "Represent a book that written by author",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Int),
				},
				"name": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
				},
				"authorId": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Int),
				},
				// Singular object despite the plural name.
				"authors": &graphql.Field{
					Type:    types.author,
					Resolve: r.bookAuthor,
				},
			}
		}),
	})

	return types
}

func newQuery(r *resolver, types *objectTypes) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "Query",
		Description: "Root Query",
		Fields: graphql.Fields{
			"books": &graphql.Field{
				Type:        graphql.NewList(types.book),
				Description: "List of all book",
				Resolve:     r.books,
			},
			"book": &graphql.Field{
				Type:        types.book,
				Description: "return a book data",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
				},
				Resolve: r.book,
			},
			"authors": &graphql.Field{
				Type:        graphql.NewList(types.author),
				Description: "List of all author",
				Resolve:     r.authors,
			},
			"author": &graphql.Field{
				Type:        types.author,
				Description: "return author",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
				},
				Resolve: r.author,
			},
		},
	})
}

func newMutation(r *resolver, types *objectTypes) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "Mutation",
		Description: "Root Mutation",
		Fields: graphql.Fields{
			"addAuthor": &graphql.Field{
				Type:        types.author,
				Description: "Add author",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
				},
				Resolve: r.addAuthor,
			},
			"addBook": &graphql.Field{
				Type:        types.book,
				Description: "Add book",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
					"authorId": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
				},
				Resolve: r.addBook,
			},
		},
	})
}
