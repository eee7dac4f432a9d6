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
	"fmt"

	"github.com/botobag/bookshelf/store"

	"github.com/graphql-go/graphql"
)

// resolver implements field resolvers against a store. Lookups that find nothing resolve to nil
// rather than an error.
type resolver struct {
	store *store.Store
}

func (r *resolver) books(p graphql.ResolveParams) (interface{}, error) {
	return r.store.Books(), nil
}

func (r *resolver) book(p graphql.ResolveParams) (interface{}, error) {
	id, err := intArg(p, "id")
	if err != nil {
		return nil, err
	}
	if book, ok := r.store.Book(id); ok {
		return book, nil
	}
	return nil, nil
}

func (r *resolver) authors(p graphql.ResolveParams) (interface{}, error) {
	return r.store.Authors(), nil
}

func (r *resolver) author(p graphql.ResolveParams) (interface{}, error) {
	id, err := intArg(p, "id")
	if err != nil {
		return nil, err
	}
	if author, ok := r.store.Author(id); ok {
		return author, nil
	}
	return nil, nil
}

func (r *resolver) addAuthor(p graphql.ResolveParams) (interface{}, error) {
	name, err := stringArg(p, "name")
	if err != nil {
		return nil, err
	}
	return r.store.AddAuthor(name), nil
}

func (r *resolver) addBook(p graphql.ResolveParams) (interface{}, error) {
	name, err := stringArg(p, "name")
	if err != nil {
		return nil, err
	}
	authorID, err := intArg(p, "authorId")
	if err != nil {
		return nil, err
	}
	return r.store.AddBook(name, authorID), nil
}

// authorBooks resolves Author.books.
func (r *resolver) authorBooks(p graphql.ResolveParams) (interface{}, error) {
	author, ok := p.Source.(store.Author)
	if !ok {
		return nil, fmt.Errorf("unexpected source type %T for Author", p.Source)
	}
	return r.store.BooksByAuthor(author.ID), nil
}

// bookAuthor resolves Book.authors.
func (r *resolver) bookAuthor(p graphql.ResolveParams) (interface{}, error) {
	book, ok := p.Source.(store.Book)
	if !ok {
		return nil, fmt.Errorf("unexpected source type %T for Book", p.Source)
	}
	if author, ok := r.store.Author(book.AuthorID); ok {
		return author, nil
	}
	return nil, nil
}

func intArg(p graphql.ResolveParams, name string) (int, error) {
	value, ok := p.Args[name].(int)
	if !ok {
		return 0, fmt.Errorf(`argument "%s" must be an Int, got %T`, name, p.Args[name])
	}
	return value, nil
}

func stringArg(p graphql.ResolveParams, name string) (string, error) {
	value, ok := p.Args[name].(string)
	if !ok {
		return "", fmt.Errorf(`argument "%s" must be a String, got %T`, name, p.Args[name])
	}
	return value, nil
}
