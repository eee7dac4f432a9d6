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

// Package store keeps the author and book records served by bookshelf in memory.
//
// Records are only ever appended. Identifiers are assigned as the current length of the sequence
// plus one, so they stay unique as long as nothing is removed.
package store

import (
	"sync"

	"github.com/samber/lo"
)

// Store holds two ordered sequences of records. It is safe for concurrent use.
type Store struct {
	mutex sync.RWMutex

	authors []Author
	books   []Book

	// Position of the first author/book with the given ID.
	authorByID map[int]int
	bookByID   map[int]int

	// Positions of books that reference the author ID, in store order.
	booksByAuthor map[int][]int
}

// New creates a store that holds the given records. The slices are copied.
func New(authors []Author, books []Book) *Store {
	s := &Store{
		authors:       make([]Author, 0, len(authors)),
		books:         make([]Book, 0, len(books)),
		authorByID:    make(map[int]int, len(authors)),
		bookByID:      make(map[int]int, len(books)),
		booksByAuthor: make(map[int][]int),
	}
	for _, author := range authors {
		s.appendAuthor(author)
	}
	for _, book := range books {
		s.appendBook(book)
	}
	return s
}

// appendAuthor appends author and updates indices. Caller must hold the write lock (or own s
// exclusively.)
func (s *Store) appendAuthor(author Author) {
	if _, exists := s.authorByID[author.ID]; !exists {
		s.authorByID[author.ID] = len(s.authors)
	}
	s.authors = append(s.authors, author)
}

func (s *Store) appendBook(book Book) {
	pos := len(s.books)
	if _, exists := s.bookByID[book.ID]; !exists {
		s.bookByID[book.ID] = pos
	}
	s.booksByAuthor[book.AuthorID] = append(s.booksByAuthor[book.AuthorID], pos)
	s.books = append(s.books, book)
}

// Authors returns all authors in store order.
func (s *Store) Authors() []Author {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]Author(nil), s.authors...)
}

// Books returns all books in store order.
func (s *Store) Books() []Book {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]Book(nil), s.books...)
}

// NumAuthors returns the number of authors in the store.
func (s *Store) NumAuthors() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.authors)
}

// NumBooks returns the number of books in the store.
func (s *Store) NumBooks() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.books)
}

// Author looks up the first author with the given ID. The second return value is false if there's
// no such author.
func (s *Store) Author(id int) (Author, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	pos, ok := s.authorByID[id]
	if !ok {
		return Author{}, false
	}
	return s.authors[pos], true
}

// Book looks up the first book with the given ID. The second return value is false if there's no
// such book.
func (s *Store) Book(id int) (Book, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	pos, ok := s.bookByID[id]
	if !ok {
		return Book{}, false
	}
	return s.books[pos], true
}

// BooksByAuthor returns books whose AuthorID equals authorID in store order. The result is empty
// (but not nil) when the author has no book.
func (s *Store) BooksByAuthor(authorID int) []Book {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lo.Map(s.booksByAuthor[authorID], func(pos int, _ int) Book {
		return s.books[pos]
	})
}

// AddAuthor appends an author with the given name and returns it.
func (s *Store) AddAuthor(name string) Author {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	author := Author{
		ID:   len(s.authors) + 1,
		Name: name,
	}
	s.appendAuthor(author)
	return author
}

// AddBook appends a book with the given name and author and returns it. authorID is accepted as is.
func (s *Store) AddBook(name string, authorID int) Book {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	book := Book{
		ID:       len(s.books) + 1,
		Name:     name,
		AuthorID: authorID,
	}
	s.appendBook(book)
	return book
}
