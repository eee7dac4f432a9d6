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

package store

import (
	_ "embed"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/tailscale/hujson"
)

//go:embed seed.jsonc
var seedDocument []byte

// Seed contains records to initialize a Store with.
type Seed struct {
	Authors []Author `json:"authors"`
	Books   []Book   `json:"books"`
}

// ParseSeed decodes a seed from a JSON document. Comments and trailing commas are allowed.
func ParseSeed(data []byte) (*Seed, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, errors.Wrap(err, "invalid seed document")
	}

	var seed Seed
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(standardized, &seed); err != nil {
		return nil, errors.Wrap(err, "invalid seed document")
	}

	if dups := lo.FindDuplicatesBy(seed.Authors, func(author Author) int { return author.ID }); len(dups) > 0 {
		return nil, errors.Errorf("seed contains duplicated author ID %d", dups[0].ID)
	}
	if dups := lo.FindDuplicatesBy(seed.Books, func(book Book) int { return book.ID }); len(dups) > 0 {
		return nil, errors.Errorf("seed contains duplicated book ID %d", dups[0].ID)
	}

	return &seed, nil
}

// NewFromSeed creates a store populated with the records in seed.
func NewFromSeed(seed *Seed) *Store {
	return New(seed.Authors, seed.Books)
}

// NewSeeded creates a store populated with the built-in seed data.
func NewSeeded() (*Store, error) {
	seed, err := ParseSeed(seedDocument)
	if err != nil {
		return nil, err
	}
	return NewFromSeed(seed), nil
}

// MustNewSeeded is a convenience function equivalent to NewSeeded but panics on failure instead of
// returning an error.
func MustNewSeeded() *Store {
	s, err := NewSeeded()
	if err != nil {
		panic(err)
	}
	return s
}
