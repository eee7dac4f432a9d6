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

package server

import (
	"time"
)

// Config specifies settings of a Server.
type Config struct {
	// Port to listen on
	Port int

	// Serve the in-browser query explorer on the GraphQL endpoint
	GraphiQL bool

	// Maximum number of bytes read from a request body
	MaxBodySize uint

	// Number of parsed queries kept in cache
	OperationCacheSize int64

	// Time allowed for in-flight requests to finish on shutdown
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Port:               5000,
		GraphiQL:           true,
		MaxBodySize:        10 << 20,
		OperationCacheSize: 512,
		ShutdownTimeout:    5 * time.Second,
	}
}
