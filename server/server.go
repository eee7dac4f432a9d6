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

// Package server runs the bookshelf HTTP service: the GraphQL endpoint at /graphql and a greeting
// at /.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime/debug"

	"github.com/botobag/bookshelf/handler"
	"github.com/botobag/bookshelf/schema"
	"github.com/botobag/bookshelf/store"

	"github.com/golang/glog"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// GraphQLPath is where the GraphQL endpoint is mounted.
	GraphQLPath = "/graphql"
)

// Server serves GraphQL requests against a store.
type Server struct {
	config  Config
	handler http.Handler

	// Releases resources held by the GraphQL handler
	graphqlCloser io.Closer
}

// New creates a server for s.
func New(config Config, s *store.Store) (*Server, error) {
	gqlSchema, err := schema.New(s)
	if err != nil {
		return nil, err
	}

	graphqlHandler, err := handler.New(&gqlSchema,
		handler.GraphiQL(config.GraphiQL),
		handler.MaxBodySize(config.MaxBodySize),
		handler.OperationCacheSize(config.OperationCacheSize),
		handler.ValidationRules(schema.ValidationRules()))
	if err != nil {
		return nil, errors.Wrap(err, "create GraphQL handler")
	}

	mux := http.NewServeMux()
	mux.Handle(GraphQLPath, graphqlHandler)
	mux.HandleFunc("GET /{$}", greet)

	srv := &Server{
		config:  config,
		handler: recoveryHandler(mux),
	}
	if closer, ok := graphqlHandler.(io.Closer); ok {
		srv.graphqlCloser = closer
	}
	return srv, nil
}

// Close releases resources held by the server. Serve calls it on return; servers that are only
// used through Handler should call it when done. The server must not be used afterwards.
func (s *Server) Close() error {
	if s.graphqlCloser == nil {
		return nil
	}
	return s.graphqlCloser.Close()
}

// Handler returns the root handler of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured port and serves until ctx is done. It then waits up to
// ShutdownTimeout for in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		s.Close()
		return errors.Wrapf(err, "listen on port %d", s.config.Port)
	}
	return s.Serve(ctx, listener)
}

// Serve is like Run but accepts connections from the given listener. The listener and the server
// are closed on return.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	defer s.Close()

	httpServer := &http.Server{
		Handler: s.handler,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		glog.Infof("graphql server is running at %s", listener.Addr())
		if err := httpServer.Serve(listener); err != http.ErrServerClosed {
			return errors.Wrap(err, "serve")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		glog.Infof("Shutting down graphql server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return errors.Wrap(httpServer.Shutdown(shutdownCtx), "shutdown")
	})

	return g.Wait()
}

// greet replies the static greeting at the root path.
func greet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := jsoniter.NewEncoder(w).Encode(map[string]string{"msg": "Hello world"}); err != nil {
		glog.Errorf("Unable to write greeting: %v", err)
	}
}

// recoveryHandler turns a panic in next into a 500 response instead of dropping the connection.
func recoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				glog.Errorf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				http.Error(w, http.StatusText(http.StatusInternalServerError),
					http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
