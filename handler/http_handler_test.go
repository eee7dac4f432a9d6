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

package handler_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/botobag/bookshelf/handler"
	"github.com/botobag/bookshelf/schema"
	"github.com/botobag/bookshelf/store"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	jsoniter "github.com/json-iterator/go"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// countingCache records the number of lookups and insertions.
type countingCache struct {
	documents map[string]*ast.Document
	gets      int
	adds      int
}

func (c *countingCache) Get(query string) (*ast.Document, bool) {
	c.gets++
	document, ok := c.documents[query]
	return document, ok
}

func (c *countingCache) Add(query string, document *ast.Document) {
	c.adds++
	c.documents[query] = document
}

// tokenRequestBuilder rejects requests without a token before handing them to
// DefaultRequestBuilder.
type tokenRequestBuilder struct {
	handler.DefaultRequestBuilder

	calls     int
	presenter handler.ErrorPresenter
}

var errMissingToken = errors.New("missing token")

func (builder *tokenRequestBuilder) Build(r *http.Request, h handler.HTTPHandler) (*handler.Request, error) {
	builder.calls++
	builder.presenter = h.ErrorPresenter()
	if len(r.Header.Get("X-Token")) == 0 {
		return nil, errMissingToken
	}
	return builder.DefaultRequestBuilder.Build(r, h)
}

// unauthorizedErrorPresenter answers every error with 401.
type unauthorizedErrorPresenter struct {
	errs []error
}

func (presenter *unauthorizedErrorPresenter) Write(w http.ResponseWriter, err error) {
	presenter.errs = append(presenter.errs, err)
	http.Error(w, err.Error(), http.StatusUnauthorized)
}

// acceptedResultPresenter answers 202 with the number of errors in result.
type acceptedResultPresenter struct {
	results []*graphql.Result
}

func (presenter *acceptedResultPresenter) Write(
	w http.ResponseWriter,
	httpRequest *http.Request,
	graphqlRequest *handler.Request,
	result *graphql.Result) {

	presenter.results = append(presenter.results, result)
	w.WriteHeader(http.StatusAccepted)
}

type response struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func decodeResponse(w *httptest.ResponseRecorder) *response {
	var resp response
	Expect(jsoniter.Unmarshal(w.Body.Bytes(), &resp)).Should(Succeed())
	return &resp
}

var _ = Describe("HTTP handler", func() {
	var (
		s         *store.Store
		gqlSchema graphql.Schema
		h         http.Handler
	)

	postJSON := func(body string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		return r
	}

	get := func(query string) *http.Request {
		values := url.Values{}
		values.Set("query", query)
		return httptest.NewRequest(http.MethodGet, "/graphql?"+values.Encode(), nil)
	}

	BeforeEach(func() {
		s = store.MustNewSeeded()
		gqlSchema = schema.MustNew(s)

		var err error
		h, err = handler.New(&gqlSchema, handler.OverrideOperationCache(handler.NopOperationCache{}))
		Expect(err).ShouldNot(HaveOccurred())
	})

	It("requires a schema", func() {
		_, err := handler.New(nil)
		Expect(err).Should(MatchError("bookshelf/handler: must specify a schema"))
	})

	It("serves queries sent in JSON body", func() {
		w := serve(h, postJSON(`{"query": "{ book(id: 1) { name authors { name } } }"}`))
		Expect(w.Code).Should(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).Should(HavePrefix("application/json"))
		Expect(w.Body.String()).Should(MatchJSON(`{
			"data": { "book": { "name": "Book1", "authors": { "name": "Author1" } } }
		}`))
	})

	It("serves queries from URL", func() {
		w := serve(h, get("{ author(id: 2) { name books { name } } }"))
		Expect(w.Code).Should(Equal(http.StatusOK))
		Expect(w.Body.String()).Should(MatchJSON(`{
			"data": { "author": { "name": "Author2", "books": [{ "name": "Book2" }] } }
		}`))
	})

	It("passes variables and operation name", func() {
		w := serve(h, postJSON(`{
			"query": "query A { authors { id } } query B($id: Int!) { book(id: $id) { name } }",
			"operationName": "B",
			"variables": { "id": 3 }
		}`))
		Expect(w.Code).Should(Equal(http.StatusOK))
		Expect(w.Body.String()).Should(MatchJSON(`{ "data": { "book": { "name": "Book3" } } }`))
	})

	It("serves mutations and reflects them in later queries", func() {
		w := serve(h, postJSON(`{"query": "mutation { addAuthor(name: \"New\") { id name } }"}`))
		Expect(w.Code).Should(Equal(http.StatusOK))
		Expect(w.Body.String()).Should(MatchJSON(`{ "data": { "addAuthor": { "id": 3, "name": "New" } } }`))

		w = serve(h, postJSON(`{"query": "{ authors { id name } }"}`))
		Expect(w.Body.String()).Should(MatchJSON(`{
			"data": {
				"authors": [
					{ "id": 1, "name": "Author1" },
					{ "id": 2, "name": "Author2" },
					{ "id": 3, "name": "New" }
				]
			}
		}`))
	})

	It("reports not found as null", func() {
		w := serve(h, postJSON(`{"query": "{ book(id: 100) { name } }"}`))
		Expect(w.Code).Should(Equal(http.StatusOK))
		Expect(w.Body.String()).Should(MatchJSON(`{ "data": { "book": null } }`))
	})

	It("rejects arguments of wrong type", func() {
		w := serve(h, postJSON(`{"query": "{ book(id: \"abc\") }"}`))
		Expect(w.Code).Should(Equal(http.StatusBadRequest))

		resp := decodeResponse(w)
		Expect(resp.Errors).ShouldNot(BeEmpty())
		Expect(resp.Data).ShouldNot(HaveKey("book"))
	})

	It("rejects queries with syntax error", func() {
		w := serve(h, postJSON(`{"query": "{ book(id: 1) { name "}`))
		Expect(w.Code).Should(Equal(http.StatusBadRequest))
		Expect(decodeResponse(w).Errors).Should(HaveLen(1))
	})

	It("rejects empty query", func() {
		w := serve(h, postJSON(`{}`))
		Expect(w.Code).Should(Equal(http.StatusBadRequest))

		resp := decodeResponse(w)
		Expect(resp.Errors).Should(HaveLen(1))
		Expect(resp.Errors[0].Message).Should(Equal("Must provide query string."))
	})

	It("rejects unsupported methods", func() {
		w := serve(h, httptest.NewRequest(http.MethodPut, "/graphql", nil))
		Expect(w.Code).Should(Equal(http.StatusMethodNotAllowed))
		Expect(w.Header().Get("Allow")).Should(Equal("GET, POST"))
		Expect(decodeResponse(w).Errors[0].Message).Should(Equal("GraphQL only supports GET and POST requests."))
	})

	It("rejects mutations sent with GET", func() {
		w := serve(h, get(`mutation { addBook(name: "B", authorId: 1) { id } }`))
		Expect(w.Code).Should(Equal(http.StatusMethodNotAllowed))
		Expect(w.Header().Get("Allow")).Should(Equal("POST"))
		Expect(decodeResponse(w).Errors[0].Message).Should(Equal("Can only perform a mutation operation from a POST request."))
		Expect(s.NumBooks()).Should(Equal(3))
	})

	It("reports status 500 when no data can be produced", func() {
		w := serve(h, postJSON(`{"query": "query A { books { id } } query B { authors { id } }"}`))
		Expect(w.Code).Should(Equal(http.StatusInternalServerError))
		Expect(decodeResponse(w).Errors).ShouldNot(BeEmpty())
	})

	It("reuses validated documents from cache", func() {
		cache := &countingCache{
			documents: map[string]*ast.Document{},
		}
		h, err := handler.New(&gqlSchema, handler.OverrideOperationCache(cache))
		Expect(err).ShouldNot(HaveOccurred())

		for i := 0; i < 3; i++ {
			w := serve(h, postJSON(`{"query": "{ books { id } }"}`))
			Expect(w.Code).Should(Equal(http.StatusOK))
		}
		Expect(cache.gets).Should(Equal(3))
		Expect(cache.adds).Should(Equal(1))
	})

	It("doesn't cache invalid documents", func() {
		cache := &countingCache{
			documents: map[string]*ast.Document{},
		}
		h, err := handler.New(&gqlSchema, handler.OverrideOperationCache(cache))
		Expect(err).ShouldNot(HaveOccurred())

		serve(h, postJSON(`{"query": "{ unknown }"}`))
		Expect(cache.adds).Should(Equal(0))
	})

	It("closes its default operation cache", func() {
		h, err := handler.New(&gqlSchema)
		Expect(err).ShouldNot(HaveOccurred())

		closer, ok := h.(io.Closer)
		Expect(ok).Should(BeTrue())
		Expect(closer.Close()).Should(Succeed())
		// Closing again is harmless.
		Expect(closer.Close()).Should(Succeed())
	})

	It("leaves a supplied operation cache to its owner", func() {
		cache, err := handler.NewBoundedOperationCache(8)
		Expect(err).ShouldNot(HaveOccurred())
		defer cache.Close()

		h, err := handler.New(&gqlSchema, handler.OverrideOperationCache(cache))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(h.(io.Closer).Close()).Should(Succeed())

		document, err := parser.Parse(parser.ParseParams{Source: "{ books { id } }"})
		Expect(err).ShouldNot(HaveOccurred())
		cache.Add("{ books { id } }", document)
		Eventually(func() bool {
			_, ok := cache.Get("{ books { id } }")
			return ok
		}).Should(BeTrue())
	})

	Describe("validation rules", func() {
		BeforeEach(func() {
			var err error
			h, err = handler.New(&gqlSchema,
				handler.OverrideOperationCache(handler.NopOperationCache{}),
				handler.ValidationRules(schema.ValidationRules()))
			Expect(err).ShouldNot(HaveOccurred())
		})

		It("rejects Int literals beyond 32 bits", func() {
			w := serve(h, postJSON(`{"query": "{ book(id: 3000000000) { name } }"}`))
			Expect(w.Code).Should(Equal(http.StatusBadRequest))

			resp := decodeResponse(w)
			Expect(resp.Errors).Should(HaveLen(1))
			Expect(resp.Errors[0].Message).Should(Equal(
				"Int cannot represent non 32-bit signed integer value: 3000000000"))
			Expect(resp.Data).ShouldNot(HaveKey("book"))
		})

		It("still resolves the largest 32-bit ID to null", func() {
			w := serve(h, postJSON(`{"query": "{ book(id: 2147483647) { name } }"}`))
			Expect(w.Code).Should(Equal(http.StatusOK))
			Expect(w.Body.String()).Should(MatchJSON(`{ "data": { "book": null } }`))
		})
	})

	Describe("customization", func() {
		var (
			builder         *tokenRequestBuilder
			errorPresenter  *unauthorizedErrorPresenter
			resultPresenter *acceptedResultPresenter
		)

		BeforeEach(func() {
			builder = &tokenRequestBuilder{
				DefaultRequestBuilder: handler.DefaultRequestBuilder{
					Config: &handler.DefaultRequestBuilderConfig{
						HTTPRequestParserOptions: handler.ParseHTTPRequestOptions{
							MaxBodySize: 1 << 10,
						},
					},
				},
			}
			errorPresenter = &unauthorizedErrorPresenter{}
			resultPresenter = &acceptedResultPresenter{}

			var err error
			h, err = handler.New(&gqlSchema,
				handler.OverrideOperationCache(handler.NopOperationCache{}),
				handler.OverrideRequestBuilder(builder),
				handler.OverrideErrorPresenter(errorPresenter),
				handler.OverrideResultPresenter(resultPresenter))
			Expect(err).ShouldNot(HaveOccurred())
		})

		It("builds requests with the given builder", func() {
			serve(h, postJSON(`{"query": "{ books { id } }"}`))
			Expect(builder.calls).Should(Equal(1))
			Expect(builder.presenter).Should(BeIdenticalTo(errorPresenter))
		})

		It("presents build errors with the given error presenter", func() {
			w := serve(h, postJSON(`{"query": "{ books { id } }"}`))
			Expect(w.Code).Should(Equal(http.StatusUnauthorized))
			Expect(errorPresenter.errs).Should(Equal([]error{errMissingToken}))
			Expect(resultPresenter.results).Should(BeEmpty())
		})

		It("presents results with the given result presenter", func() {
			r := postJSON(`{"query": "{ book(id: 1) { name } }"}`)
			r.Header.Set("X-Token", "secret")

			w := serve(h, r)
			Expect(w.Code).Should(Equal(http.StatusAccepted))
			Expect(errorPresenter.errs).Should(BeEmpty())
			Expect(resultPresenter.results).Should(HaveLen(1))
			Expect(resultPresenter.results[0].Data).Should(Equal(map[string]interface{}{
				"book": map[string]interface{}{"name": "Book1"},
			}))
		})
	})

	Describe("GraphiQL", func() {
		browserGet := func(target string) *http.Request {
			r := httptest.NewRequest(http.MethodGet, target, nil)
			r.Header.Set("Accept", "text/html,application/xhtml+xml")
			return r
		}

		It("renders explorer for browsers", func() {
			h, err := handler.New(&gqlSchema, handler.GraphiQL(true))
			Expect(err).ShouldNot(HaveOccurred())

			w := serve(h, browserGet("/graphql?query=%7B+books+%7B+id+%7D+%7D"))
			Expect(w.Code).Should(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).Should(HavePrefix("text/html"))
			Expect(w.Body.String()).Should(ContainSubstring("graphiql"))
			Expect(w.Body.String()).Should(ContainSubstring(`"{ books { id } }"`))
		})

		It("serves JSON when raw is requested", func() {
			h, err := handler.New(&gqlSchema, handler.GraphiQL(true))
			Expect(err).ShouldNot(HaveOccurred())

			w := serve(h, browserGet("/graphql?raw&query=%7B+books+%7B+id+%7D+%7D"))
			Expect(w.Header().Get("Content-Type")).Should(HavePrefix("application/json"))
		})

		It("serves JSON to clients preferring it", func() {
			h, err := handler.New(&gqlSchema, handler.GraphiQL(true))
			Expect(err).ShouldNot(HaveOccurred())

			for _, accept := range []string{
				"application/json, text/html",
				"*/*",
				"text/html;q=0.5, application/json",
			} {
				r := httptest.NewRequest(http.MethodGet, "/graphql?query=%7B+books+%7B+id+%7D+%7D", nil)
				r.Header.Set("Accept", accept)
				w := serve(h, r)
				Expect(w.Header().Get("Content-Type")).Should(HavePrefix("application/json"), accept)
			}
		})

		It("renders explorer when HTML is preferred", func() {
			h, err := handler.New(&gqlSchema, handler.GraphiQL(true))
			Expect(err).ShouldNot(HaveOccurred())

			for _, accept := range []string{
				"application/json;q=0.5, text/html",
				"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			} {
				r := httptest.NewRequest(http.MethodGet, "/graphql", nil)
				r.Header.Set("Accept", accept)
				w := serve(h, r)
				Expect(w.Header().Get("Content-Type")).Should(HavePrefix("text/html"), accept)
			}
		})

		It("is disabled by default", func() {
			w := serve(h, browserGet("/graphql"))
			Expect(w.Code).Should(Equal(http.StatusBadRequest))
		})
	})
})
