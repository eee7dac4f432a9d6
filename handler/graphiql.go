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
	"html/template"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// wantsGraphiQL returns true if r is sent by a browser that prefers an HTML page over JSON. Adding
// "raw" to the URL parameters forces a JSON response.
func wantsGraphiQL(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	values, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return false
	}
	if _, raw := values["raw"]; raw {
		return false
	}
	return preferredMediaType(r.Header.Get("Accept"), "application/json", "text/html") == "text/html"
}

// acceptRange is an entry of an Accept header.
type acceptRange struct {
	mediaType string
	quality   float64
}

// specificity of a range against offer: 0 if it doesn't match, 1 for "*/*", 2 for "type/*" and 3
// for an exact match.
func (r acceptRange) specificity(offer string) int {
	switch {
	case r.mediaType == offer:
		return 3
	case strings.HasSuffix(r.mediaType, "/*") &&
		strings.HasPrefix(offer, strings.TrimSuffix(r.mediaType, "*")):
		return 2
	case r.mediaType == "*/*":
		return 1
	}
	return 0
}

func parseAccept(header string) []acceptRange {
	var ranges []acceptRange
	for _, part := range strings.Split(header, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		quality := 1.0
		if q, ok := params["q"]; ok {
			if quality, err = strconv.ParseFloat(q, 64); err != nil {
				continue
			}
		}
		ranges = append(ranges, acceptRange{mediaType, quality})
	}
	return ranges
}

// preferredMediaType picks the offer the client likes most according to the Accept header: the
// highest quality wins, then the more specific range, then the range listed first, then the offer
// listed first. An empty header accepts the first offer. It returns "" if nothing is acceptable.
func preferredMediaType(header string, offers ...string) string {
	if strings.TrimSpace(header) == "" {
		return offers[0]
	}
	ranges := parseAccept(header)

	var (
		best            string
		bestQuality     float64
		bestSpecificity int
		bestIndex       int
	)
	for _, offer := range offers {
		quality, specificity, index := 0.0, 0, -1
		for i, r := range ranges {
			if s := r.specificity(offer); s > specificity {
				quality, specificity, index = r.quality, s, i
			}
		}
		if specificity == 0 || quality <= 0 {
			continue
		}
		if len(best) == 0 ||
			quality > bestQuality ||
			(quality == bestQuality && specificity > bestSpecificity) ||
			(quality == bestQuality && specificity == bestSpecificity && index < bestIndex) {
			best, bestQuality, bestSpecificity, bestIndex = offer, quality, specificity, index
		}
	}
	return best
}

type graphiqlData struct {
	Query         string
	Variables     string
	OperationName string
}

// renderGraphiQL writes the explorer page, prefilled with the query parameters of r.
func renderGraphiQL(w http.ResponseWriter, r *http.Request) {
	values, _ := url.ParseQuery(r.URL.RawQuery)
	data := graphiqlData{
		Query:         values.Get("query"),
		Variables:     values.Get("variables"),
		OperationName: values.Get("operationName"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := graphiqlTemplate.Execute(w, data); err != nil {
		glog.Errorf("Unable to render GraphiQL: %v", err)
	}
}

var graphiqlTemplate = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8" />
  <title>GraphiQL</title>
  <meta name="robots" content="noindex" />
  <style>
    body { height: 100%; margin: 0; width: 100%; overflow: hidden; }
    #graphiql { height: 100vh; }
  </style>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
</head>
<body>
  <div id="graphiql">Loading...</div>
  <script>
    var parameters = {
      query: {{.Query}},
      variables: {{.Variables}},
      operationName: {{.OperationName}}
    };

    function updateURL() {
      var params = new URLSearchParams();
      Object.keys(parameters).forEach(function (key) {
        if (parameters[key]) {
          params.set(key, parameters[key]);
        }
      });
      history.replaceState(null, null, "?" + params.toString());
    }

    var fetcher = GraphiQL.createFetcher({ url: window.location.pathname });

    ReactDOM.createRoot(document.getElementById("graphiql")).render(
      React.createElement(GraphiQL, {
        fetcher: fetcher,
        query: parameters.query || undefined,
        variables: parameters.variables || undefined,
        operationName: parameters.operationName || undefined,
        onEditQuery: function (value) { parameters.query = value; updateURL(); },
        onEditVariables: function (value) { parameters.variables = value; updateURL(); },
        onEditOperationName: function (value) { parameters.operationName = value; updateURL(); }
      })
    );
  </script>
</body>
</html>
`))
