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
	"math"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"
	"github.com/graphql-go/graphql/language/visitor"
)

// ValidationRules returns the rules queries against the schema should be validated with: the
// standard rules plus Int32LiteralRule.
func ValidationRules() []graphql.ValidationRuleFn {
	rules := make([]graphql.ValidationRuleFn, 0, len(graphql.SpecifiedRules)+1)
	rules = append(rules, graphql.SpecifiedRules...)
	return append(rules, Int32LiteralRule)
}

// Int32LiteralRule reports integer literals given to Int positions that don't fit in 32 bits.
// graphql.Int coerces such literals without complaint.
func Int32LiteralRule(context *graphql.ValidationContext) *graphql.ValidationRuleInstance {
	visitorOpts := &visitor.VisitorOptions{
		KindFuncMap: map[string]visitor.NamedVisitFuncs{
			kinds.IntValue: {
				Kind: func(p visitor.VisitFuncParams) (string, interface{}) {
					value, ok := p.Node.(*ast.IntValue)
					if !ok || graphql.GetNullable(context.InputType()) != graphql.Int {
						return visitor.ActionNoChange, nil
					}
					if n, err := strconv.ParseInt(value.Value, 10, 64); err != nil ||
						n < math.MinInt32 || n > math.MaxInt32 {
						context.ReportError(gqlerrors.NewError(
							fmt.Sprintf("Int cannot represent non 32-bit signed integer value: %s", value.Value),
							[]ast.Node{value},
							"",
							nil,
							[]int{},
							nil,
						))
					}
					return visitor.ActionNoChange, nil
				},
			},
		},
	}
	return &graphql.ValidationRuleInstance{
		VisitorOpts: visitorOpts,
	}
}
