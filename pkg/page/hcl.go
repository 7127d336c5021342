package page

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/jml-dev/jml/pkg/model"
)

// DecodeHCL decodes an HCL page. Attributes and blocks become stations in
// source order. A block's labels, when present, replace its type as the
// station; repeated stations collect into a sequence.
//
//	title = "Deck"
//	css = { h1 = { color = "navy" } }
//
//	section "hero.big" {
//	  h1 = upper("cards")
//	  p  = ["one", "two"]
//	}
func DecodeHCL(filename string, data []byte) (model.Object, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("unexpected body type %T", file.Body)
	}
	return decodeBody(body, evalContext())
}

// evalContext exposes a few string and collection functions to page
// expressions.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"join":   stdlib.JoinFunc,
			"format": stdlib.FormatFunc,
			"concat": stdlib.ConcatFunc,
			"range":  stdlib.RangeFunc,
		},
	}
}

type item struct {
	offset int
	key    string
	value  func() (any, error)
}

func decodeBody(body *hclsyntax.Body, ctx *hcl.EvalContext) (model.Object, error) {
	items := make([]item, 0, len(body.Attributes)+len(body.Blocks))
	for name, attr := range body.Attributes {
		expr := attr.Expr
		items = append(items, item{
			offset: attr.SrcRange.Start.Byte,
			key:    name,
			value:  func() (any, error) { return decodeExpr(expr, ctx) },
		})
	}
	for _, block := range body.Blocks {
		b := block
		key := b.Type
		if len(b.Labels) > 0 {
			key = b.Labels[0]
			for _, l := range b.Labels[1:] {
				key += "." + l
			}
		}
		items = append(items, item{
			offset: b.TypeRange.Start.Byte,
			key:    key,
			value:  func() (any, error) { return decodeBody(b.Body, ctx) },
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].offset < items[j].offset })

	var out model.Object
	for _, it := range items {
		v, err := it.value()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", it.key, err)
		}
		prev, exists := out.Get(it.key)
		if !exists {
			out = append(out, model.Entry{Key: it.key, Value: v})
			continue
		}
		list, isList := prev.([]any)
		if !isList {
			list = []any{prev}
		}
		out = out.Set(it.key, append(list, v))
	}
	return out, nil
}

// decodeExpr keeps the source order of object constructors, which cty
// values do not preserve.
func decodeExpr(expr hclsyntax.Expression, ctx *hcl.EvalContext) (any, error) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		out := make(model.Object, 0, len(e.Items))
		for _, it := range e.Items {
			k, diags := it.KeyExpr.Value(ctx)
			if diags.HasErrors() {
				return nil, diags
			}
			if k.IsNull() || !k.Type().Equals(cty.String) {
				return nil, fmt.Errorf("object key must be a string")
			}
			v, err := decodeExpr(it.ValueExpr, ctx)
			if err != nil {
				return nil, err
			}
			out = out.Set(k.AsString(), v)
		}
		return out, nil
	case *hclsyntax.TupleConsExpr:
		out := make([]any, 0, len(e.Exprs))
		for _, x := range e.Exprs {
			v, err := decodeExpr(x, ctx)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	v, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return nil, diags
	}
	return fromCty(v)
}

// fromCty converts a cty value to a model value. Whole numbers become
// int, others float64.
func fromCty(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return int(i), nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			x, err := fromCty(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, x)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		var out model.Object
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			x, err := fromCty(ev)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k.AsString(), err)
			}
			out = append(out, model.Entry{Key: k.AsString(), Value: x})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
