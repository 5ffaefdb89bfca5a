package parser

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ctyToInterface converts a cty.Value to a JSON-marshalable Go value
func ctyToInterface(val cty.Value) interface{} {
	if val.IsNull() || !val.IsKnown() {
		return nil
	}

	ty := val.Type()
	switch ty {
	case cty.String:
		return val.AsString()
	case cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f
	case cty.Bool:
		return val.True()
	}

	if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
		list := make([]interface{}, 0, val.LengthInt())
		it := val.ElementIterator()
		for it.Next() {
			_, v := it.Element()
			list = append(list, ctyToInterface(v))
		}
		return list
	}

	if ty.IsMapType() || ty.IsObjectType() {
		m := make(map[string]interface{})
		it := val.ElementIterator()
		for it.Next() {
			k, v := it.Element()
			m[camelKey(k.AsString())] = ctyToInterface(v)
		}
		return m
	}

	return nil
}

// camelKey turns an HCL attribute name into its JSON field name,
// e.g. "stroke_color" -> "strokeColor"
func camelKey(name string) string {
	if !strings.Contains(name, "_") {
		return name
	}

	parts := strings.Split(name, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
