// Package view renders the shared HTML fragments every page composes:
// column-driven tables, declarative filter panels and status badges.
package view

import (
	"fmt"
	"html/template"
	"reflect"
	"strconv"
	"strings"
)

// Placeholder substitutes missing or nil cell values.
const Placeholder = "—"

// Column describes one table column. Render, when set, produces the cell
// fragment; otherwise the value is looked up on the row by Key (json tag or
// field name) and coerced to text.
type Column[T any] struct {
	Key    string
	Header string
	Render func(T) template.HTML
}

// RenderTable renders rows in input order. A nil or empty row slice renders
// an explicit empty state instead of failing.
func RenderTable[T any](rows []T, cols []Column[T]) template.HTML {
	var b strings.Builder
	b.WriteString(`<table class="data-table"><thead><tr>`)
	for _, col := range cols {
		b.WriteString("<th>")
		b.WriteString(template.HTMLEscapeString(col.Header))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")

	if len(rows) == 0 {
		fmt.Fprintf(&b, `<tr><td class="empty" colspan="%d">No data available</td></tr>`, len(cols))
	}

	for i, row := range rows {
		fmt.Fprintf(&b, `<tr data-key="%s">`, template.HTMLEscapeString(rowKey(row, i)))
		for _, col := range cols {
			b.WriteString("<td>")
			if col.Render != nil {
				b.WriteString(string(col.Render(row)))
			} else {
				b.WriteString(template.HTMLEscapeString(fieldText(row, col.Key)))
			}
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}

	b.WriteString("</tbody></table>")
	return template.HTML(b.String())
}

// rowKey prefers the row's id field; index keying is the fallback and is
// known to degrade when rows reorder.
func rowKey[T any](row T, index int) string {
	if v, ok := lookupField(reflect.ValueOf(row), "id"); ok {
		if text := formatValue(v); text != Placeholder && text != "" && text != "0" {
			return text
		}
	}
	return strconv.Itoa(index)
}

func fieldText[T any](row T, key string) string {
	v, ok := lookupField(reflect.ValueOf(row), key)
	if !ok {
		return Placeholder
	}
	return formatValue(v)
}

func lookupField(v reflect.Value, key string) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if tag == key || strings.EqualFold(f.Name, key) {
				return v.Field(i), true
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			mv := v.MapIndex(reflect.ValueOf(key))
			if mv.IsValid() {
				return mv, true
			}
		}
	}
	return reflect.Value{}, false
}

func formatValue(v reflect.Value) string {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return Placeholder
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Invalid:
		return Placeholder
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
