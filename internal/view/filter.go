package view

import (
	"fmt"
	"html/template"
	"strings"
)

type FilterKind string

const (
	FilterText   FilterKind = "text"
	FilterSelect FilterKind = "select"
)

type Option struct {
	Value string
	Label string
}

// FilterField declares one filter control. The panel is fully controlled:
// current values come from the caller (the request's query string) and every
// change round-trips through the form submit.
type FilterField struct {
	Kind        FilterKind
	Name        string
	Label       string
	Placeholder string
	Options     []Option
}

type FilterPanel struct {
	// Action is the list page path the GET form submits to; the bare path
	// doubles as the reset target.
	Action string
	Fields []FilterField
}

func (p FilterPanel) Render(values map[string]string) template.HTML {
	var b strings.Builder
	fmt.Fprintf(&b, `<form class="filter-panel" method="get" action="%s">`, template.HTMLEscapeString(p.Action))

	for _, f := range p.Fields {
		name := template.HTMLEscapeString(f.Name)
		fmt.Fprintf(&b, `<div class="filter-field"><label for="%s">%s</label>`, name, template.HTMLEscapeString(f.Label))

		switch f.Kind {
		case FilterSelect:
			fmt.Fprintf(&b, `<select id="%s" name="%s">`, name, name)
			for _, opt := range f.Options {
				selected := ""
				if opt.Value == values[f.Name] {
					selected = ` selected`
				}
				fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`,
					template.HTMLEscapeString(opt.Value), selected, template.HTMLEscapeString(opt.Label))
			}
			b.WriteString("</select>")
		default:
			fmt.Fprintf(&b, `<input type="text" id="%s" name="%s" value="%s" placeholder="%s">`,
				name, name,
				template.HTMLEscapeString(values[f.Name]),
				template.HTMLEscapeString(f.Placeholder))
		}
		b.WriteString("</div>")
	}

	fmt.Fprintf(&b, `<div class="filter-actions"><button type="submit">Apply</button><a class="filter-reset" href="%s">Clear filters</a></div>`,
		template.HTMLEscapeString(p.Action))
	b.WriteString("</form>")
	return template.HTML(b.String())
}
