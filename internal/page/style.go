package page

import (
	"strings"

	"golang.org/x/net/html"
)

type declaration struct{ prop, value string }

func parseStyle(s string) []declaration {
	var out []declaration
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		out = append(out, declaration{prop: prop, value: strings.TrimSpace(value)})
	}
	return out
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+":"+d.value)
	}
	return strings.Join(parts, ";")
}

func displayOf(n *html.Node) string {
	display := ""
	for _, d := range parseStyle(attr(n, "style")) {
		if d.prop == "display" {
			display = strings.ToLower(d.value)
		}
	}
	return display
}

// setDisplay replaces the inline display value and keeps other declarations.
func setDisplay(n *html.Node, value string) {
	decls := parseStyle(attr(n, "style"))
	kept := decls[:0]
	for _, d := range decls {
		if d.prop != "display" {
			kept = append(kept, d)
		}
	}
	kept = append(kept, declaration{prop: "display", value: value})
	style := formatStyle(kept)
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, "style") {
			n.Attr[i].Val = style
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: style})
}
