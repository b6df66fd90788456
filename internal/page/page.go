// Package page filters the task rows of a rendered list page.
//
// A row is any element whose class list contains RowClass. Its completion
// state is the checked attribute of the first checkbox input inside it, and
// its visibility is the inline display style ("flex" shown, "none" hidden).
package page

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/elpatron68/todo-web/internal/todo"
)

const (
	RowClass    = "list-group-item"
	DisplayShow = "flex"
	DisplayHide = "none"
)

type Document struct {
	root *html.Node
}

// Row is a snapshot of one rendered task row.
type Row struct {
	ID          string
	Text        string
	Checked     bool
	Visible     bool
	HasCheckbox bool

	node     *html.Node
	checkbox *html.Node
}

func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Document{root: root}, nil
}

// Rows queries the document for task rows on every call.
func (d *Document) Rows() []Row {
	var rows []Row
	walk(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || !hasClass(n, RowClass) {
			return true
		}
		rows = append(rows, newRow(n))
		// rows do not nest
		return false
	})
	return rows
}

// Visible returns the rows currently shown.
func (d *Document) Visible() []Row {
	var out []Row
	for _, r := range d.Rows() {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

// Filter shows or hides every row according to status and its checkbox.
// Rows without a checkbox are left as they are. An unrecognised status
// changes nothing and returns todo.ErrUnknownStatus.
func (d *Document) Filter(status string) error {
	st, err := todo.ParseStatus(status)
	if err != nil {
		return err
	}
	for _, r := range d.Rows() {
		if !r.HasCheckbox {
			continue
		}
		if st.Shows(r.Checked) {
			setDisplay(r.node, DisplayShow)
		} else {
			setDisplay(r.node, DisplayHide)
		}
	}
	return nil
}

func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func newRow(n *html.Node) Row {
	r := Row{ID: attr(n, "data-id"), node: n, Visible: displayOf(n) != DisplayHide}
	walk(n, func(c *html.Node) bool {
		if r.checkbox != nil {
			return false
		}
		if c.Type == html.ElementNode && c.Data == "input" && strings.EqualFold(attr(c, "type"), "checkbox") {
			r.checkbox = c
			return false
		}
		return true
	})
	if r.checkbox != nil {
		r.HasCheckbox = true
		r.Checked = hasAttr(r.checkbox, "checked")
	}
	textNode := n
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && hasClass(c, "task-text") {
			textNode = c
			return false
		}
		return true
	})
	r.Text = strings.Join(strings.Fields(textContent(textNode)), " ")
	return r
}

// walk visits n and its descendants depth-first; fn returning false skips
// the children of the visited node.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
		return true
	})
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
