package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	applog "github.com/elpatron68/todo-web/internal/log"
	"github.com/elpatron68/todo-web/internal/todo"
)

//go:embed templates/*.html static/js/*.js
var assetsFS embed.FS

func staticFS() fs.FS {
	sub, err := fs.Sub(assetsFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var templateFuncs = template.FuncMap{
	"markdown": renderMarkdown,
}

func parsePage(name string) *template.Template {
	return template.Must(template.New("layout.html").Funcs(templateFuncs).
		ParseFS(assetsFS, "templates/layout.html", "templates/"+name))
}

// renderMarkdown renders task text as inline markdown. Raw HTML is dropped.
func renderMarkdown(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.SkipHTML | mdhtml.Safelink | mdhtml.HrefTargetBlank | mdhtml.NoopenerLinks,
	})
	out := bytes.TrimSpace(markdown.ToHTML([]byte(src), p, r))
	// single paragraph -> inline
	if bytes.HasPrefix(out, []byte("<p>")) && bytes.HasSuffix(out, []byte("</p>")) &&
		bytes.Count(out, []byte("<p>")) == 1 {
		out = out[len("<p>") : len(out)-len("</p>")]
	}
	return template.HTML(out)
}

type rowView struct {
	todo.Todo
	Visible   bool
	IsOverdue bool
}

type activityView struct{ When, Action, Detail string }

type pageData struct {
	Title        string
	Page         string
	User         string
	Flash        *flash
	CSRFToken    string
	ShowActivity bool
	Activity     []activityView
	ReturnURL    string

	// list page
	Warning  string
	Active   todo.Status
	Statuses []todo.Status
	Counts   map[todo.Status]int
	Rows     []rowView

	// edit page
	Todo todo.Todo
}

func buildRows(todos []todo.Todo, status todo.Status, now time.Time) []rowView {
	rows := make([]rowView, 0, len(todos))
	for _, t := range todos {
		rows = append(rows, rowView{Todo: t, Visible: status.Shows(t.Completed), IsOverdue: t.Overdue(now)})
	}
	return rows
}

func (s *Server) render(w http.ResponseWriter, tpl *template.Template, data pageData) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		applog.Errorf("render %s: %v", data.Page, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
