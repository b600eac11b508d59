package render

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/page.html.tmpl
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/page.html.tmpl"))

type FormField struct {
	Name    string
	Label   string
	Value   string
	Error   string
	Numeric bool
}

// Page es todo lo que necesita la consola web para una vista.
type Page struct {
	Fields      []FormField
	Submitting  bool
	Message     string
	ShowResults bool
	Heading     string
	Sections    []Section
}

func (Page) ResultsTitle() string { return ResultsTitle }

func WriteHTML(w io.Writer, p Page) error {
	return pageTmpl.ExecuteTemplate(w, "page.html.tmpl", p)
}
