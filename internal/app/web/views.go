package web

import (
	"embed"
	"html/template"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates for gin's HTML renderer
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type link struct {
	URL   string
	Label string
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

// field is one form input. Type is an HTML input type, or select,
// checkboxes or textarea.
type field struct {
	Name    string
	Label   string
	Type    string
	Value   string
	Options []option
}

type formPage struct {
	Title  string
	Action string
	Cancel string
	Submit string
	Error  string
	Fields []field
}

type listRow struct {
	URL   string
	Cells []string
}

type listPage struct {
	Title     string
	CreateURL string
	Columns   []string
	Rows      []listRow
}

type pair struct {
	Label string
	Value string
}

type section struct {
	Title string
	Items []string
}

type detailPage struct {
	Title    string
	Fields   []pair
	Sections []section
	Links    []link
}

type confirmPage struct {
	Title   string
	Message string
	Action  string
	Cancel  string
	Error   string
}

type messagePage struct {
	Title   string
	Message string
}

type homePage struct {
	Title string
	Links []link
}

func idString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func itemURL(base string, id int64) string {
	return base + strconv.FormatInt(id, 10) + "/"
}
