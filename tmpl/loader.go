package tmpl

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates
var files embed.FS

// Templates holds all page templates, keyed by page name.
type Templates struct {
	pages map[string]*template.Template
}

// ExecuteTemplate renders a page template by name through the layout.
func (t *Templates) ExecuteTemplate(w io.Writer, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Load parses all templates. Each page template gets its own clone of the
// layout so {{define "content"}} doesn't collide.
func Load() (*Templates, error) {
	funcMap := template.FuncMap{
		// Formatting
		"commas":     Commas,
		"hoursMins":  HoursMinutes,
		"fixed1":     func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) },
		"round":      func(f float64) string { return strconv.FormatFloat(f, 'f', 0, 64) },
		"capitalize": Capitalize,

		// Progress bars are capped at 100% wide.
		"pctWidth": func(p int) template.CSS {
			return template.CSS(fmt.Sprintf("width:%d%%", min(max(p, 0), 100)))
		},
	}

	base, err := template.New("base").Funcs(funcMap).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pageFiles, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob page templates: %w", err)
	}

	pages := map[string]*template.Template{}
	for _, f := range pageFiles {
		name := path.Base(f)
		if name == "layout.html" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := clone.ParseFS(files, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = clone
	}
	return &Templates{pages: pages}, nil
}

// printer groups digits the way the dashboard displays them.
var printer = message.NewPrinter(language.AmericanEnglish)

// Commas formats n with thousands separators.
func Commas(n int) string {
	return printer.Sprintf("%d", n)
}

// HoursMinutes renders minutes as "2h 15m".
func HoursMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// Capitalize upper-cases the first letter of a label and leaves the rest.
func Capitalize(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}
