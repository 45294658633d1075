// Package views renders the dashboard's HTML from embedded templates.
package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/types"
)

//go:embed templates
var viewsFS embed.FS

var indexTmpl *template.Template

// funcs render NULL-able columns: nil prints as the empty cell.
var funcs = template.FuncMap{
	"fmtFloat": func(f *float64, prec int) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', prec, 64)
	},
	"fmtInt": func(i *int) string {
		if i == nil {
			return ""
		}
		return strconv.Itoa(*i)
	},
	"strVal": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"boolVal": func(b *bool) bool {
		return b != nil && *b
	},
}

// loadTemplatesFromFS loads dashboard templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	indexTmpl, err = template.New("").Funcs(funcs).ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded dashboard templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// IndexData is the view model for the readings browser.
type IndexData struct {
	Readings      []types.Reading
	Page          int
	PageSize      int
	Total         int
	TotalPages    int
	HasPrev       bool
	HasNext       bool
	PrevPage      int
	NextPage      int
	OnlyUnlabeled bool
	Flash         string
}

func RenderIndex(w io.Writer, data IndexData) error {
	if indexTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return indexTmpl.ExecuteTemplate(w, "index.html", data)
}
