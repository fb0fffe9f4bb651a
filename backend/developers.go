package backend

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/roster/core"
)

var developersTmpl = tmpl(`<h1>Developers</h1>

	<form method="get" class="form-inline">
		<input class="form-control mr-sm-2" type="search" name="search" placeholder="Name or email" value="{{ .Filter.Search }}">
		<select class="form-control mr-sm-2" name="seniority">
			<option value="">Any seniority</option>
			{{ range .Seniorities }}
				<option {{ if eq (print .) $.Filter.Seniority -}} selected {{- end }} value="{{ . }}">{{ .Label }}</option>
			{{ end }}
		</select>
		<input class="form-control mr-sm-2" type="search" name="skill" placeholder="Skill" value="{{ .Filter.Skill }}">
		<button type="submit" class="btn btn-secondary mr-sm-2">Filter</button>
		<a class="btn btn-primary" href="create-developer">New developer</a>
	</form>

	<div class="card-columns" id="developer-cards">
		{{ .Cards }}
	</div>`)

type developersData struct {
	*Route
	Developers []core.DBDeveloper
	Filter     core.DeveloperFilter
}

func (data *developersData) Seniorities() []core.Seniority {
	return core.Seniorities
}

// Cards renders the developer cards. They are built here rather than in the
// template because the fragment response uses them as well.
func (data *developersData) Cards() template.HTML {

	w := &bytes.Buffer{}

	for _, d := range data.Developers {

		w.WriteString(`<div class="card">
			<div class="card-body">
				<h5 class="card-title">` + template.HTMLEscapeString(d.Name()) + `</h5>
				<h6 class="card-subtitle mb-2 text-muted">` + d.Seniority().Label() + ` &middot; ` + template.HTMLEscapeString(d.Mail()) + `</h6>`)

		if skills := d.Skills(); len(skills) > 0 {
			w.WriteString(`<p class="card-text">` + template.HTMLEscapeString(strings.Join(skills, ", ")) + `</p>`)
		}

		w.WriteString(`<p class="card-text">` + fmt.Sprintf("%d articles", d.ArticleCount()) + `</p>`)

		if data.LoggedIn() && data.User.ID() == d.UserID() {
			w.WriteString(fmt.Sprintf(`
				<a class="card-link" href="edit-developer/%d">Edit</a>
				<a class="card-link" href="delete-developer/%d">Delete</a>`, d.ID(), d.ID()))
		}

		w.WriteString(`
			</div>
		</div>`)
	}

	return template.HTML(w.String())
}

func developers(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var filter = core.DeveloperFilter{
		Search:    strings.TrimSpace(req.URL.Query().Get("search")),
		Seniority: strings.TrimSpace(req.URL.Query().Get("seniority")),
		Skill:     strings.TrimSpace(req.URL.Query().Get("skill")),
	}

	developers, err := r.db.GetDevelopers(filter)
	if err != nil {
		return err
	}

	var data = &developersData{
		Route:      r,
		Developers: developers,
		Filter:     filter,
	}

	// htmx-style live filtering replaces the card container only
	if req.Header.Get("HX-Request") != "" {
		_, err := w.Write([]byte(data.Cards()))
		return err
	}

	return developersTmpl.Execute(w, data)
}
