package backend

import (
	"database/sql"
	"errors"
	"html/template"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/roster/core"
)

var ErrNotFound = errors.New("not found")

// we need the CoreDB in the handlers
type Route struct {
	*core.Request
	Prefix string // with trailing slash
	db     *core.CoreDB
}

func middleware(db *core.CoreDB, prefix string, requireLoggedIn bool, f func(http.ResponseWriter, *http.Request, *Route, httprouter.Params) error) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var r = &Route{
			Prefix:  prefix + "/",
			Request: db.NewRequest(w, req),
			db:      db,
		}
		defer r.Cleanup()

		if requireLoggedIn && !r.LoggedIn() {
			r.SeeOther("/login")
			return
		}

		if err := f(w, req, r, params); err != nil {
			// probably no template has been executed yet, so write the status and execute the error template
			switch {
			case errors.Is(err, core.ErrForbidden):
				w.WriteHeader(http.StatusForbidden)
			case errors.Is(err, ErrNotFound), errors.Is(err, sql.ErrNoRows):
				err = ErrNotFound
				w.WriteHeader(http.StatusNotFound)
			}
			errorTmpl.Execute(w, struct {
				*Route
				Err error
			}{
				Route: r,
				Err:   err,
			})
		}
	}
}

var errorTmpl = tmpl(`
	<div class="alert alert-danger" role="alert">
		{{ .Err }}
	</div>`)

// NewRouter returns the HTTP handler of the whole site.
// The prefix (without trailing slash) is only prepended to links,
// the caller is responsible for stripping it from requests.
func NewRouter(db *core.CoreDB, prefix string) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	// public
	router.GET("/", middleware(db, prefix, false, root))
	GETAndPOST("/login", middleware(db, prefix, false, login))
	GETAndPOST("/signup", middleware(db, prefix, false, signup))

	// private
	//
	// actions are path prefixes because httprouter can't mix a static path
	// like "developers/new" with a wildcard sibling like "developers/:id"
	router.GET("/logout", middleware(db, prefix, true, logout))
	router.GET("/developers", middleware(db, prefix, true, developers))
	GETAndPOST("/create-developer", middleware(db, prefix, true, developerCreate))
	GETAndPOST("/edit-developer/:id", middleware(db, prefix, true, developerEdit))
	GETAndPOST("/delete-developer/:id", middleware(db, prefix, true, developerDelete))
	router.GET("/articles", middleware(db, prefix, true, articles))
	router.GET("/article/:id", middleware(db, prefix, true, article))
	GETAndPOST("/create-article", middleware(db, prefix, true, articleCreate))
	GETAndPOST("/edit-article/:id", middleware(db, prefix, true, articleEdit))
	GETAndPOST("/delete-article/:id", middleware(db, prefix, true, articleDelete))

	return router
}

func tmpl(text string) *template.Template {
	t := template.Must(baseTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var baseTmpl = template.Must(template.New("base").Parse(`
<!DOCTYPE html>
<html>
	<head>
		<base href="{{ .Prefix }}">
		<link rel="stylesheet" type="text/css" href="static/bootstrap-4.4.1.min.css">
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
		<title>Roster</title>

		<style>

			h1 {
				font-size: 1.5rem !important;
				margin: 1rem 0 0.7rem !important;
			}

			h2 {
				font-size: 1.3rem !important;
				margin: 0.2rem 0 0.5rem !important;
			}

			textarea {
				min-height: 16rem;
				tab-size: 4;
				-moz-tab-size: 4;
			}

			.card-columns {
				margin-top: 1rem;
			}

		</style>
	</head>
	<body>

		<nav class="navbar navbar-expand-md bg-light">
			<ul class="navbar-nav">
				{{ if .LoggedIn }}
					<li class="nav-item">
						<a class="nav-link" href="developers">Developers</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="articles">Articles</a>
					</li>
					<li class="nav-item">
						<span class="nav-link text-muted">{{ .User.Name }}</span>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="logout">Logout</a>
					</li>
				{{ else }}
					<li class="nav-item">
						<a class="nav-link" href="login">Login</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="signup">Sign up</a>
					</li>
				{{ end }}
			</ul>
		</nav>

		<script>

			function normalizeSlug(widget) {
				widget.value = widget.value.toLowerCase().replace(/[^a-z0-9]+/g, '-');
			}

		</script>

		<div class="container pt-3">
			{{ .RenderNotifications }}
			{{ template "content" . }}
		</div>
	</body>
</html>`))
