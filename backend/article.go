package backend

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/roster/core"
	"github.com/wansing/roster/util"
)

var articleTmpl = tmpl(`<h1>{{ .Article.Title }}</h1>

	<p class="text-muted">
		{{ if .Article.PublishedAt }}
			published {{ .FormatDateTime .Article.PublishedAt }}
		{{ else }}
			<em>draft</em>, created {{ .FormatDateTime .Article.TsCreated }}
		{{ end }}
		&middot; /{{ .Article.Slug }}
	</p>

	{{ if .CanWrite }}
		<p>
			<a class="btn btn-secondary" href="edit-article/{{ .Article.ID }}">Edit</a>
			<a class="btn btn-danger" href="delete-article/{{ .Article.ID }}">Delete</a>
		</p>
	{{ end }}

	{{ with .Article.CoverImage }}
		<p>
			<img class="img-fluid" src="covers/{{ $.Article.ID }}/{{ . }}" alt="">
		</p>
	{{ end }}

	{{ .Content }}

	{{ with .Developers }}
		<h2>Developers</h2>
		<ul>
			{{ range . }}
				<li>{{ .Name }} ({{ .Seniority.Label }})</li>
			{{ end }}
		</ul>
	{{ end }}`)

type articleData struct {
	*Route
	Article    core.DBArticle
	Developers []core.DBDeveloper
}

func (data *articleData) CanWrite() bool {
	return core.RequireArticleWrite(data.User, data.Article) == nil
}

// Content renders the article content as markdown.
func (data *articleData) Content() template.HTML {
	return template.HTML(util.RenderMarkdown(data.Article.Content()))
}

func article(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	id, err := idParam(params)
	if err != nil {
		return err
	}

	// any logged-in user can read any article
	article, err := r.db.GetArticle(id)
	if err != nil {
		return err
	}

	developers, err := r.db.GetArticleDevelopers(article.ID())
	if err != nil {
		return fmt.Errorf("loading developers of article %d: %w", article.ID(), err)
	}

	return articleTmpl.Execute(w, &articleData{
		Route:      r,
		Article:    article,
		Developers: developers,
	})
}
