package backend

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/roster/core"
	"github.com/wansing/roster/util"
)

var articlesTmpl = tmpl(`<h1>Articles</h1>

	<form method="get" class="form-inline">
		<input class="form-control mr-sm-2" type="search" name="search" placeholder="Title or content" value="{{ .Filter.Search }}">
		<select class="form-control mr-sm-2" name="developer">
			<option value="">Any developer</option>
			{{ range .DeveloperOptions }}
				<option {{ if eq .ID $.Filter.DeveloperID -}} selected {{- end }} value="{{ .ID }}">{{ .Name }}</option>
			{{ end }}
		</select>
		<button type="submit" class="btn btn-secondary mr-sm-2">Filter</button>
		<a class="btn btn-primary" href="create-article">New article</a>
	</form>

	<div class="table-responsive-sm">
		<table class="table table-sm mt-3">
			<thead>
				<tr>
					<th>Title</th>
					<th>Published</th>
					<th>Developers</th>
					<th></th>
				</tr>
			</thead>
			<tbody>
				{{ range .Articles }}
					<tr>
						<td><a href="article/{{ .ID }}">{{ .Title }}</a></td>
						<td>
							{{ if .PublishedAt }}
								{{ $.FormatDateTime .PublishedAt }}
							{{ else }}
								<em>draft</em>
							{{ end }}
						</td>
						<td>{{ .DeveloperCount }}</td>
						<td>{{ $.Teaser . }}</td>
					</tr>
				{{ end }}
			</tbody>
		</table>
	</div>`)

type articlesData struct {
	*Route
	Articles         []core.DBArticle
	DeveloperOptions []core.DBDeveloper
	Filter           core.ArticleFilter
}

// Teaser extracts the beginning of the article text, without markup.
func (data *articlesData) Teaser(a core.DBArticle) string {
	return util.Trunc(util.TextContent(util.RenderMarkdown(a.Content())), 160)
}

func articles(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var filter = core.ArticleFilter{
		Search: strings.TrimSpace(req.URL.Query().Get("search")),
	}

	// non-numeric values are treated as absent
	if id, err := strconv.Atoi(strings.TrimSpace(req.URL.Query().Get("developer"))); err == nil && id > 0 {
		filter.DeveloperID = id
	}

	articles, err := r.db.GetArticles(filter)
	if err != nil {
		return err
	}

	// all developers are offered as filter options, regardless of the active filter
	developerOptions, err := r.db.GetDevelopers(core.DeveloperFilter{})
	if err != nil {
		return err
	}

	return articlesTmpl.Execute(w, &articlesData{
		Route:            r,
		Articles:         articles,
		DeveloperOptions: developerOptions,
		Filter:           filter,
	})
}
