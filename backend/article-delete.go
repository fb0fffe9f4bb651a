package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/roster/core"
)

var articleDeleteTmpl = tmpl(`<h1>Delete {{ .Article.Title }}</h1>

	<p>
		<a class="btn btn-secondary" href="article/{{ .Article.ID }}">Cancel</a>
	</p>

	<form method="post">
		<input type="submit" class="btn btn-danger" name="delete" value="Delete">
	</form>`)

type articleDeleteData struct {
	*Route
	Article core.DBArticle
}

func articleDelete(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	id, err := idParam(params)
	if err != nil {
		return err
	}

	article, err := r.db.GetArticle(id)
	if err != nil {
		return err
	}

	// owner or superuser, everybody else gets an explicit forbidden
	if err := core.RequireArticleWrite(r.User, article); err != nil {
		return err
	}

	if req.PostFormValue("delete") != "" {

		if cover := article.CoverImage(); cover != "" {
			if err := r.db.Covers.Folder(article.ID()).Delete(cover); err != nil {
				r.Danger(err) // keep going, the database row matters more
			}
		}

		if err := r.db.DeleteArticle(article); err == nil {
			r.Success("article %s has been deleted", article.Title())
			r.SeeOther("/articles")
			return nil
		} else {
			r.Danger(err)
		}
	}

	return articleDeleteTmpl.Execute(w, &articleDeleteData{
		Route:   r,
		Article: article,
	})
}
