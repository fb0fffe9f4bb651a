package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/roster/core"
	"github.com/wansing/roster/util"
)

func articleEdit(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

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

	developers, err := r.db.GetDevelopers(core.DeveloperFilter{})
	if err != nil {
		return err
	}

	selectedIDs, err := r.db.GetArticleDeveloperIDs(article.ID())
	if err != nil {
		return err
	}
	var selected = make(map[int]bool)
	for _, id := range selectedIDs {
		selected[id] = true
	}

	var data = &articleFormData{
		Route:            r,
		Heading:          "Edit " + article.Title(),
		Title:            article.Title(),
		Slug:             article.Slug(),
		Content:          article.Content(),
		PublishedAtInput: util.FormatInputTime(article.PublishedAt()),
		CoverImage:       article.CoverImage(),
		Developers:       developers,
		Selected:         selected,
	}

	if req.Method == http.MethodPost {

		form, err := parseArticleForm(req)
		data.Title = form.Title
		data.Slug = form.Slug
		data.Content = form.Content
		data.PublishedAtInput = form.PublishedAtInput
		data.Selected = form.selected()

		if err == nil {

			// slugs stay in the scope of the article's owner, even when a superuser edits
			var slug = form.Slug
			if slug == "" {
				slug, err = r.db.GenerateSlug(article.UserID(), form.Title, article.ID())
				if err != nil {
					return err
				}
			}

			var cover = article.CoverImage()
			if cover != "" && req.PostFormValue("delete_cover") != "" {
				if err := r.db.Covers.Folder(article.ID()).Delete(cover); err != nil {
					r.Danger(err)
				}
				cover = ""
			}
			if filename, err := storeCover(r, article.ID(), req); err != nil {
				r.Danger(err)
			} else if filename != "" {
				if cover != "" && cover != filename {
					_ = r.db.Covers.Folder(article.ID()).Delete(cover)
				}
				cover = filename
			}
			if cover != article.CoverImage() {
				if err := r.db.SetCoverImage(article.ID(), cover); err != nil {
					return err
				}
			}

			// a lost slug race fails here and bubbles up
			if err := r.db.UpdateArticle(article, form.Title, slug, form.Content, form.PublishedAt, form.DeveloperIDs); err != nil {
				return err
			}

			r.Success("article %s has been saved", form.Title)
			r.SeeOther("/article/%d", article.ID())
			return nil
		}
		r.Danger(err)
		// keep user input, don't redirect
	}

	return articleFormTmpl.Execute(w, data)
}
