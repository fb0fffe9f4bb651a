package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/roster/core"
)

func articleCreate(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	// the multi-select offers all developers, not just the user's own
	developers, err := r.db.GetDevelopers(core.DeveloperFilter{})
	if err != nil {
		return err
	}

	var data = &articleFormData{
		Route:      r,
		Heading:    "New article",
		Developers: developers,
		Selected:   map[int]bool{},
	}

	if req.Method == http.MethodPost {

		form, err := parseArticleForm(req)
		data.Title = form.Title
		data.Slug = form.Slug
		data.Content = form.Content
		data.PublishedAtInput = form.PublishedAtInput
		data.Selected = form.selected()

		if err == nil {

			var slug = form.Slug
			if slug == "" {
				slug, err = r.db.GenerateSlug(r.User.ID(), form.Title, 0)
				if err != nil {
					return err
				}
			}

			// a lost slug race fails here and bubbles up
			id, err := r.db.InsertArticle(r.User.ID(), form.Title, slug, form.Content, form.PublishedAt, form.DeveloperIDs)
			if err != nil {
				return err
			}

			if filename, err := storeCover(r, id, req); err != nil {
				r.Danger(err)
			} else if filename != "" {
				if err := r.db.SetCoverImage(id, filename); err != nil {
					return err
				}
			}

			r.Success("article %s has been created", form.Title)
			r.SeeOther("/article/%d", id)
			return nil
		}
		r.Danger(err)
		// keep user input, don't redirect
	}

	return articleFormTmpl.Execute(w, data)
}
