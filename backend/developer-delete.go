package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/roster/core"
)

var developerDeleteTmpl = tmpl(`<h1>Delete {{ .Developer.Name }}</h1>

	<p>This removes the developer from all articles. The articles stay.</p>

	<p>
		<a class="btn btn-secondary" href="developers">Cancel</a>
	</p>

	<form method="post">
		<input type="submit" class="btn btn-danger" name="delete" value="Delete">
	</form>`)

type developerDeleteData struct {
	*Route
	Developer core.DBDeveloper
}

func developerDelete(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	id, err := idParam(params)
	if err != nil {
		return err
	}

	// owner-scoped lookup, strangers get not-found
	developer, err := r.db.GetDeveloperOwned(id, r.User.ID())
	if err != nil {
		return err
	}

	if req.PostFormValue("delete") != "" {
		if err := r.db.DeleteDeveloper(developer); err == nil {
			r.Success("developer %s has been deleted", developer.Name())
			r.SeeOther("/developers")
			return nil
		} else {
			r.Danger(err)
		}
	}

	return developerDeleteTmpl.Execute(w, &developerDeleteData{
		Route:     r,
		Developer: developer,
	})
}
