package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/roster/core"
)

func developerCreate(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var data = &developerFormData{
		Route:     r,
		Heading:   "New developer",
		Seniority: core.Junior,
	}

	if req.Method == http.MethodPost {

		form, err := parseDeveloperForm(req)
		data.Name = form.Name
		data.Mail = form.Mail
		data.Seniority = form.Seniority
		data.SkillsInput = req.PostFormValue("skills")

		if err == nil {
			err = describeMailConflict(r.db.InsertDeveloper(r.User.ID(), form.Name, form.Mail, form.Seniority, form.Skills))
		}
		if err == nil {
			r.Success("developer %s has been created", form.Name)
			r.SeeOther("/developers")
			return nil
		}
		r.Danger(err)
		// keep user input, don't redirect
	}

	return developerFormTmpl.Execute(w, data)
}
