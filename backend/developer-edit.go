package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func developerEdit(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	id, err := idParam(params)
	if err != nil {
		return err
	}

	// owner-scoped lookup, strangers get not-found
	developer, err := r.db.GetDeveloperOwned(id, r.User.ID())
	if err != nil {
		return err
	}

	var data = &developerFormData{
		Route:       r,
		Heading:     "Edit " + developer.Name(),
		Name:        developer.Name(),
		Mail:        developer.Mail(),
		Seniority:   developer.Seniority(),
		SkillsInput: joinSkills(developer.Skills()),
	}

	if req.Method == http.MethodPost {

		form, err := parseDeveloperForm(req)
		data.Name = form.Name
		data.Mail = form.Mail
		data.Seniority = form.Seniority
		data.SkillsInput = req.PostFormValue("skills")

		if err == nil {
			err = describeMailConflict(r.db.UpdateDeveloper(developer, form.Name, form.Mail, form.Seniority, form.Skills))
		}
		if err == nil {
			r.Success("developer %s has been saved", form.Name)
			r.SeeOther("/developers")
			return nil
		}
		r.Danger(err)
	}

	return developerFormTmpl.Execute(w, data)
}
