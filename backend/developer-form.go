package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wansing/roster/core"
)

var developerFormTmpl = tmpl(`<h1>{{ .Heading }}</h1>

	<p>
		<a class="btn btn-secondary" href="developers">Cancel</a>
	</p>

	<form method="post">
		<div class="form-group">
			<label>Name</label>
			<input class="form-control" name="name" value="{{ .Name }}" required>
		</div>
		<div class="form-group">
			<label>E-Mail</label>
			<input type="email" class="form-control" name="mail" value="{{ .Mail }}" required>
		</div>
		<div class="form-group">
			<label>Seniority</label>
			<select class="form-control" name="seniority">
				{{ range .Seniorities }}
					<option {{ if eq . $.Seniority -}} selected {{- end }} value="{{ . }}">{{ .Label }}</option>
				{{ end }}
			</select>
		</div>
		<div class="form-group">
			<label>Skills</label>
			<input class="form-control" name="skills" value="{{ .SkillsInput }}" placeholder="Python, Django, React">
			<small class="form-text text-muted">Separated by commas.</small>
		</div>
		<button type="submit" class="btn btn-primary" name="save">Save</button>
	</form>`)

type developerFormData struct {
	*Route
	Heading     string
	Name        string
	Mail        string
	Seniority   core.Seniority
	SkillsInput string // comma-separated
}

func (data *developerFormData) Seniorities() []core.Seniority {
	return core.Seniorities
}

func parseSkills(input string) []string {
	var skills []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			skills = append(skills, part)
		}
	}
	return skills
}

func joinSkills(skills []string) string {
	return strings.Join(skills, ", ")
}

type developerForm struct {
	Name      string
	Mail      string
	Seniority core.Seniority
	Skills    []string
}

func parseDeveloperForm(req *http.Request) (*developerForm, error) {

	var form = &developerForm{
		Name:      strings.TrimSpace(req.PostFormValue("name")),
		Mail:      strings.TrimSpace(req.PostFormValue("mail")),
		Seniority: core.Seniority(req.PostFormValue("seniority")),
		Skills:    parseSkills(req.PostFormValue("skills")),
	}

	switch {
	case form.Name == "":
		return form, errors.New("a name is required")
	case form.Mail == "" || !strings.Contains(form.Mail, "@"):
		return form, errors.New("a valid email address is required")
	case !form.Seniority.Valid():
		return form, errors.New("unknown seniority")
	}

	return form, nil
}

// the mail column has a UNIQUE constraint
func describeMailConflict(err error) error {
	if err != nil && strings.Contains(err.Error(), "developer.mail") {
		return errors.New("this email address is already in use")
	}
	return err
}
