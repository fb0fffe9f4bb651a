package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

var signupTmpl = tmpl(`<h1>Sign up</h1>
	<form method="post" style="max-width: 20rem; margin: auto;">
		<div class="form-group">
			<label>E-Mail</label>
			<input type="email" class="form-control" name="mail" value="{{ .Mail }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Password</label>
			<input type="password" class="form-control" name="password" required>
			<small class="form-text text-muted">At least 8 characters.</small>
		</div>
		<div class="form-group">
			<label>Repeat password</label>
			<input type="password" class="form-control" name="repeat" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="signup">Sign up</button>
		</div>
	</form>`)

type signupData struct {
	*Route
	Mail string
}

func checkSignup(mail, password, repeat string) error {
	switch {
	case mail == "" || !strings.Contains(mail, "@"):
		return errors.New("a valid email address is required")
	case len(password) < 8:
		return errors.New("the password must have at least 8 characters")
	case password != repeat:
		return errors.New("the passwords don't match")
	}
	return nil
}

func signup(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if r.LoggedIn() {
		r.SeeOther("/developers")
		return nil
	}

	var mail string

	if req.Method == http.MethodPost {

		mail = strings.TrimSpace(req.PostFormValue("mail"))
		password := req.PostFormValue("password")
		repeat := req.PostFormValue("repeat")

		if err := checkSignup(mail, password, repeat); err != nil {
			r.Danger(err)
		} else {
			user, err := r.db.InsertUser(mail)
			if err != nil {
				r.Danger(errors.New("this email address is already taken"))
			} else {
				if err := r.db.SetPassword(user, password); err != nil {
					return err
				}
				if err := r.Login(mail, password); err != nil {
					return err
				}
				r.SeeOther("/developers")
				return nil
			}
		}
	}

	return signupTmpl.Execute(w, &signupData{
		Route: r,
		Mail:  mail,
	})
}
