package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func logout(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	r.Success("Goodbye")
	r.Logout()
	r.SeeOther("/login")
	return nil
}
