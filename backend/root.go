package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func root(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	r.SeeOther("/developers")
	return nil
}
