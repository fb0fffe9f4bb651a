package backend

import (
	"strconv"

	"github.com/julienschmidt/httprouter"
)

// idParam parses the ":id" route parameter. Invalid values count as not found.
func idParam(params httprouter.Params) (int, error) {
	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}
