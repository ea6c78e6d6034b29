package apperr

import (
	"net/http"

	"github.com/2beens/gymtracker/pkg"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteHTTP writes err as a JSON error body. Errors outside the taxonomy
// are logged and reported as a generic internal error.
func WriteHTTP(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := As(err)
	if !ok || appErr.Code == CodeInternal {
		log.Errorf("%s %s: %s", r.Method, r.URL.Path, err)
		pkg.WriteJSON(w, errorResponse{Error: "internal server error"}, http.StatusInternalServerError)
		return
	}

	log.Debugf("%s %s: %s", r.Method, r.URL.Path, err)
	pkg.WriteJSON(w, errorResponse{
		Error:  appErr.Message,
		Fields: appErr.Fields,
	}, appErr.Code.HTTPStatus())
}
