package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mbolis/quick-brief/log"
	"github.com/mbolis/quick-brief/model"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error              string  `json:"error"`
	QuestionIDs        []int64 `json:"questionIds,omitempty"`
	MissingQuestionIDs []int64 `json:"missingQuestionIds,omitempty"`
}

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Errorf("%s: %s", code, err)
	writeBody(w, r, http.StatusInternalServerError, ErrorBody{Error: http.StatusText(http.StatusInternalServerError)})
}

// Will log a debug message, and send an HTTP response with status 404
func LogNotFound(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Debugf("%s: %s", code, err)
	writeBody(w, r, http.StatusNotFound, ErrorBody{Error: err.Error()})
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string) {
	log.Log(level, code)
	writeBody(w, r, status, ErrorBody{Error: http.StatusText(status)})
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	writeBody(w, r, status, ErrorBody{Error: errMsg})
}

// WriteError picks the response for an error returned by the store. Client
// errors carry their message; anything else is logged and answered with a
// bare 500.
func WriteError(w http.ResponseWriter, r *http.Request, code string, err error) {
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Debugf("%s: %s", code, err)
		writeBody(w, r, http.StatusBadRequest, ErrorBody{
			Error:              vErr.Error(),
			QuestionIDs:        vErr.QuestionIDs,
			MissingQuestionIDs: vErr.MissingQuestionIDs,
		})
	case errors.Is(err, model.ErrNotFound):
		LogNotFound(w, r, code, err)
	case errors.Is(err, model.ErrConflict):
		LogStatusMsg(w, r, http.StatusConflict, log.DebugLevel, code, "%s", err)
	case errors.Is(err, model.ErrUnauthorized):
		LogStatus(w, r, http.StatusUnauthorized, log.DebugLevel, code)
	default:
		LogInternalError(w, r, code, err)
	}
}

func writeBody(w http.ResponseWriter, r *http.Request, status int, body ErrorBody) {
	render.Status(r, status)
	render.JSON(w, r, body)
}
