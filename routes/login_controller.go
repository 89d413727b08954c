package routes

import (
	"mime"
	"net/http"
	"regexp"

	"github.com/go-chi/render"

	"github.com/mbolis/quick-brief/app"
	"github.com/mbolis/quick-brief/httpx"
	"github.com/mbolis/quick-brief/log"
)

var reRefresh = regexp.MustCompile(`(?i)^refresh\s+(\S+)`)

// Login accepts either a JSON body {email, password} or HTTP basic auth.
func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok && isJSON(r) {
			var body struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := render.DecodeJSON(r.Body, &body); err != nil {
				httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "invalid JSON body")
				return
			}
			user, pass, ok = body.Email, body.Password, body.Email != "" && body.Password != ""
		}
		if !ok {
			httpx.LogStatus(w, r, http.StatusUnauthorized, log.DebugLevel, "login.credentials")
			return
		}

		httpx.PasswordGrant(app.BearerServer, w, r, user, pass)
	}
}

func Refresh(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match := reRefresh.FindStringSubmatch(r.Header.Get("authorization"))
		if len(match) == 0 {
			httpx.LogStatus(w, r, http.StatusUnauthorized, log.DebugLevel, "refresh.token")
			return
		}

		resp, err := httpx.RefreshGrant(app.BearerServer, match[1])
		if err != nil {
			httpx.LogInternalError(w, r, "refresh.new_request", err)
			return
		}
		if err := resp.Flush(w); err != nil {
			log.Debugf("refresh.flush: %s", err)
		}
	}
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("content-type"))
	return err == nil && mediaType == "application/json"
}
