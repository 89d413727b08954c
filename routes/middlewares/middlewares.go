package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"

	"github.com/mbolis/quick-brief/httpx"
	"github.com/mbolis/quick-brief/log"
	"github.com/mbolis/quick-brief/store"
)

// Admin checks for a valid bearer token whose 'roles' claim contains 'admin'.
// A missing or invalid token is answered with 401, a non-admin token with 403.
func Admin(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(secret, nil), admin).Handler(next)
	}
}

func admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(oauth.ClaimsContext).(map[string]string)
		if !HasRole(claims, store.RoleAdmin) {
			httpx.LogStatus(w, r, http.StatusForbidden, log.DebugLevel, "auth.admin.forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func HasRole(claims map[string]string, want string) bool {
	for _, role := range strings.Split(claims[httpx.ClaimRoles], ",") {
		if strings.TrimSpace(role) == want {
			return true
		}
	}
	return false
}

// CookieAuth lets a browser reach the admin bundle with the tokens kept in
// cookies. An expired access token is renewed with the refresh cookie; with
// neither, the browser is sent to the login page.
func CookieAuth(bearerServer *oauth.BearerServer, refreshTTL time.Duration) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				h.ServeHTTP(w, r)
				return
			}

			token, err := r.Cookie("access_token")
			if err != nil && !errors.Is(err, http.ErrNoCookie) {
				httpx.LogInternalError(w, r, "cookie_auth.access_token", err)
				return
			}
			if err == nil {
				r.Header.Set("authorization", "Bearer "+token.Value)
				buf := httpx.NewResponseBuffer()
				h.ServeHTTP(buf, r)
				if buf.Status() != http.StatusUnauthorized {
					if err := buf.Flush(w); err != nil {
						log.Debugf("cookie_auth.flush: %s", err)
					}
					return
				}
			}

			loginLocation := "/login?goto=" + url.QueryEscape(r.RequestURI)

			refreshToken, err := r.Cookie("refresh_token")
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					httpx.LogInternalError(w, r, "cookie_auth.refresh_token", err)
					return
				}
				http.Redirect(w, r, loginLocation, http.StatusTemporaryRedirect)
				return
			}

			resp, err := httpx.RefreshGrant(bearerServer, refreshToken.Value)
			if err != nil {
				httpx.LogInternalError(w, r, "cookie_auth.refresh", err)
				return
			}
			if resp.Status() == http.StatusUnauthorized {
				http.SetCookie(w, clearCookie("refresh_token"))
				http.Redirect(w, r, loginLocation, http.StatusTemporaryRedirect)
				return
			}
			if resp.Status() != http.StatusOK {
				httpx.LogStatus(w, r, resp.Status(), log.WarnLevel, "cookie_auth.refresh.status")
				return
			}

			var tokens struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
				ExpiresIn    int64  `json:"expires_in"`
			}
			if err := json.Unmarshal(resp.Body(), &tokens); err != nil {
				httpx.LogInternalError(w, r, "cookie_auth.refresh.decode", err)
				return
			}

			http.SetCookie(w, tokenCookie("access_token", tokens.AccessToken, int(tokens.ExpiresIn)))
			http.SetCookie(w, tokenCookie("refresh_token", tokens.RefreshToken, int(refreshTTL/time.Second)))

			r.Header.Set("authorization", "Bearer "+tokens.AccessToken)
			h.ServeHTTP(w, r)
		})
	}
}

func tokenCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Path:     "/",
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func clearCookie(name string) *http.Cookie {
	return &http.Cookie{
		Path:     "/",
		Name:     name,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
