package httpx

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/oauth"
)

// PasswordGrant rewrites r into an OAuth2 password grant and lets the bearer
// server answer it.
func PasswordGrant(bs *oauth.BearerServer, w http.ResponseWriter, r *http.Request, username, password string) {
	body := url.Values{
		"grant_type": {"password"},
		"username":   {username},
		"password":   {password},
	}
	setForm(r, body)
	bs.UserCredentials(w, r)
}

// RefreshGrant exchanges a refresh token for a new token pair. The bearer
// server only takes grants as form posts, so the exchange runs on a
// synthetic request and the answer is buffered for the caller.
func RefreshGrant(bs *oauth.BearerServer, refreshToken string) (ResponseBuffer, error) {
	req, err := http.NewRequest(http.MethodPost, "/", nil)
	if err != nil {
		return nil, err
	}
	setForm(req, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	})

	resp := NewResponseBuffer()
	bs.UserCredentials(resp, req)
	return resp, nil
}

func setForm(r *http.Request, body url.Values) {
	encoded := body.Encode()
	r.Body = io.NopCloser(strings.NewReader(encoded))
	r.ContentLength = int64(len(encoded))
	r.Header.Del("authorization")
	r.Header.Set("content-type", "application/x-www-form-urlencoded")
	r.Header.Set("content-length", strconv.Itoa(len(encoded)))
}
