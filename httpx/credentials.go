package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/oauth"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbolis/quick-brief/config"
	"github.com/mbolis/quick-brief/model"
	"github.com/mbolis/quick-brief/store"
)

// Claims carried by every access token.
const (
	ClaimRoles  = "roles"
	ClaimUserID = "uid"
)

type credentialsVerifier struct {
	store      *store.Store
	refreshTTL time.Duration
}

// NewBearerServer issues the admin capability: password and refresh grants
// for active admin users, with the role and user id as token claims.
func NewBearerServer(st *store.Store, cfg config.Config) *oauth.BearerServer {
	return oauth.NewBearerServer(cfg.TokenSecret, cfg.TokenTTL, CredentialsVerifier(st, cfg.RefreshTTL), nil)
}

func CredentialsVerifier(st *store.Store, refreshTTL time.Duration) oauth.CredentialsVerifier {
	return &credentialsVerifier{store: st, refreshTTL: refreshTTL}
}

func (cs *credentialsVerifier) ValidateUser(username string, password string, scope string, r *http.Request) error {
	_, hash, err := cs.store.Credentials(r.Context(), username)
	if err != nil {
		return err
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}

func (cs *credentialsVerifier) StoreTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	return cs.store.StoreToken(context.Background(), credential, tokenID, refreshTokenID, time.Now().Add(cs.refreshTTL))
}

func (cs *credentialsVerifier) ValidateTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	return cs.store.RedeemToken(context.Background(), credential, tokenID, refreshTokenID)
}

// AddClaims looks the user up again so a refresh grant fails once the admin is deactivated.
func (cs *credentialsVerifier) AddClaims(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	ctx := context.Background()
	if r != nil {
		ctx = r.Context()
	}
	user, _, err := cs.store.Credentials(ctx, credential)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		ClaimRoles:  user.Role,
		ClaimUserID: strconv.FormatInt(user.ID, 10),
	}, nil
}

func (*credentialsVerifier) AddProperties(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}

func (*credentialsVerifier) ValidateClient(clientID string, clientSecret string, scope string, r *http.Request) error {
	return errors.WithMessage(model.ErrUnauthorized, "client credentials not supported")
}

// HashPassword is the hash stored for admin users.
func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return hash, errors.Wrap(err, "hash password")
}
