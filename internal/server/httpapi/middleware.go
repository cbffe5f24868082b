package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/streamsforlab/mediastore/internal/common"
	"github.com/streamsforlab/mediastore/internal/server/auth"
)

type ctxKey string

const accountIDKey ctxKey = "accountID"

// accountFromContext returns the account id placed there by requireToken.
func accountFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok
}

// requireToken verifies the bearer token and stores the account id it
// carries in the request context. Requests without a valid token get 401.
func (s *HTTPServer) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get(common.AuthHeaderName)
		if !strings.HasPrefix(header, common.AuthSchemePrefix) {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		accessToken := strings.TrimPrefix(header, common.AuthSchemePrefix)

		accountID, err := auth.GetAccountIDFromToken(accessToken, s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, accountID)
		next(w, r.WithContext(ctx))
	}
}

// requestAccount resolves the acting account for a request. The {author}
// path segment must match the token's account; acting on someone else's
// tree is rejected outright.
func requestAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return "", false
	}

	if author := r.PathValue("author"); author != accountID {
		writeError(w, http.StatusForbidden, "token does not match author")
		return "", false
	}

	return accountID, true
}
