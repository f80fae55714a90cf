package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/rideshare-market/backend/internal/client"
	"github.com/rideshare-market/backend/internal/common"
)

// InternalOnly gates service-to-service endpoints behind the shared internal
// credential. These endpoints perform no token check of their own; the key is
// the explicit trust boundary that replaces "unreachable from outside" by
// convention.
func InternalOnly(internalKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(client.InternalKeyHeader)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(internalKey)) != 1 {
				common.RespondWithJSON(w, http.StatusUnauthorized, map[string]int{"status": 2})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the raw credential from the Authorization header. The
// protocol sends the token bare, with no scheme prefix; the value is opaque
// to every service but identity.
func BearerToken(r *http.Request) string {
	return r.Header.Get("Authorization")
}
