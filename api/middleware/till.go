package middleware

import (
	"net/http"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/validators"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
)

const (
	tillIDHeader = "X-Till-Id"
	maxTillIDLen = 64
)

// Till resolves the checkout till from the X-Till-Id header, falling back to
// defaultTill, and echoes it on the response.
func Till(defaultTill string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tillID := validators.SanitizeString(r.Header.Get(tillIDHeader), maxTillIDLen)
			if tillID == "" {
				tillID = defaultTill
			}
			w.Header().Set(tillIDHeader, tillID)

			ctx := WithTillID(r.Context(), tillID)
			if logg != nil {
				ctx = logg.WithTillID(ctx, tillID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
