package middleware

import (
	"net/http"

	"salon-refunds/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Operator lifts the admin identity forwarded by the upstream auth layer into
// the request context. Authentication itself happens before this service;
// here we only require that an identity is present, because every audit
// ledger entry must record which operator acted.
func Operator(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID := r.Header.Get("X-Admin-Id")
			if adminID == "" {
				utils.ResponseUnauthorized(w, "Operator identity required")
				return
			}

			id, err := uuid.Parse(adminID)
			if err != nil {
				log.Warn("Malformed operator identity",
					zap.String("admin_id", adminID),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseUnauthorized(w, "Operator identity malformed")
				return
			}

			ctx := utils.SetAdminContext(r.Context(), utils.AdminIdentity{
				ID:    id,
				Name:  r.Header.Get("X-Admin-Name"),
				Email: r.Header.Get("X-Admin-Email"),
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
