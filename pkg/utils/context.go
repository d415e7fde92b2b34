package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	AdminIDKey    contextKey = "admin_id"
	AdminNameKey  contextKey = "admin_name"
	AdminEmailKey contextKey = "admin_email"
)

// AdminIdentity is the already-authenticated operator identity forwarded by
// the upstream auth layer. Every ledger entry records its ID.
type AdminIdentity struct {
	ID    uuid.UUID
	Name  string
	Email string
}

func GetAdminFromContext(ctx context.Context) (AdminIdentity, bool) {
	idVal := ctx.Value(AdminIDKey)
	if idVal == nil {
		return AdminIdentity{}, false
	}

	idStr, ok := idVal.(string)
	if !ok {
		return AdminIdentity{}, false
	}

	adminID, err := uuid.Parse(idStr)
	if err != nil {
		return AdminIdentity{}, false
	}

	identity := AdminIdentity{ID: adminID}
	if name, ok := ctx.Value(AdminNameKey).(string); ok {
		identity.Name = name
	}
	if email, ok := ctx.Value(AdminEmailKey).(string); ok {
		identity.Email = email
	}

	return identity, true
}

func SetAdminContext(ctx context.Context, identity AdminIdentity) context.Context {
	ctx = context.WithValue(ctx, AdminIDKey, identity.ID.String())
	ctx = context.WithValue(ctx, AdminNameKey, identity.Name)
	ctx = context.WithValue(ctx, AdminEmailKey, identity.Email)
	return ctx
}
