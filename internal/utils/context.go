package utils

import "context"

type contextKey string

const (
	AdminIDKey    contextKey = "admin_id"
	AdminEmailKey contextKey = "admin_email"
)

// SetAdminContext stores the authenticated admin on the context (called by middleware).
func SetAdminContext(ctx context.Context, id, email string) context.Context {
	ctx = context.WithValue(ctx, AdminIDKey, id)
	ctx = context.WithValue(ctx, AdminEmailKey, email)
	return ctx
}

func GetAdminIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AdminIDKey).(string)
	return id, ok && id != ""
}

func GetAdminEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(AdminEmailKey).(string)
	return email
}
