// Package gateway is the client's view of the remote backend: catalog CRUD,
// settings, seeding and the admin session.
package gateway

import (
	"context"

	"kantin-be/internal/category"
	"kantin-be/internal/menu"
	"kantin-be/internal/settings"
	"kantin-be/internal/user"
)

// AuthChange is emitted whenever the session changes. A nil User means
// signed out.
type AuthChange struct {
	User *user.AdminUser
}

type Gateway interface {
	ListMenuItems(ctx context.Context) ([]menu.MenuItem, error)
	// GetMenuItem returns nil, nil when the item does not exist.
	GetMenuItem(ctx context.Context, id string) (*menu.MenuItem, error)
	CreateMenuItem(ctx context.Context, in menu.NewMenuItem) (string, error)
	UpdateMenuItem(ctx context.Context, id string, in menu.UpdateMenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error

	// ListCategories returns categories by ascending Order.
	ListCategories(ctx context.Context) ([]category.Category, error)
	CreateCategory(ctx context.Context, in category.NewCategory) (string, error)
	UpdateCategory(ctx context.Context, id string, in category.UpdateCategory) error
	DeleteCategory(ctx context.Context, id string) error

	// GetSettings returns defaults when nothing was saved yet.
	GetSettings(ctx context.Context) (settings.Settings, error)
	// PutSettings merges: empty fields leave the stored value alone.
	PutSettings(ctx context.Context, s settings.Settings) error

	Login(ctx context.Context, email, password string) (*user.Session, error)
	Logout(ctx context.Context) error
	// SubscribeAuthChanges delivers the current state first and then every
	// change. The returned func unsubscribes and closes the channel.
	SubscribeAuthChanges() (<-chan AuthChange, func())

	// SeedIfEmpty reports whether starter data was written.
	SeedIfEmpty(ctx context.Context) (bool, error)
}
