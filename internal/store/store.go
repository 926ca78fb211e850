// Package store is the kiosk's single source of truth for the catalog, the
// settings, the admin session and the cart. Views get a *Store injected and
// never talk to the gateway themselves.
package store

import (
	"context"
	"errors"
	"sync"

	"kantin-be/internal/cart"
	"kantin-be/internal/category"
	"kantin-be/internal/gateway"
	"kantin-be/internal/localstore"
	"kantin-be/internal/logger"
	"kantin-be/internal/menu"
	"kantin-be/internal/metrics"
	"kantin-be/internal/notify"
	"kantin-be/internal/order"
	"kantin-be/internal/settings"
	"kantin-be/internal/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Gateway gateway.Gateway
	KV      localstore.KV
	Opener  order.Opener
	// Notifier is optional. Mirroring is best-effort.
	Notifier    notify.Notifier
	WhatsAppURL string
}

type Store struct {
	gw       gateway.Gateway
	cart     *cart.Cart
	opener   order.Opener
	notifier notify.Notifier
	waURL    string
	metrics  metrics.Store

	mu         sync.RWMutex
	menuItems  []menu.MenuItem
	categories []category.Category
	settings   settings.Settings
	authState  AuthState
	user       *user.AdminUser
	loading    bool

	authResolved chan struct{}
	resolveOnce  sync.Once

	startMu     sync.Mutex
	started     bool
	loaded      bool
	unsubscribe func()
	authDone    chan struct{}
}

func New(opts Options) *Store {
	waURL := opts.WhatsAppURL
	if waURL == "" {
		waURL = "https://wa.me"
	}
	return &Store{
		gw:           opts.Gateway,
		cart:         cart.New(opts.KV),
		opener:       opts.Opener,
		notifier:     opts.Notifier,
		waURL:        waURL,
		menuItems:    []menu.MenuItem{},
		categories:   []category.Category{},
		settings:     settings.Default(),
		authState:    AuthResolving,
		loading:      true,
		authResolved: make(chan struct{}),
		authDone:     make(chan struct{}),
	}
}

// Start subscribes to session changes, restores the cart, seeds an empty
// backend and loads the catalog. Only the load error is returned; the
// previous (default) state stays in place when it fails. Calling Start again
// after a failed load retries the seed and the load; once a load succeeded
// Start is a no-op.
func (s *Store) Start(ctx context.Context) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.loaded {
		return nil
	}
	if err := s.start(ctx); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

func (s *Store) start(ctx context.Context) error {
	log := logger.Op(ctx, "store", "Start")
	log.Info("Start started")

	if !s.started {
		events, cancel := s.gw.SubscribeAuthChanges()
		s.unsubscribe = cancel
		go s.consumeAuth(events)

		if err := s.cart.Restore(); err != nil {
			// covers cart.ErrCorruptCart: the cart is already empty
			bestEffort(ctx, "restore cart", err)
		}
		s.started = true
	}

	if seeded, err := s.gw.SeedIfEmpty(ctx); err != nil {
		bestEffort(ctx, "seed", err)
	} else if seeded {
		log.Info("starter data seeded")
	}

	if err := s.Refresh(ctx); err != nil {
		return err
	}

	log.Info("Start success")
	return nil
}

// Close ends the auth subscription and waits for its consumer to exit.
func (s *Store) Close() {
	if s.unsubscribe == nil {
		return
	}
	s.unsubscribe()
	<-s.authDone
}

// Refresh reloads menu items, categories and settings concurrently and swaps
// them in together. On error nothing is replaced.
func (s *Store) Refresh(ctx context.Context) error {
	log := logger.Op(ctx, "store", "Refresh")
	timer := metrics.StartTimer()

	s.setLoading(true)
	defer s.setLoading(false)

	var (
		items []menu.MenuItem
		cats  []category.Category
		st    settings.Settings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.gw.ListMenuItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.gw.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		st, err = s.gw.GetSettings(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.metrics.ReloadFailures.Inc()
		log.Error("failed to load data", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.menuItems = items
	s.categories = cats
	s.settings = st
	s.mu.Unlock()

	s.metrics.Reloads.Inc()
	s.metrics.LastReload.Set(timer.Duration())
	log.Debug("Refresh success",
		zap.Int("menu_items", len(items)),
		zap.Int("categories", len(cats)),
		zap.Duration("took", timer.Duration()),
	)
	return nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// ---------- reads ----------

func (s *Store) MenuItems() []menu.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]menu.MenuItem, len(s.menuItems))
	copy(out, s.menuItems)
	return out
}

func (s *Store) Categories() []category.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]category.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) Settings() settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// MenuItem looks an item up in the loaded catalog.
func (s *Store) MenuItem(id string) (menu.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.menuItems {
		if it.ID == id {
			return it, true
		}
	}
	return menu.MenuItem{}, false
}

// AvailableMenu is the storefront view: unavailable items are never listed.
func (s *Store) AvailableMenu(opts menu.FilterOptions) []menu.MenuItem {
	opts.OnlyAvailable = true
	s.mu.RLock()
	defer s.mu.RUnlock()
	return menu.Filter(s.menuItems, opts)
}

func (s *Store) CategoryItemCount(categoryID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return menu.CountByCategory(s.menuItems, categoryID)
}

func (s *Store) Metrics() metrics.Snapshot {
	return s.metrics.Snapshot()
}

// bestEffort is the policy for failures that must not reach the caller:
// cart persistence, logout, seeding, reloads after a successful write and
// order mirroring. They are logged and dropped.
func bestEffort(ctx context.Context, op string, err error) {
	if err == nil {
		return
	}
	log := logger.Op(ctx, "store", op)
	if errors.Is(err, cart.ErrCorruptCart) {
		log.Warn("discarding stored cart", zap.Error(err))
		return
	}
	log.Warn("best-effort operation failed", zap.Error(err))
}
