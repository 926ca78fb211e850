package store

import (
	"context"

	"kantin-be/internal/gateway"
	"kantin-be/internal/logger"
	"kantin-be/internal/user"

	"go.uber.org/zap"
)

type AuthState int

const (
	AuthResolving AuthState = iota
	AuthAnonymous
	AuthAuthenticated
)

func (a AuthState) String() string {
	switch a {
	case AuthAnonymous:
		return "anonymous"
	case AuthAuthenticated:
		return "authenticated"
	default:
		return "resolving"
	}
}

func (s *Store) consumeAuth(events <-chan gateway.AuthChange) {
	defer close(s.authDone)
	for ev := range events {
		s.applyAuth(ev.User)
	}
}

func (s *Store) applyAuth(u *user.AdminUser) {
	s.mu.Lock()
	prev := s.authState
	if u == nil {
		s.user = nil
		s.authState = AuthAnonymous
	} else {
		cp := *u
		s.user = &cp
		s.authState = AuthAuthenticated
	}
	next := s.authState
	s.mu.Unlock()

	s.resolveOnce.Do(func() { close(s.authResolved) })

	if prev != next {
		logger.L().Info("auth state changed",
			zap.String("from", prev.String()),
			zap.String("to", next.String()),
		)
	}
}

func (s *Store) AuthState() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authState
}

// AuthLoading is true until the first session event arrives.
func (s *Store) AuthLoading() bool {
	return s.AuthState() == AuthResolving
}

func (s *Store) IsAuthenticated() bool {
	return s.AuthState() == AuthAuthenticated
}

func (s *Store) CurrentUser() *user.AdminUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

// WaitAuthResolved blocks until the session state is known or ctx is done.
func (s *Store) WaitAuthResolved(ctx context.Context) error {
	select {
	case <-s.authResolved:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login never returns the failure; it is logged and reported as false.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	log := logger.Op(ctx, "store", "Login", zap.String("email", email))

	sess, err := s.gw.Login(ctx, email, password)
	if err != nil {
		log.Warn("login failed", zap.Error(err))
		return false
	}

	// the gateway also emits this as an event; applying it here means the
	// caller sees the new state as soon as Login returns
	s.applyAuth(&sess.User)
	log.Info("Login success")
	return true
}

// Logout always succeeds from the caller's point of view.
func (s *Store) Logout(ctx context.Context) {
	bestEffort(ctx, "Logout", s.gw.Logout(ctx))
	s.applyAuth(nil)
}
