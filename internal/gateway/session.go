package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"kantin-be/internal/localstore"
	"kantin-be/internal/logger"
	"kantin-be/internal/user"

	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*user.Session, error) {
	var sess user.Session
	err := c.do(ctx, http.MethodPost, loginPath, loginRequest{Email: email, Password: password}, &sess)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	c.setSession(ctx, &sess)
	return &sess, nil
}

// Logout always ends the local session. The returned error only reports
// whether the server heard about it.
func (c *Client) Logout(ctx context.Context) error {
	tok := c.token()
	if tok == "" {
		return nil
	}

	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.dropSession(ctx, tok, "logout")
	return err
}

func (c *Client) SubscribeAuthChanges() (<-chan AuthChange, func()) {
	ch, cancel, known := c.hub.subscribe()
	if !known {
		c.resolveOnce.Do(func() {
			go c.resolveSession(context.Background())
		})
	}
	return ch, cancel
}

// resolveSession restores a stored session and checks it with the server.
// It publishes exactly one event unless a Login replaced the stored session
// while the check was in flight; that Login already published.
func (c *Client) resolveSession(ctx context.Context) {
	log := logger.Op(ctx, "gateway", "resolveSession")

	sess := c.loadStoredSession(ctx)

	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		log.Info("session already established, stored one ignored")
		return
	}
	if sess == nil {
		c.hub.publish(AuthChange{})
		c.mu.Unlock()
		return
	}
	c.session = sess
	c.mu.Unlock()

	var me user.Session
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &me)
	switch {
	case err == nil:
		// the server may know a newer display name
		restored := *sess
		restored.User = me.User
		if !c.replaceSession(ctx, &restored, sess.Token) {
			log.Info("stored session superseded during check")
		}
	case errors.Is(err, ErrUnauthorized):
		// do() already dropped the session and published
		log.Info("stored session rejected")
	default:
		log.Warn("session check failed, keeping stored session", zap.Error(err))
		if !c.replaceSession(ctx, sess, sess.Token) {
			log.Info("stored session superseded during check")
		}
	}
}

func (c *Client) loadStoredSession(ctx context.Context) *user.Session {
	if c.kv == nil {
		return nil
	}
	log := logger.Op(ctx, "gateway", "loadStoredSession")

	raw, err := c.kv.Get(SessionKey)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			log.Warn("read stored session failed", zap.Error(err))
		}
		return nil
	}

	var sess user.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.Token == "" {
		log.Warn("discarding unreadable stored session")
		_ = c.kv.Delete(SessionKey)
		return nil
	}
	if sess.Expired(c.now()) {
		_ = c.kv.Delete(SessionKey)
		return nil
	}
	return &sess
}

func (c *Client) setSession(ctx context.Context, sess *user.Session) {
	c.replaceSession(ctx, sess, "")
}

// replaceSession installs sess. With a non-empty expect it only does so while
// expect is still the active token. Persisting and publishing happen under the
// lock so the stored session and the last event always match c.session.
func (c *Client) replaceSession(ctx context.Context, sess *user.Session, expect string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if expect != "" && (c.session == nil || c.session.Token != expect) {
		return false
	}

	c.session = sess
	c.stopExpiryLocked()
	if d := sess.ExpiresAt.Sub(c.now()); d > 0 {
		tok := sess.Token
		c.expiry = time.AfterFunc(d, func() {
			c.dropSession(context.Background(), tok, "session expired")
		})
	}

	if c.kv != nil {
		if raw, err := json.Marshal(sess); err == nil {
			if err := c.kv.Set(SessionKey, string(raw)); err != nil {
				logger.Op(ctx, "gateway", "setSession").Warn("persist session failed", zap.Error(err))
			}
		}
	}

	u := sess.User
	c.hub.publish(AuthChange{User: &u})
	return true
}

// dropSession signs out, but only if tok is still the active token. A stale
// timer or a late 401 for an older token is ignored.
func (c *Client) dropSession(ctx context.Context, tok, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || c.session.Token != tok {
		return
	}
	c.session = nil
	c.stopExpiryLocked()

	if c.kv != nil {
		_ = c.kv.Delete(SessionKey)
	}

	logger.Op(ctx, "gateway", "dropSession").Info("signed out", zap.String("reason", reason))
	c.hub.publish(AuthChange{})
}

func (c *Client) stopExpiryLocked() {
	if c.expiry != nil {
		c.expiry.Stop()
		c.expiry = nil
	}
}
