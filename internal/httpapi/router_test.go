package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kantin-be/internal/auth"
	"kantin-be/internal/category"
	"kantin-be/internal/menu"
	"kantin-be/internal/middleware"
	"kantin-be/internal/settings"
	"kantin-be/internal/user"
	"kantin-be/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMenu struct{ mock.Mock }

func (m *mockMenu) List(ctx context.Context) ([]menu.MenuItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]menu.MenuItem), args.Error(1)
}

func (m *mockMenu) Get(ctx context.Context, id string) (*menu.MenuItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*menu.MenuItem)
	return item, args.Error(1)
}

func (m *mockMenu) Create(ctx context.Context, in menu.NewMenuItem) (*menu.MenuItem, error) {
	args := m.Called(ctx, in)
	item, _ := args.Get(0).(*menu.MenuItem)
	return item, args.Error(1)
}

func (m *mockMenu) Update(ctx context.Context, id string, in menu.UpdateMenuItem) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *mockMenu) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockCategories struct{ mock.Mock }

func (m *mockCategories) List(ctx context.Context) ([]category.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]category.Category), args.Error(1)
}

func (m *mockCategories) Create(ctx context.Context, in category.NewCategory) (*category.Category, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*category.Category)
	return c, args.Error(1)
}

func (m *mockCategories) Update(ctx context.Context, id string, in category.UpdateCategory) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *mockCategories) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockSettings struct{ mock.Mock }

func (m *mockSettings) Get(ctx context.Context) (settings.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(settings.Settings), args.Error(1)
}

func (m *mockSettings) Update(ctx context.Context, in settings.Settings) (settings.Settings, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(settings.Settings), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Login(ctx context.Context, email, password string) (*user.Session, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(*user.Session)
	return s, args.Error(1)
}

func (m *mockUsers) Authenticate(ctx context.Context, token string) (*user.Session, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*user.Session)
	return s, args.Error(1)
}

func (m *mockUsers) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockUsers) EnsureAdmin(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

type seederFunc func(ctx context.Context) (bool, error)

func (f seederFunc) SeedIfEmpty(ctx context.Context) (bool, error) { return f(ctx) }

type fixture struct {
	menu       *mockMenu
	categories *mockCategories
	settings   *mockSettings
	users      *mockUsers
	handler    http.Handler
}

var adminSession = &user.Session{
	Token:     "good",
	User:      user.AdminUser{ID: "admin-1", Email: "admin@kantin.test"},
	ExpiresAt: time.Now().Add(time.Hour),
}

func newFixture() *fixture {
	f := &fixture{
		menu:       new(mockMenu),
		categories: new(mockCategories),
		settings:   new(mockSettings),
		users:      new(mockUsers),
	}
	f.users.On("Authenticate", mock.Anything, "good").Return(adminSession, nil).Maybe()
	f.users.On("Authenticate", mock.Anything, mock.Anything).Return(nil, user.ErrInvalidToken).Maybe()

	f.handler = NewRouter(Deps{
		Menu:       f.menu,
		Categories: f.categories,
		Settings:   f.settings,
		Users:      f.users,
		Seeder:     seederFunc(func(context.Context) (bool, error) { return true, nil }),
		CORSOrigin: "*",
	})
	return f
}

func (f *fixture) do(method, path, body string, admin bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer good")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestMenuRoutes(t *testing.T) {
	items := []menu.MenuItem{
		{ID: "1", Name: "Nasi Goreng", CategoryID: "c1", Price: 25000, IsAvailable: true},
		{ID: "2", Name: "Es Teh", CategoryID: "c2", Price: 5000, IsAvailable: false},
	}

	t.Run("List", func(t *testing.T) {
		f := newFixture()
		f.menu.On("List", mock.Anything).Return(items, nil)

		rec := f.do(http.MethodGet, "/api/menu-items", "", false)

		require.Equal(t, http.StatusOK, rec.Code)
		var got []menu.MenuItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 2)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("List Available Only", func(t *testing.T) {
		f := newFixture()
		f.menu.On("List", mock.Anything).Return(items, nil)

		rec := f.do(http.MethodGet, "/api/menu-items?available=true", "", false)

		var got []menu.MenuItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0].ID)
	})

	t.Run("Get Not Found", func(t *testing.T) {
		f := newFixture()
		f.menu.On("Get", mock.Anything, "x").Return(nil, menu.ErrMenuItemNotFound)

		rec := f.do(http.MethodGet, "/api/menu-items/x", "", false)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Create Requires Admin", func(t *testing.T) {
		f := newFixture()

		rec := f.do(http.MethodPost, "/api/menu-items", `{"name":"Sate"}`, false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.menu.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Create", func(t *testing.T) {
		f := newFixture()
		f.menu.On("Create", mock.Anything, mock.MatchedBy(func(in menu.NewMenuItem) bool {
			return in.Name == "Sate" && in.Price == 30000
		})).Return(&menu.MenuItem{ID: "new-id", Name: "Sate", Price: 30000}, nil)

		rec := f.do(http.MethodPost, "/api/menu-items",
			`{"name":"Sate","description":"Sate ayam","price":30000,"categoryId":"c1","isAvailable":true}`, true)

		require.Equal(t, http.StatusCreated, rec.Code)
		var got menu.MenuItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "new-id", got.ID)
	})

	t.Run("Create Validation Error", func(t *testing.T) {
		f := newFixture()
		f.menu.On("Create", mock.Anything, mock.Anything).
			Return(nil, validation.Error{Field: "name", Message: "name is required"})

		rec := f.do(http.MethodPost, "/api/menu-items", `{}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "name is required")
	})

	t.Run("Bad JSON", func(t *testing.T) {
		f := newFixture()

		rec := f.do(http.MethodPost, "/api/menu-items", `{`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Update", func(t *testing.T) {
		f := newFixture()
		f.menu.On("Update", mock.Anything, "1", mock.Anything).Return(nil)

		rec := f.do(http.MethodPatch, "/api/menu-items/1", `{"isAvailable":false}`, true)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.menu.AssertExpectations(t)
	})

	t.Run("Delete Internal Error Hides Detail", func(t *testing.T) {
		f := newFixture()
		f.menu.On("Delete", mock.Anything, "1").Return(errors.New("pq: connection reset"))

		rec := f.do(http.MethodDelete, "/api/menu-items/1", "", true)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	})
}

func TestCategoryRoutes(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		f := newFixture()
		f.categories.On("List", mock.Anything).Return([]category.Category{{ID: "c1", Name: "Makanan", Order: 1}}, nil)

		rec := f.do(http.MethodGet, "/api/categories", "", false)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"order":1`)
	})

	t.Run("Delete In Use", func(t *testing.T) {
		f := newFixture()
		f.categories.On("Delete", mock.Anything, "c1").Return(category.ErrCategoryInUse)

		rec := f.do(http.MethodDelete, "/api/categories/c1", "", true)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Update No Fields", func(t *testing.T) {
		f := newFixture()
		f.categories.On("Update", mock.Anything, "c1", mock.Anything).Return(category.ErrNoFieldsToUpdate)

		rec := f.do(http.MethodPatch, "/api/categories/c1", `{}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSettingsAndSeed(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		f := newFixture()
		f.settings.On("Get", mock.Anything).Return(settings.Default(), nil)

		rec := f.do(http.MethodGet, "/api/settings", "", false)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"restaurantName"`)
	})

	t.Run("Put", func(t *testing.T) {
		f := newFixture()
		updated := settings.Default()
		updated.RestaurantName = "Warung Baru"
		f.settings.On("Update", mock.Anything, mock.Anything).Return(updated, nil)

		rec := f.do(http.MethodPut, "/api/settings", `{"restaurantName":"Warung Baru"}`, true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Warung Baru")
	})

	t.Run("Seed", func(t *testing.T) {
		f := newFixture()

		rec := f.do(http.MethodPost, "/api/seed", "", false)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"seeded":true}`, rec.Body.String())
	})
}

func TestSeedIsThrottled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int
	users := new(mockUsers)
	handler := NewRouter(Deps{
		Users: users,
		Seeder: seederFunc(func(context.Context) (bool, error) {
			calls++
			return false, nil
		}),
		Limiter:    middleware.NewRateLimiter(ctx, ""),
		CORSOrigin: "*",
	})

	var last int
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/seed", nil))
		last = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
	assert.Less(t, calls, 10)
}

func TestAuthRoutes(t *testing.T) {
	t.Run("Login Sets Cookie", func(t *testing.T) {
		f := newFixture()
		f.users.On("Login", mock.Anything, "admin@kantin.test", "secret").Return(adminSession, nil)

		rec := f.do(http.MethodPost, "/api/auth/login", `{"email":"admin@kantin.test","password":"secret"}`, false)

		require.Equal(t, http.StatusOK, rec.Code)
		var got user.Session
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "good", got.Token)

		var found bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == auth.CookieName {
				found = true
				assert.Equal(t, "good", c.Value)
			}
		}
		assert.True(t, found)
	})

	t.Run("Login Wrong Password", func(t *testing.T) {
		f := newFixture()
		f.users.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, user.ErrInvalidCredentials)

		rec := f.do(http.MethodPost, "/api/auth/login", `{"email":"a@b.c","password":"x"}`, false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Me", func(t *testing.T) {
		f := newFixture()

		rec := f.do(http.MethodGet, "/api/auth/me", "", true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "admin@kantin.test")
	})

	t.Run("Me Anonymous", func(t *testing.T) {
		f := newFixture()

		rec := f.do(http.MethodGet, "/api/auth/me", "", false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Logout", func(t *testing.T) {
		f := newFixture()
		f.users.On("Logout", mock.Anything, "good").Return(nil)

		rec := f.do(http.MethodPost, "/api/auth/logout", "", true)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.users.AssertExpectations(t)
	})
}

func TestRouterFallbacks(t *testing.T) {
	f := newFixture()

	t.Run("Health", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/health", "", false)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unknown Route", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/nope", "", false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Wrong Method", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/api/categories", "", false)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("Preflight", func(t *testing.T) {
		rec := f.do(http.MethodOptions, "/api/menu-items/1", "", false)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
