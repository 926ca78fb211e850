package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"kantin-be/internal/cart"
	"kantin-be/internal/category"
	"kantin-be/internal/gateway"
	"kantin-be/internal/localstore"
	"kantin-be/internal/menu"
	"kantin-be/internal/order"
	"kantin-be/internal/settings"
	"kantin-be/internal/user"
	"kantin-be/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGateway struct {
	mock.Mock
	auth       chan gateway.AuthChange
	subscribes atomic.Int32
}

func newMockGateway() *MockGateway {
	return &MockGateway{auth: make(chan gateway.AuthChange, 4)}
}

func (m *MockGateway) ListMenuItems(ctx context.Context) ([]menu.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]menu.MenuItem), args.Error(1)
}

func (m *MockGateway) GetMenuItem(ctx context.Context, id string) (*menu.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.MenuItem), args.Error(1)
}

func (m *MockGateway) CreateMenuItem(ctx context.Context, in menu.NewMenuItem) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) UpdateMenuItem(ctx context.Context, id string, in menu.UpdateMenuItem) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockGateway) DeleteMenuItem(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) ListCategories(ctx context.Context) ([]category.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]category.Category), args.Error(1)
}

func (m *MockGateway) CreateCategory(ctx context.Context, in category.NewCategory) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) UpdateCategory(ctx context.Context, id string, in category.UpdateCategory) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockGateway) DeleteCategory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) GetSettings(ctx context.Context) (settings.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(settings.Settings), args.Error(1)
}

func (m *MockGateway) PutSettings(ctx context.Context, s settings.Settings) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockGateway) Login(ctx context.Context, email, password string) (*user.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Session), args.Error(1)
}

func (m *MockGateway) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockGateway) SubscribeAuthChanges() (<-chan gateway.AuthChange, func()) {
	m.subscribes.Add(1)
	var once sync.Once
	return m.auth, func() { once.Do(func() { close(m.auth) }) }
}

func (m *MockGateway) SeedIfEmpty(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

type recordingOpener struct {
	links []string
	err   error
}

func (r *recordingOpener) Open(ctx context.Context, link string) error {
	r.links = append(r.links, link)
	return r.err
}

type recordingNotifier struct {
	got []*order.Handoff
	err error
}

func (r *recordingNotifier) NotifyOrder(ctx context.Context, h *order.Handoff) error {
	r.got = append(r.got, h)
	return r.err
}

var (
	catMain = category.Category{ID: "cat-2", Name: "Main Courses", Order: 2}
	catSoup = category.Category{ID: "cat-5", Name: "Sup", Order: 5}

	carbonara = menu.MenuItem{ID: "item-1", Name: "Spaghetti Carbonara", Price: 125000, CategoryID: "cat-2", IsAvailable: true}
	salmon    = menu.MenuItem{ID: "item-2", Name: "Grilled Salmon", Price: 225000, CategoryID: "cat-2", IsAvailable: false}
)

func expectLoad(gw *MockGateway, items []menu.MenuItem, cats []category.Category) {
	gw.On("ListMenuItems", mock.Anything).Return(items, nil).Once()
	gw.On("ListCategories", mock.Anything).Return(cats, nil).Once()
	gw.On("GetSettings", mock.Anything).Return(settings.Default(), nil).Once()
}

func startedStore(t *testing.T, gw *MockGateway, kv localstore.KV) (*Store, *recordingOpener) {
	t.Helper()
	gw.On("SeedIfEmpty", mock.Anything).Return(false, nil).Once()
	expectLoad(gw, []menu.MenuItem{carbonara, salmon}, []category.Category{catMain, catSoup})

	opener := &recordingOpener{}
	s := New(Options{Gateway: gw, KV: kv, Opener: opener})
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Close)
	return s, opener
}

func TestStore_Start(t *testing.T) {
	t.Run("LoadsEverything", func(t *testing.T) {
		gw := newMockGateway()
		s := New(Options{Gateway: gw, KV: localstore.NewMemoryStore(), Opener: &recordingOpener{}})

		assert.True(t, s.IsLoading())
		assert.Equal(t, AuthResolving, s.AuthState())
		assert.True(t, s.AuthLoading())

		gw.On("SeedIfEmpty", mock.Anything).Return(true, nil).Once()
		expectLoad(gw, []menu.MenuItem{carbonara}, []category.Category{catMain})

		require.NoError(t, s.Start(context.Background()))
		defer s.Close()

		assert.False(t, s.IsLoading())
		assert.Len(t, s.MenuItems(), 1)
		assert.Len(t, s.Categories(), 1)
		assert.Equal(t, "Kantin Mak Vika", s.Settings().RestaurantName)
		gw.AssertExpectations(t)
	})

	t.Run("SeedFailureDoesNotStopLoading", func(t *testing.T) {
		gw := newMockGateway()
		gw.On("SeedIfEmpty", mock.Anything).Return(false, errors.New("rate limited")).Once()
		expectLoad(gw, []menu.MenuItem{carbonara}, []category.Category{catMain})

		s := New(Options{Gateway: gw, KV: localstore.NewMemoryStore()})
		require.NoError(t, s.Start(context.Background()))
		defer s.Close()

		assert.Len(t, s.MenuItems(), 1)
	})

	t.Run("LoadFailureKeepsDefaults", func(t *testing.T) {
		gw := newMockGateway()
		gw.On("SeedIfEmpty", mock.Anything).Return(false, nil).Once()
		gw.On("ListMenuItems", mock.Anything).Return(nil, errors.New("offline"))
		gw.On("ListCategories", mock.Anything).Return([]category.Category{catMain}, nil).Maybe()
		gw.On("GetSettings", mock.Anything).Return(settings.Settings{RestaurantName: "X"}, nil).Maybe()

		s := New(Options{Gateway: gw, KV: localstore.NewMemoryStore()})
		assert.Error(t, s.Start(context.Background()))
		defer s.Close()

		assert.Empty(t, s.MenuItems())
		assert.Empty(t, s.Categories())
		assert.Equal(t, settings.Default(), s.Settings())
		assert.False(t, s.IsLoading())
		assert.Equal(t, uint64(1), s.Metrics().ReloadFailures)
	})

	t.Run("RetriesAfterFailedLoad", func(t *testing.T) {
		gw := newMockGateway()
		gw.On("SeedIfEmpty", mock.Anything).Return(false, nil).Twice()
		gw.On("ListMenuItems", mock.Anything).Return(nil, errors.New("offline")).Once()
		gw.On("ListCategories", mock.Anything).Return([]category.Category{catMain}, nil).Maybe()
		gw.On("GetSettings", mock.Anything).Return(settings.Default(), nil).Maybe()
		gw.On("ListMenuItems", mock.Anything).Return([]menu.MenuItem{carbonara}, nil).Once()

		s := New(Options{Gateway: gw, KV: localstore.NewMemoryStore()})
		defer s.Close()
		ctx := context.Background()

		require.Error(t, s.Start(ctx))
		assert.Empty(t, s.MenuItems())

		require.NoError(t, s.Start(ctx))
		assert.Len(t, s.MenuItems(), 1)

		// loaded: further calls touch nothing
		require.NoError(t, s.Start(ctx))
		assert.Equal(t, int32(1), gw.subscribes.Load())
		gw.AssertExpectations(t)
	})

	t.Run("RestoresCart", func(t *testing.T) {
		kv := localstore.NewMemoryStore()
		raw, err := cart.Marshal([]cart.OrderItem{{MenuItem: carbonara, Quantity: 2, Notes: "pedas"}})
		require.NoError(t, err)
		require.NoError(t, kv.Set(cart.StorageKey, raw))

		s, _ := startedStore(t, newMockGateway(), kv)
		require.Len(t, s.Cart(), 1)
		assert.Equal(t, 2, s.Cart()[0].Quantity)
		assert.Equal(t, "pedas", s.Cart()[0].Notes)
	})

	t.Run("CorruptCartStartsEmpty", func(t *testing.T) {
		kv := localstore.NewMemoryStore()
		require.NoError(t, kv.Set(cart.StorageKey, "not json"))

		s, _ := startedStore(t, newMockGateway(), kv)
		assert.Empty(t, s.Cart())
	})
}

func TestStore_AuthTransitions(t *testing.T) {
	gw := newMockGateway()
	s, _ := startedStore(t, gw, localstore.NewMemoryStore())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	gw.auth <- gateway.AuthChange{User: &user.AdminUser{ID: "admin-1", Email: "admin@kantin.test"}}
	require.NoError(t, s.WaitAuthResolved(ctx))
	assert.Eventually(t, s.IsAuthenticated, time.Second, 5*time.Millisecond)
	assert.Equal(t, "admin@kantin.test", s.CurrentUser().Email)

	// sign-out from elsewhere, e.g. token expiry
	gw.auth <- gateway.AuthChange{}
	assert.Eventually(t, func() bool { return s.AuthState() == AuthAnonymous }, time.Second, 5*time.Millisecond)
	assert.Nil(t, s.CurrentUser())
	assert.False(t, s.AuthLoading())
}

func TestStore_WaitAuthResolved_ContextDone(t *testing.T) {
	s := New(Options{Gateway: newMockGateway(), KV: localstore.NewMemoryStore()})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, s.WaitAuthResolved(ctx), context.DeadlineExceeded)
}

func TestStore_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure", func(t *testing.T) {
		gw := newMockGateway()
		s, _ := startedStore(t, gw, localstore.NewMemoryStore())
		gw.On("Login", ctx, "admin@kantin.test", "salah").Return(nil, gateway.ErrInvalidCredentials)

		assert.False(t, s.Login(ctx, "admin@kantin.test", "salah"))
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("Success", func(t *testing.T) {
		gw := newMockGateway()
		s, _ := startedStore(t, gw, localstore.NewMemoryStore())
		sess := &user.Session{Token: "t", User: user.AdminUser{ID: "admin-1", Email: "admin@kantin.test"}}
		gw.On("Login", ctx, "admin@kantin.test", "rahasia").Return(sess, nil)

		assert.True(t, s.Login(ctx, "admin@kantin.test", "rahasia"))
		assert.True(t, s.IsAuthenticated())
	})

	t.Run("LogoutFailureSwallowed", func(t *testing.T) {
		gw := newMockGateway()
		s, _ := startedStore(t, gw, localstore.NewMemoryStore())
		sess := &user.Session{Token: "t", User: user.AdminUser{ID: "admin-1"}}
		gw.On("Login", ctx, mock.Anything, mock.Anything).Return(sess, nil)
		gw.On("Logout", ctx).Return(errors.New("network down"))

		require.True(t, s.Login(ctx, "a", "b"))
		s.Logout(ctx)
		assert.False(t, s.IsAuthenticated())
		gw.AssertCalled(t, "Logout", ctx)
	})
}

func TestStore_AddMenuItem(t *testing.T) {
	ctx := context.Background()
	in := menu.NewMenuItem{
		Name: "Sup Buntut", Description: "Sup buntut sapi", Price: 85000,
		CategoryID: "cat-5", Image: "https://img/sup", IsAvailable: true,
	}

	t.Run("ValidationNeverReachesGateway", func(t *testing.T) {
		gw := newMockGateway()
		s, _ := startedStore(t, gw, localstore.NewMemoryStore())

		bad := in
		bad.Price = 0
		_, err := s.AddMenuItem(ctx, bad)
		assert.True(t, validation.Is(err))
		gw.AssertNotCalled(t, "CreateMenuItem", mock.Anything, mock.Anything)
	})

	t.Run("RemoteFailureLeavesStateUnchanged", func(t *testing.T) {
		gw := newMockGateway()
		s, _ := startedStore(t, gw, localstore.NewMemoryStore())
		before := s.MenuItems()
		gw.On("CreateMenuItem", ctx, in).Return("", errors.New("permission denied"))

		_, err := s.AddMenuItem(ctx, in)

		var we *gateway.WriteError
		require.ErrorAs(t, err, &we)
		assert.Equal(t, "add menu item", we.Op)
		assert.Equal(t, before, s.MenuItems())
		gw.AssertNumberOfCalls(t, "ListMenuItems", 1)
		assert.Equal(t, uint64(1), s.Metrics().WriteFailures)
	})

	t.Run("SuccessReloads", func(t *testing.T) {
		gw := newMockGateway()
		s, _ := startedStore(t, gw, localstore.NewMemoryStore())
		created := menu.MenuItem{ID: "item-3", Name: in.Name, Price: in.Price, CategoryID: in.CategoryID, IsAvailable: true}
		gw.On("CreateMenuItem", ctx, in).Return("item-3", nil)
		expectLoad(gw, []menu.MenuItem{created, carbonara, salmon}, []category.Category{catMain, catSoup})

		id, err := s.AddMenuItem(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "item-3", id)
		assert.Len(t, s.MenuItems(), 3)
		assert.Equal(t, 1, s.CategoryItemCount("cat-5"))
		gw.AssertNumberOfCalls(t, "ListMenuItems", 2)
		assert.Equal(t, uint64(1), s.Metrics().Writes)
	})

	t.Run("ReloadFailureIsNotReturned", func(t *testing.T) {
		gw := newMockGateway()
		s, _ := startedStore(t, gw, localstore.NewMemoryStore())
		gw.On("CreateMenuItem", ctx, in).Return("item-3", nil)
		gw.On("ListMenuItems", mock.Anything).Return(nil, errors.New("offline")).Once()
		gw.On("ListCategories", mock.Anything).Return([]category.Category{}, nil).Maybe()
		gw.On("GetSettings", mock.Anything).Return(settings.Default(), nil).Maybe()

		id, err := s.AddMenuItem(ctx, in)
		assert.NoError(t, err)
		assert.Equal(t, "item-3", id)
		assert.Len(t, s.MenuItems(), 2)
	})
}

func TestStore_ToggleAvailability(t *testing.T) {
	ctx := context.Background()
	gw := newMockGateway()
	s, _ := startedStore(t, gw, localstore.NewMemoryStore())

	off := false
	gw.On("UpdateMenuItem", ctx, "item-1", menu.UpdateMenuItem{IsAvailable: &off}).Return(nil)
	expectLoad(gw, []menu.MenuItem{carbonara, salmon}, []category.Category{catMain})

	require.NoError(t, s.ToggleAvailability(ctx, "item-1"))
	gw.AssertExpectations(t)

	assert.ErrorIs(t, s.ToggleAvailability(ctx, "missing"), menu.ErrMenuItemNotFound)
}

func TestStore_DeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("InUseRefusedLocally", func(t *testing.T) {
		gw := newMockGateway()
		s, _ := startedStore(t, gw, localstore.NewMemoryStore())

		assert.Equal(t, 2, s.CategoryItemCount("cat-2"))
		err := s.DeleteCategory(ctx, "cat-2")
		assert.ErrorIs(t, err, category.ErrCategoryInUse)
		gw.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything)
	})

	t.Run("EmptyCategory", func(t *testing.T) {
		gw := newMockGateway()
		s, _ := startedStore(t, gw, localstore.NewMemoryStore())
		gw.On("DeleteCategory", ctx, "cat-5").Return(nil)
		expectLoad(gw, []menu.MenuItem{carbonara, salmon}, []category.Category{catMain})

		require.NoError(t, s.DeleteCategory(ctx, "cat-5"))
		assert.Len(t, s.Categories(), 1)
	})

	t.Run("RemoteConflict", func(t *testing.T) {
		gw := newMockGateway()
		s, _ := startedStore(t, gw, localstore.NewMemoryStore())
		gw.On("DeleteCategory", ctx, "cat-5").Return(&gateway.APIError{Status: 409, Message: "category still has menu items"})

		err := s.DeleteCategory(ctx, "cat-5")
		assert.ErrorIs(t, err, gateway.ErrConflict)
		assert.Len(t, s.Categories(), 2)
	})
}

func TestStore_CategoryAndSettingsWrites(t *testing.T) {
	ctx := context.Background()
	gw := newMockGateway()
	s, _ := startedStore(t, gw, localstore.NewMemoryStore())

	_, err := s.AddCategory(ctx, category.NewCategory{})
	assert.True(t, validation.Is(err))

	assert.ErrorIs(t, s.UpdateCategory(ctx, "cat-5", category.UpdateCategory{}), category.ErrNoFieldsToUpdate)

	bad := settings.Default()
	bad.WhatsAppNumber = ""
	assert.True(t, validation.Is(s.UpdateSettings(ctx, bad)))

	updated := settings.Default()
	updated.RestaurantName = "Kantin Baru"
	gw.On("PutSettings", ctx, updated).Return(nil)
	gw.On("ListMenuItems", mock.Anything).Return([]menu.MenuItem{}, nil).Once()
	gw.On("ListCategories", mock.Anything).Return([]category.Category{}, nil).Once()
	gw.On("GetSettings", mock.Anything).Return(updated, nil).Once()

	require.NoError(t, s.UpdateSettings(ctx, updated))
	assert.Equal(t, "Kantin Baru", s.Settings().RestaurantName)
}

func TestStore_CartPersistsOnEveryChange(t *testing.T) {
	kv := localstore.NewMemoryStore()
	s, _ := startedStore(t, newMockGateway(), kv)

	stored := func() []cart.OrderItem {
		raw, err := kv.Get(cart.StorageKey)
		require.NoError(t, err)
		items, err := cart.Unmarshal(raw)
		require.NoError(t, err)
		return items
	}

	s.AddToCart(carbonara, 2, "")
	s.AddToCart(carbonara, 3, "")
	assert.Equal(t, 5, stored()[0].Quantity)

	assert.ErrorIs(t, s.AddToCartByID("item-2", 1, ""), ErrItemUnavailable)
	assert.ErrorIs(t, s.AddToCartByID("missing", 1, ""), menu.ErrMenuItemNotFound)

	s.UpdateCartItemNotes("item-1", "tanpa keju")
	assert.Equal(t, "tanpa keju", stored()[0].Notes)

	assert.Equal(t, int64(625000), s.CartTotal())
	assert.Equal(t, 5, s.CartCount())

	s.UpdateCartItemQuantity("item-1", 0)
	assert.Empty(t, stored())

	require.NoError(t, s.AddToCartByID("item-1", 1, ""))
	s.RemoveFromCart("item-1")
	assert.Empty(t, s.Cart())

	s.AddToCart(carbonara, 1, "")
	s.ClearCart()
	assert.Empty(t, stored())
}

func TestStore_SubmitOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("BlankNameRejected", func(t *testing.T) {
		s, opener := startedStore(t, newMockGateway(), localstore.NewMemoryStore())
		s.AddToCart(carbonara, 1, "")

		_, err := s.SubmitOrder(ctx, order.Customer{Name: "   "})
		assert.True(t, validation.Is(err))
		assert.Empty(t, opener.links)
		assert.Len(t, s.Cart(), 1)
	})

	t.Run("EmptyCartRejected", func(t *testing.T) {
		s, opener := startedStore(t, newMockGateway(), localstore.NewMemoryStore())

		_, err := s.SubmitOrder(ctx, order.Customer{Name: "Budi"})
		assert.ErrorIs(t, err, order.ErrEmptyCart)
		assert.Empty(t, opener.links)
	})

	t.Run("SuccessClearsCart", func(t *testing.T) {
		kv := localstore.NewMemoryStore()
		gw := newMockGateway()
		gw.On("SeedIfEmpty", mock.Anything).Return(false, nil).Once()
		expectLoad(gw, []menu.MenuItem{carbonara}, []category.Category{catMain})

		opener := &recordingOpener{}
		notifier := &recordingNotifier{err: errors.New("telegram down")}
		s := New(Options{Gateway: gw, KV: kv, Opener: opener, Notifier: notifier})
		require.NoError(t, s.Start(ctx))
		defer s.Close()

		s.AddToCart(carbonara, 2, "")
		h, err := s.SubmitOrder(ctx, order.Customer{Name: "Budi", Phone: "0812"})
		require.NoError(t, err)

		require.Len(t, opener.links, 1)
		assert.Equal(t, h.Link, opener.links[0])
		assert.Contains(t, h.Link, "https://wa.me/6281277112721?text=")
		assert.Contains(t, h.Message, "2x Spaghetti Carbonara - Rp 250.000")
		assert.Empty(t, s.Cart())
		assert.Len(t, notifier.got, 1)
		assert.Equal(t, uint64(1), s.Metrics().Handoffs)

		raw, _ := kv.Get(cart.StorageKey)
		assert.Equal(t, "[]", raw)
	})

	t.Run("OpenerFailureKeepsCart", func(t *testing.T) {
		s, opener := startedStore(t, newMockGateway(), localstore.NewMemoryStore())
		opener.err = errors.New("no browser")
		s.AddToCart(carbonara, 1, "")

		_, err := s.SubmitOrder(ctx, order.Customer{Name: "Budi"})
		assert.Error(t, err)
		assert.Len(t, s.Cart(), 1)
	})
}

func TestStore_Dashboard(t *testing.T) {
	s, _ := startedStore(t, newMockGateway(), localstore.NewMemoryStore())

	d := s.Dashboard()
	assert.Equal(t, 2, d.TotalItems)
	assert.Equal(t, 1, d.AvailableItems)
	assert.Equal(t, 1, d.UnavailableItems)
	assert.Equal(t, 2, d.TotalCategories)
	assert.Equal(t, int64(175000), d.AveragePrice)
	require.Len(t, d.ItemsPerCategory, 2)
	assert.Equal(t, 2, d.ItemsPerCategory[0].Count)
	assert.Equal(t, 0, d.ItemsPerCategory[1].Count)
	assert.Len(t, d.RecentlyUpdated, 2)

	assert.Len(t, s.AvailableMenu(menu.FilterOptions{}), 1)
	assert.Len(t, s.AvailableMenu(menu.FilterOptions{Search: "salmon"}), 0)
}
