package httpapi

import (
	"net/http"

	"kantin-be/internal/auth"
	"kantin-be/internal/category"
	"kantin-be/internal/menu"
	"kantin-be/internal/middleware"
	"kantin-be/internal/settings"
	"kantin-be/internal/utils"

	"github.com/gorilla/mux"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---------- menu items ----------

func (h *Handler) listMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	if q.Has("category") || q.Has("q") || q.Get("available") == "true" {
		items = menu.Filter(items, menu.FilterOptions{
			CategoryID:    q.Get("category"),
			Search:        q.Get("q"),
			OnlyAvailable: q.Get("available") == "true",
		})
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.menu.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var in menu.NewMenuItem
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.menu.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in menu.UpdateMenuItem
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.menu.Update(r.Context(), mux.Vars(r)["id"], in); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- categories ----------

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cats)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in category.NewCategory
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.categories.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var in category.UpdateCategory
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.categories.Update(r.Context(), mux.Vars(r)["id"], in); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- settings & seed ----------

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) putSettings(w http.ResponseWriter, r *http.Request) {
	var in settings.Settings
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.settings.Update(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) seed(w http.ResponseWriter, r *http.Request) {
	seeded, err := h.seeder.SeedIfEmpty(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"seeded": seeded})
}

// ---------- auth ----------

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, sess.Token, sess.ExpiresAt, h.secureCookies)
	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context(), auth.ExtractAccessToken(r)); err != nil {
		writeError(w, r, err)
		return
	}
	auth.ClearSessionCookie(w, h.secureCookies)
	w.WriteHeader(http.StatusNoContent)
}
