// Package siswa proxies the upstream student search and keeps the
// per-admin jenjang preference.
package siswa

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bendahara-app/bendahara/internal/billing"
	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/view"
)

// jenjangPref names the stored preference key.
const jenjangPref = "jenjang"

// SearchPort is the slice of the upstream client this flow needs.
type SearchPort interface {
	SearchSiswa(ctx context.Context, query string) ([]billing.Siswa, error)
}

// Handler wires the student search page.
type Handler struct {
	logger      *slog.Logger
	upstream    SearchPort
	signals     *shared.SignalStore
	templates   *view.Engine
	csrfManager *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, up SearchPort, signals *shared.SignalStore, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:      logger,
		upstream:    up,
		signals:     signals,
		templates:   templates,
		csrfManager: csrf,
	}
}

// MountRoutes registers siswa routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/cari", h.handleSearch)
	r.Post("/jenjang", h.handleSetJenjang)
}

type searchPageData struct {
	Query   string
	Jenjang string
	Results []billing.Siswa
	Errors  map[string]string
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	data := searchPageData{
		Query:  strings.TrimSpace(r.URL.Query().Get("query")),
		Errors: make(map[string]string),
	}
	if h.signals != nil {
		data.Jenjang = h.signals.Preference(r.Context(), userID, jenjangPref, "")
	}

	if data.Query != "" {
		results, err := h.upstream.SearchSiswa(r.Context(), data.Query)
		if err != nil {
			h.logger.Warn("search siswa",
				slog.String("query", data.Query),
				slog.Any("error", err))
			data.Errors["general"] = shared.UserSafeMessage(shared.ErrUpstream)
		} else {
			if data.Jenjang != "" {
				results = filterJenjang(results, data.Jenjang)
			}
			data.Results = results
		}
	}

	h.render(w, r, data, http.StatusOK)
}

// handleSetJenjang stores the admin's jenjang filter so later searches
// and listings default to it.
func (h *Handler) handleSetJenjang(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if h.signals != nil {
		value := r.PostFormValue("jenjang")
		if err := h.signals.SetPreference(r.Context(), currentUserID(r), jenjangPref, value); err != nil {
			h.logger.Warn("set jenjang preference", slog.Any("error", err))
		}
	}
	http.Redirect(w, r, "/siswa/cari", http.StatusSeeOther)
}

func filterJenjang(results []billing.Siswa, jenjang string) []billing.Siswa {
	out := results[:0]
	for _, s := range results {
		if s.Jenjang == jenjang {
			out = append(out, s)
		}
	}
	return out
}

func currentUserID(r *http.Request) string {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return sess.User()
	}
	return ""
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data searchPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Cari Siswa",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/siswa_cari.html", viewData); err != nil {
		h.logger.Error("render siswa page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
