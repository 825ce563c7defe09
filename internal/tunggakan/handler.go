// Package tunggakan handles prior-year arrears entries: a create form
// posting to the upstream and a filterable listing of existing entries.
package tunggakan

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bendahara-app/bendahara/internal/billing"
	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/upstream"
	"github.com/bendahara-app/bendahara/internal/view"
)

// UpstreamPort is the slice of the upstream client this flow needs.
type UpstreamPort interface {
	CreateTunggakan(ctx context.Context, input upstream.CreateTunggakanInput) error
	FetchMonitoring(ctx context.Context, path string, query url.Values) ([]upstream.MonitoringEntry, error)
}

// Handler wires the tunggakan form and listing.
type Handler struct {
	logger      *slog.Logger
	upstream    UpstreamPort
	templates   *view.Engine
	csrfManager *shared.CSRFManager
	validator   *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, up UpstreamPort, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:      logger,
		upstream:    up,
		templates:   templates,
		csrfManager: csrf,
		validator:   validator.New(),
	}
}

// MountRoutes registers tunggakan routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showPage)
	r.Post("/", h.handleCreate)
}

type tunggakanForm struct {
	NISN        string `validate:"required"`
	TahunAjaran string `validate:"required"`
	Jumlah      string `validate:"required"`
	Keterangan  string
}

type pageData struct {
	Form    tunggakanForm
	Query   string
	Entries []upstream.MonitoringEntry
	Errors  map[string]string
}

func (h *Handler) showPage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Query:  r.URL.Query().Get("q"),
		Errors: make(map[string]string),
	}
	h.loadListing(r, &data)
	h.render(w, r, data, http.StatusOK)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := tunggakanForm{
		NISN:        r.PostFormValue("nisn"),
		TahunAjaran: r.PostFormValue("tahun_ajaran"),
		Jumlah:      r.PostFormValue("jumlah"),
		Keterangan:  r.PostFormValue("keterangan"),
	}
	data := pageData{Form: form, Errors: make(map[string]string)}
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			data.Errors[fieldErr.Field()] = "Wajib diisi"
		}
		h.loadListing(r, &data)
		h.render(w, r, data, http.StatusBadRequest)
		return
	}

	input := upstream.CreateTunggakanInput{
		NISN:        form.NISN,
		TahunAjaran: form.TahunAjaran,
		Jumlah:      billing.ParseRupiah(form.Jumlah),
		Keterangan:  strings.TrimSpace(form.Keterangan),
	}
	if err := h.upstream.CreateTunggakan(r.Context(), input); err != nil {
		h.logger.Error("create tunggakan",
			slog.String("nisn", form.NISN),
			slog.Any("error", err))
		data.Errors["general"] = shared.UserSafeMessage(shared.ErrUpstream)
		h.loadListing(r, &data)
		h.render(w, r, data, http.StatusBadGateway)
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Tunggakan berhasil disimpan"})
	}
	http.Redirect(w, r, "/tunggakan", http.StatusSeeOther)
}

func (h *Handler) loadListing(r *http.Request, data *pageData) {
	entries, err := h.upstream.FetchMonitoring(r.Context(), "tunggakan", nil)
	if err != nil {
		h.logger.Warn("fetch tunggakan listing", slog.Any("error", err))
		data.Errors["general"] = shared.UserSafeMessage(shared.ErrUpstream)
		return
	}
	needle := strings.ToLower(strings.TrimSpace(data.Query))
	for _, entry := range entries {
		if needle != "" && !strings.Contains(strings.ToLower(entry.Nama), needle) {
			continue
		}
		data.Entries = append(data.Entries, entry)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data pageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Tunggakan",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/tunggakan_form.html", viewData); err != nil {
		h.logger.Error("render tunggakan page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
