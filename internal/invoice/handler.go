package invoice

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bendahara-app/bendahara/internal/billing"
	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/view"
)

// LoadFailureMessage is shown when the snapshot lookup fails for any
// reason, including an unknown NISN.
const LoadFailureMessage = "Gagal mengambil data tagihan. Pastikan NISN valid."

// Handler wires HTTP endpoints for the invoice flow.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	templates   *view.Engine
	csrfManager *shared.CSRFManager
	validator   *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		templates:   templates,
		csrfManager: csrf,
		validator:   validator.New(),
	}
}

// MountRoutes registers invoice routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/buat", h.showForm)
	r.Post("/buat", h.handleIssue)
}

type formPageData struct {
	NISN     string
	Snapshot *billing.Snapshot
	Recent   []Record
	Errors   map[string]string
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	data := formPageData{
		NISN:   r.URL.Query().Get("nisn"),
		Errors: make(map[string]string),
	}
	recent, err := h.service.Recent(r.Context(), 10)
	if err != nil {
		h.logger.Warn("list tagihan arsip", slog.Any("error", err))
	}
	data.Recent = recent
	if data.NISN != "" {
		snapshot, err := h.service.Load(r.Context(), data.NISN)
		if err != nil {
			h.logger.Warn("load tagihan",
				slog.String("nisn", data.NISN),
				slog.Any("error", err))
			data.Errors["general"] = LoadFailureMessage
		} else {
			data.Snapshot = snapshot
		}
	}
	h.renderForm(w, r, data, http.StatusOK)
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	input := IssueInput{
		NISN:     r.PostFormValue("nisn"),
		Semester: r.PostFormValue("semester"),
		Periode:  r.PostFormValue("periode"),
		Catatan:  r.PostFormValue("catatan"),
		Masuk:    make(map[billing.Category]int64),
	}
	for _, c := range billing.AllCategories() {
		input.Masuk[c] = billing.ParseRupiah(r.PostFormValue("masuk_" + string(c)))
	}
	if raw := r.PostFormValue("jatuh_tempo"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			input.JatuhTempo = t
		}
	}

	data := formPageData{NISN: input.NISN, Errors: make(map[string]string)}
	if err := h.validator.Struct(input); err != nil {
		data.Errors["general"] = "NISN wajib diisi"
		h.renderForm(w, r, data, http.StatusBadRequest)
		return
	}

	issued, err := h.service.Issue(r.Context(), input)
	if err != nil {
		h.logger.Error("issue tagihan",
			slog.String("nisn", input.NISN),
			slog.Any("error", err))
		data.Errors["general"] = LoadFailureMessage
		if snapshot, loadErr := h.service.Load(r.Context(), input.NISN); loadErr == nil {
			data.Snapshot = snapshot
		}
		h.renderForm(w, r, data, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", issued.FileName))
	if _, err := w.Write(issued.PDF); err != nil {
		h.logger.Warn("write pdf response", slog.Any("error", err))
	}
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data formPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Buat Tagihan",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/tagihan_form.html", viewData); err != nil {
		h.logger.Error("render tagihan form", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
