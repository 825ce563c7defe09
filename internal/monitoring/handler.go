package monitoring

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/view"
)

// maxKontrakSize bounds the uploaded contract PDF.
const maxKontrakSize = 10 << 20

// KontrakPort uploads an ekstra contract PDF to the upstream.
type KontrakPort interface {
	UploadKontrak(ctx context.Context, nisn, fileName string, pdf []byte) error
}

// Handler wires the monitoring listing and kontrak upload endpoints.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	kontrak     KontrakPort
	templates   *view.Engine
	csrfManager *shared.CSRFManager
	validator   *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, kontrak KontrakPort, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		kontrak:     kontrak,
		templates:   templates,
		csrfManager: csrf,
		validator:   validator.New(),
	}
}

// MountRoutes registers monitoring routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ekstra/kontrak", h.showKontrakForm)
	r.Post("/ekstra/kontrak", h.handleKontrakUpload)
	r.Get("/{slug}", h.showListing)
}

type listingPageData struct {
	Judul          string
	Query          string
	Jenjang        string
	JenjangOptions []string
	Entries        []Row
	Errors         map[string]string
}

func (h *Handler) showListing(w http.ResponseWriter, r *http.Request) {
	page := PageBySlug(chi.URLParam(r, "slug"))
	if page == nil {
		http.NotFound(w, r)
		return
	}

	data := listingPageData{
		Judul:          page.Judul,
		Query:          r.URL.Query().Get("q"),
		Jenjang:        r.URL.Query().Get("jenjang"),
		JenjangOptions: page.JenjangOptions,
		Errors:         make(map[string]string),
	}

	rows, err := h.service.List(r.Context(), currentUserID(r), *page, data.Query, data.Jenjang)
	if err != nil {
		h.logger.Warn("fetch monitoring listing",
			slog.String("page", page.Slug),
			slog.Any("error", err))
		data.Errors["general"] = shared.UserSafeMessage(shared.ErrUpstream)
	} else {
		data.Entries = rows
	}

	h.render(w, r, "pages/monitoring.html", page.Judul, data, http.StatusOK)
}

type kontrakForm struct {
	NISN    string `validate:"required"`
	Mulai   string `validate:"required"`
	Selesai string `validate:"required"`
}

type kontrakPageData struct {
	Form   kontrakForm
	Errors map[string]string
}

func (h *Handler) showKontrakForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/kontrak_form.html", "Kontrak Ekstrakurikuler",
		kontrakPageData{Errors: make(map[string]string)}, http.StatusOK)
}

func (h *Handler) handleKontrakUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxKontrakSize); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := kontrakForm{
		NISN:    r.PostFormValue("nisn"),
		Mulai:   r.PostFormValue("mulai"),
		Selesai: r.PostFormValue("selesai"),
	}
	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errs[fieldErr.Field()] = "Wajib diisi"
		}
	}
	if msg := validateKontrakDates(form.Mulai, form.Selesai); msg != "" && errs["Selesai"] == "" {
		errs["Selesai"] = msg
	}

	var fileName string
	var pdf []byte
	file, header, err := r.FormFile("file")
	if err != nil {
		errs["File"] = "Berkas kontrak wajib diunggah"
	} else {
		defer file.Close()
		fileName = header.Filename
		pdf, err = io.ReadAll(file)
		if err != nil {
			errs["File"] = "Berkas kontrak tidak dapat dibaca"
		}
	}

	if len(errs) > 0 {
		h.render(w, r, "pages/kontrak_form.html", "Kontrak Ekstrakurikuler",
			kontrakPageData{Form: form, Errors: errs}, http.StatusBadRequest)
		return
	}

	if err := h.kontrak.UploadKontrak(r.Context(), form.NISN, fileName, pdf); err != nil {
		h.logger.Error("upload kontrak",
			slog.String("nisn", form.NISN),
			slog.Any("error", err))
		errs["general"] = shared.UserSafeMessage(shared.ErrUpstream)
		h.render(w, r, "pages/kontrak_form.html", "Kontrak Ekstrakurikuler",
			kontrakPageData{Form: form, Errors: errs}, http.StatusBadGateway)
		return
	}

	if err := h.service.MarkEdited(r.Context(), currentUserID(r), "ekstra", form.NISN); err != nil {
		h.logger.Warn("set highlight signal", slog.Any("error", err))
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Kontrak berhasil diunggah"})
	}
	http.Redirect(w, r, "/monitoring/ekstra", http.StatusSeeOther)
}

// validateKontrakDates enforces that the contract start date precedes
// the end date. Unparseable dates are reported by the required check.
func validateKontrakDates(mulai, selesai string) string {
	start, err1 := time.Parse("2006-01-02", mulai)
	end, err2 := time.Parse("2006-01-02", selesai)
	if err1 != nil || err2 != nil {
		return ""
	}
	if !start.Before(end) {
		return "Tanggal selesai harus setelah tanggal mulai"
	}
	return ""
}

func currentUserID(r *http.Request) string {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return sess.User()
	}
	return ""
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render monitoring page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
