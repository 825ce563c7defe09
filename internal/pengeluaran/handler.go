package pengeluaran

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bendahara-app/bendahara/internal/billing"
	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/upstream"
	"github.com/bendahara-app/bendahara/internal/view"
)

// maxStrukSize bounds the uploaded receipt file.
const maxStrukSize = 10 << 20

// UpstreamPort is the slice of the upstream client this flow needs.
type UpstreamPort interface {
	CreatePengeluaran(ctx context.Context, input upstream.CreatePengeluaranInput) error
}

// Handler wires the expense entry endpoints.
type Handler struct {
	logger      *slog.Logger
	upstream    UpstreamPort
	ledger      Ledger
	receipts    *ReceiptRenderer
	templates   *view.Engine
	csrfManager *shared.CSRFManager
	validator   *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, up UpstreamPort, ledger Ledger, receipts *ReceiptRenderer, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:      logger,
		upstream:    up,
		ledger:      ledger,
		receipts:    receipts,
		templates:   templates,
		csrfManager: csrf,
		validator:   validator.New(),
	}
}

// MountRoutes registers pengeluaran routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showForm)
	r.Post("/", h.handleCreate)
	r.Post("/kwitansi", h.handleReceipt)
}

type pengeluaranForm struct {
	Deskripsi string `validate:"required"`
	Kategori  string
	Satuan    string `validate:"required"`
	Kuantitas string `validate:"required"`
	Tanggal   string
}

type pageData struct {
	Form    pengeluaranForm
	Total   int64
	Entries []Record
	Errors  map[string]string
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.ListRecent(r.Context(), 20)
	if err != nil {
		h.logger.Warn("list pengeluaran ledger", slog.Any("error", err))
	}
	h.render(w, r, pageData{Entries: entries, Errors: make(map[string]string)}, http.StatusOK)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	entry, form, errs := h.parseEntry(r)
	if errs == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var strukName string
	var struk []byte
	file, header, err := r.FormFile("struk")
	if err != nil {
		errs["Struk"] = "Struk wajib diunggah"
	} else {
		defer file.Close()
		strukName = header.Filename
		struk, err = io.ReadAll(file)
		if err != nil {
			errs["Struk"] = "Struk tidak dapat dibaca"
		}
	}

	if len(errs) > 0 {
		h.render(w, r, pageData{Form: form, Total: entry.Total(), Errors: errs}, http.StatusBadRequest)
		return
	}

	input := upstream.CreatePengeluaranInput{
		Deskripsi: entry.Deskripsi,
		Kategori:  entry.Kategori,
		Satuan:    entry.Satuan,
		Kuantitas: entry.Kuantitas,
		Total:     entry.Total(),
		Tanggal:   entry.Tanggal.Format("2006-01-02"),
		StrukName: strukName,
		Struk:     struk,
	}
	if err := h.upstream.CreatePengeluaran(r.Context(), input); err != nil {
		h.logger.Error("create pengeluaran",
			slog.String("deskripsi", entry.Deskripsi),
			slog.Any("error", err))
		errs["general"] = shared.UserSafeMessage(shared.ErrUpstream)
		h.render(w, r, pageData{Form: form, Total: entry.Total(), Errors: errs}, http.StatusBadGateway)
		return
	}

	record := Record{
		ID:        uuid.New(),
		Deskripsi: entry.Deskripsi,
		Kategori:  entry.Kategori,
		Satuan:    entry.Satuan,
		Kuantitas: entry.Kuantitas,
		Total:     entry.Total(),
		StrukName: strukName,
		Tanggal:   entry.Tanggal,
		CreatedAt: time.Now(),
	}
	if err := h.ledger.Insert(r.Context(), record); err != nil {
		// The upstream already accepted the expense; a ledger gap only
		// costs the local listing one row.
		h.logger.Warn("insert pengeluaran ledger",
			slog.String("deskripsi", entry.Deskripsi),
			slog.Any("error", err))
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Pengeluaran berhasil disimpan"})
	}
	http.Redirect(w, r, "/pengeluaran", http.StatusSeeOther)
}

// handleReceipt renders the styled receipt PDF for the submitted entry
// without posting anything to the upstream.
func (h *Handler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	entry, form, errs := h.parseEntry(r)
	if errs == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if len(errs) > 0 {
		h.render(w, r, pageData{Form: form, Errors: errs}, http.StatusBadRequest)
		return
	}

	pdf, err := h.receipts.Render(entry)
	if err != nil {
		h.logger.Error("render kwitansi", slog.Any("error", err))
		errs["general"] = shared.UserSafeMessage(err)
		h.render(w, r, pageData{Form: form, Errors: errs}, http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("kwitansi_%s.pdf", entry.Tanggal.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if _, err := w.Write(pdf); err != nil {
		h.logger.Warn("write kwitansi response", slog.Any("error", err))
	}
}

// parseEntry reads the multipart form into an Entry. A nil error map
// means the request body itself was malformed.
func (h *Handler) parseEntry(r *http.Request) (Entry, pengeluaranForm, map[string]string) {
	if err := r.ParseMultipartForm(maxStrukSize); err != nil {
		return Entry{}, pengeluaranForm{}, nil
	}

	form := pengeluaranForm{
		Deskripsi: r.PostFormValue("deskripsi"),
		Kategori:  r.PostFormValue("kategori"),
		Satuan:    r.PostFormValue("satuan"),
		Kuantitas: r.PostFormValue("kuantitas"),
		Tanggal:   r.PostFormValue("tanggal"),
	}
	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errs[fieldErr.Field()] = "Wajib diisi"
		}
	}

	entry := Entry{
		Deskripsi: form.Deskripsi,
		Kategori:  form.Kategori,
		Satuan:    billing.ParseRupiah(form.Satuan),
		Tanggal:   time.Now(),
	}
	if n, err := strconv.Atoi(form.Kuantitas); err == nil && n > 0 {
		entry.Kuantitas = n
	} else if form.Kuantitas != "" {
		errs["Kuantitas"] = "Kuantitas harus bilangan positif"
	}
	if form.Tanggal != "" {
		if t, err := time.Parse("2006-01-02", form.Tanggal); err == nil {
			entry.Tanggal = t
		}
	}
	return entry, form, errs
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data pageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Pengeluaran",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/pengeluaran_form.html", viewData); err != nil {
		h.logger.Error("render pengeluaran page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
