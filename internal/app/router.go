package app

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/bendahara-app/bendahara/internal/auth"
	"github.com/bendahara-app/bendahara/internal/invoice"
	"github.com/bendahara-app/bendahara/internal/monitoring"
	"github.com/bendahara-app/bendahara/internal/observability"
	"github.com/bendahara-app/bendahara/internal/pengeluaran"
	"github.com/bendahara-app/bendahara/internal/platform/httpx"
	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/siswa"
	"github.com/bendahara-app/bendahara/internal/tunggakan"
	"github.com/bendahara-app/bendahara/internal/view"
	"github.com/bendahara-app/bendahara/jobs"
	"github.com/bendahara-app/bendahara/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Templates          *view.Engine
	SessionManager     *shared.SessionManager
	CSRFManager        *shared.CSRFManager
	AuthHandler        *auth.Handler
	InvoiceHandler     *invoice.Handler
	MonitoringHandler  *monitoring.Handler
	TunggakanHandler   *tunggakan.Handler
	PengeluaranHandler *pengeluaran.Handler
	SiswaHandler       *siswa.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		params.AuthHandler.MountRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireLogin)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			csrfToken, _ := params.CSRFManager.EnsureToken(r.Context(), sess)
			var flash *shared.FlashMessage
			if sess != nil {
				flash = sess.PopFlash()
			}
			data := view.TemplateData{
				Title:       "Beranda",
				CSRFToken:   csrfToken,
				Flash:       flash,
				CurrentPath: r.URL.Path,
				Data: map[string]any{
					"AppEnv": params.Config.AppEnv,
				},
			}
			if err := params.Templates.Render(w, "pages/home.html", data); err != nil {
				params.Logger.Error("render home", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		})

		r.Route("/tagihan", params.InvoiceHandler.MountRoutes)
		r.Route("/monitoring", params.MonitoringHandler.MountRoutes)
		r.Route("/tunggakan", params.TunggakanHandler.MountRoutes)
		r.Route("/pengeluaran", params.PengeluaranHandler.MountRoutes)
		r.Route("/siswa", params.SiswaHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
