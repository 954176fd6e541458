// Package handlers is the HTTP surface: chi routes, role gates, HTML pages
// and the JSON API.
package handlers

import (
	"context"
	"net/http"

	"github.com/dchest/captcha"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"vendex/auth"
	"vendex/i18n"
	"vendex/inventory"
	"vendex/ledger"
	"vendex/logger"
	"vendex/machines"
	"vendex/models"
	"vendex/reports"
)

const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashDanger  = "danger"
)

type Options struct {
	AppName             string
	StaticDir           string
	ShelfLifeDays       int
	InventoryExpiryDays int
	LowStockThreshold   int
	RegisterCaptcha     bool
	// CSRF wraps the form routes. nil disables CSRF protection.
	CSRF func(http.Handler) http.Handler
}

type UserLister interface {
	ListUsers(ctx context.Context) []models.User
}

type Deps struct {
	Auth      *auth.Service
	Sessions  *auth.Sessions
	Tokens    *auth.Tokens
	Users     UserLister
	Inventory *inventory.Service
	Ledger    *ledger.Service
	Reports   *reports.Service
	Charts    *reports.ChartRefresher
	Machines  *machines.Service
	Renderer  Renderer
}

type Server struct {
	opts      Options
	auth      *auth.Service
	sessions  *auth.Sessions
	tokens    *auth.Tokens
	users     UserLister
	inventory *inventory.Service
	ledger    *ledger.Service
	reports   *reports.Service
	charts    *reports.ChartRefresher
	machines  *machines.Service
	renderer  Renderer

	loginLimiter    *rateLimiter
	registerLimiter *rateLimiter
}

func NewServer(opts Options, deps Deps) *Server {
	return &Server{
		opts:            opts,
		auth:            deps.Auth,
		sessions:        deps.Sessions,
		tokens:          deps.Tokens,
		users:           deps.Users,
		inventory:       deps.Inventory,
		ledger:          deps.Ledger,
		reports:         deps.Reports,
		charts:          deps.Charts,
		machines:        deps.Machines,
		renderer:        deps.Renderer,
		loginLimiter:    newRateLimiter(),
		registerLimiter: newRateLimiter(),
	}
}

// NewRouter wires every route of the application.
func NewRouter(opts Options, deps Deps) http.Handler {
	return NewServer(opts, deps).Routes()
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(LoggingMiddleware(logger.Log))
	r.Use(SecurityHeadersMiddleware)
	r.Use(s.loadPrincipal)

	r.NotFound(s.notFound)

	if s.opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.opts.StaticDir))))
	}
	if s.opts.RegisterCaptcha {
		r.Handle("/captcha/*", captcha.Server(captcha.StdWidth, captcha.StdHeight))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(CORSMiddleware)
		r.Post("/login", s.apiLogin)
		r.With(s.requireAPIPrincipal).Get("/snacks", s.apiSnacks)
	})

	r.Group(func(r chi.Router) {
		if s.opts.CSRF != nil {
			r.Use(s.opts.CSRF)
		}

		r.Get("/", s.index)
		r.Get("/login", s.loginForm)
		r.Post("/login", s.login)
		r.Get("/register", s.registerForm)
		r.Post("/register", s.register)
		r.Get("/logout", s.logout)

		r.With(s.RequireRole(models.RoleEmployee)).Get("/dashboard", s.dashboard)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireRole(models.RoleAdmin))
			r.Get("/admin", s.adminPanel)
			r.Post("/add_snack", s.addSnack)
			r.Post("/update_snack/{id}", s.updateSnack)
			r.Post("/delete_snack/{id}", s.deleteSnack)
			r.Post("/add_machine", s.addMachine)
			r.Post("/delete_machine/{id}", s.deleteMachine)
			r.Post("/regenerate_qr", s.regenerateQR)
			r.Get("/view_updates", s.viewUpdates)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.RequireRole(models.RoleVendor))
			r.Get("/vendor_update", s.vendorUpdateForm)
			r.Post("/vendor_update", s.vendorUpdate)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.RequireRole(models.AnyRole))
			r.Get("/shelf_life", s.shelfLife)
			r.Get("/machines", s.machineList)
			r.Get("/machine/{id}", s.machineDetail)
			r.Get("/machine_view/{id}", s.machineView)
			r.Get("/inventory", s.inventoryPage)
			r.Get("/analytics", s.analytics)
			r.Get("/popularity_chart", s.popularityChart)
			r.Get("/qr_access", s.qrAccess)
			r.Get("/qr/{id}", s.qrDisplay)
			r.Get("/qr_image/{id}", s.qrImage)
			r.Get("/chart_image", s.chartImage)
		})
	})

	return r
}

// flash queues a translated message for the next rendered page.
func (s *Server) flash(w http.ResponseWriter, r *http.Request, category, key string, args ...any) {
	lang := i18n.DetectLanguage(r)
	msg := i18n.T(lang, key)
	if len(args) > 0 {
		msg = i18n.Tf(lang, key, args...)
	}
	if err := s.sessions.AddFlash(w, r, auth.Flash{Category: category, Message: msg}); err != nil {
		logger.Log.Warnw("could not store flash message", "key", key, "error", err)
	}
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusNotFound, "404.html", nil)
}
