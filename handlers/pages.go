package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/dchest/captcha"
	"github.com/go-chi/chi/v5"

	"vendex/logger"
	"vendex/models"
	"vendex/reports"
)

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if p := principal(r); p != nil {
		s.redirect(w, r, p.Role.HomePath())
		return
	}
	s.page(w, r, http.StatusOK, "index.html", nil)
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "login.html", nil)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ip := getClientIP(r)
	if !s.loginLimiter.Allow(ip) {
		s.flash(w, r, flashDanger, "TooManyAttempts")
		s.page(w, r, http.StatusTooManyRequests, "login.html", nil)
		return
	}

	p, err := s.auth.Authenticate(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if key, ok := models.IsValidation(err); ok {
		s.flash(w, r, flashDanger, key)
		s.redirect(w, r, "/login")
		return
	}
	if err != nil {
		s.loginLimiter.RecordFailure(ip)
		s.flash(w, r, flashDanger, "InvalidCredentials")
		s.redirect(w, r, "/login")
		return
	}
	s.loginLimiter.Reset(ip)

	if err := s.sessions.Save(w, r, p); err != nil {
		logger.Log.Errorw("could not save session", "user_id", p.UserID, "error", err)
		s.flash(w, r, flashDanger, "SaveFailed")
		s.redirect(w, r, "/login")
		return
	}
	logger.Log.Infow("user logged in", "user_id", p.UserID, "role", p.Role)
	s.flash(w, r, flashSuccess, "WelcomeBack", p.Username, p.Role)
	s.redirect(w, r, p.Role.HomePath())
}

func (s *Server) registerForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	if s.opts.RegisterCaptcha {
		data["CaptchaID"] = captcha.New()
	}
	s.page(w, r, http.StatusOK, "register.html", data)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	ip := getClientIP(r)
	if !s.registerLimiter.Allow(ip) {
		s.flash(w, r, flashDanger, "TooManyAttempts")
		s.redirect(w, r, "/register")
		return
	}
	// Every attempt counts so one IP cannot mass-create accounts.
	s.registerLimiter.RecordFailure(ip)

	if s.opts.RegisterCaptcha && !captcha.VerifyString(r.FormValue("captcha_id"), r.FormValue("captcha")) {
		s.flash(w, r, flashDanger, "InvalidCaptcha")
		s.redirect(w, r, "/register")
		return
	}

	_, err := s.auth.Register(r.Context(),
		r.FormValue("username"), r.FormValue("password"), r.FormValue("confirm_password"))
	if key, ok := models.IsValidation(err); ok {
		s.flash(w, r, flashDanger, key)
		s.redirect(w, r, "/register")
		return
	}
	if err != nil {
		logger.Log.Errorw("registration failed", "error", err)
		s.flash(w, r, flashDanger, "SaveFailed")
		s.redirect(w, r, "/register")
		return
	}
	s.flash(w, r, flashSuccess, "RegistrationSuccessful")
	s.redirect(w, r, "/login")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	username := "User"
	if p := principal(r); p != nil {
		username = p.Username
	}
	if err := s.sessions.Clear(w, r); err != nil {
		logger.Log.Warnw("could not clear session", "error", err)
	}
	s.flash(w, r, flashInfo, "Goodbye", username)
	s.redirect(w, r, "/")
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.page(w, r, http.StatusOK, "dashboard.html", map[string]any{
		"Snacks":     s.inventory.ListSnacks(ctx),
		"ShelfLife":  s.inventory.ExpiringSoon(ctx, s.opts.ShelfLifeDays),
		"TotalStock": s.inventory.TotalStock(ctx),
	})
}

func (s *Server) shelfLife(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "shelf_life.html", map[string]any{
		"Snacks": s.inventory.ExpiringSoon(r.Context(), s.opts.ShelfLifeDays),
		"Days":   s.opts.ShelfLifeDays,
	})
}

func (s *Server) inventoryPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.page(w, r, http.StatusOK, "inventory.html", map[string]any{
		"Snacks":            s.inventory.WithDaysLeft(ctx),
		"Summary":           s.inventory.Summary(ctx, s.opts.InventoryExpiryDays, s.opts.LowStockThreshold),
		"ExpiryDays":        s.opts.InventoryExpiryDays,
		"LowStockThreshold": s.opts.LowStockThreshold,
	})
}

func (s *Server) machineList(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "machines.html", map[string]any{
		"Machines": s.machines.ListMachines(r.Context()),
	})
}

func (s *Server) machineDetail(w http.ResponseWriter, r *http.Request) {
	m, ok := s.machineParam(r)
	if !ok {
		s.flash(w, r, flashDanger, "MachineNotFound")
		s.redirect(w, r, "/machines")
		return
	}
	s.page(w, r, http.StatusOK, "machine.html", map[string]any{"Machine": m})
}

func (s *Server) machineView(w http.ResponseWriter, r *http.Request) {
	m, ok := s.machineParam(r)
	if !ok {
		s.flash(w, r, flashDanger, "MachineNotFound")
		s.redirect(w, r, "/machines")
		return
	}
	s.page(w, r, http.StatusOK, "machine_view.html", map[string]any{
		"Machine": m,
		"Snacks":  s.inventory.ListSnacks(r.Context()),
	})
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	popularity := s.reports.PopularityRanking(ctx)
	if len(popularity) > 0 {
		// failures are logged by the refresher; the page shows the tables anyway
		_ = s.charts.Refresh(ctx)
	}
	s.page(w, r, http.StatusOK, "analytics.html", map[string]any{
		"Updates":         s.ledger.All(ctx, 0),
		"Popularity":      popularity,
		"VendorActivity":  s.reports.VendorActivityRanking(ctx),
		"MachineActivity": s.reports.MachineActivityRanking(ctx),
		"ChartExists":     fileExists(s.charts.ChartPath()),
	})
}

func (s *Server) popularityChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.charts.EnsureChart(ctx); err != nil {
		s.flash(w, r, flashInfo, "NoAnalyticsData")
		s.redirect(w, r, principal(r).Role.HomePath())
		return
	}
	s.page(w, r, http.StatusOK, "popularity_chart.html", map[string]any{
		"Stats":       reports.Top(s.reports.PopularityRanking(ctx), reports.ChartSize),
		"ChartExists": fileExists(s.charts.ChartPath()),
	})
}

func (s *Server) chartImage(w http.ResponseWriter, r *http.Request) {
	path := s.charts.ChartPath()
	if !fileExists(path) {
		http.Error(w, "Chart not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

func (s *Server) qrAccess(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "qr_access.html", map[string]any{
		"Machines": s.machines.ListMachines(r.Context()),
	})
}

func (s *Server) qrDisplay(w http.ResponseWriter, r *http.Request) {
	m, ok := s.machineParam(r)
	if !ok {
		s.flash(w, r, flashDanger, "MachineNotFound")
		s.redirect(w, r, "/qr_access")
		return
	}
	if !fileExists(s.machines.QRPath(m.ID)) {
		s.flash(w, r, flashWarning, "QRNotFound")
		s.redirect(w, r, "/qr_access")
		return
	}
	s.page(w, r, http.StatusOK, "qr_display.html", map[string]any{"Machine": m})
}

func (s *Server) qrImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "QR image not found", http.StatusNotFound)
		return
	}
	path := s.machines.QRPath(id)
	if !fileExists(path) {
		http.Error(w, "QR image not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

func (s *Server) vendorUpdateForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.page(w, r, http.StatusOK, "vendor_update.html", map[string]any{
		"Machines":      s.machines.ListMachines(ctx),
		"RecentUpdates": s.ledger.RecentForVendor(ctx, principal(r).Username, 0),
		"UpdateTypes":   []models.UpdateType{models.UpdateRestock, models.UpdateMaintenance, models.UpdateIssue},
	})
}

func (s *Server) vendorUpdate(w http.ResponseWriter, r *http.Request) {
	out, err := s.ledger.RecordUpdate(r.Context(), principal(r).Username,
		r.FormValue("machine"), r.FormValue("info"), models.UpdateType(r.FormValue("update_type")))
	if !s.flashError(w, r, err) {
		s.flash(w, r, flashSuccess, "UpdateSubmitted")
		if out.ArtifactErr != nil {
			s.flash(w, r, flashInfo, "ChartNotRefreshed")
		}
	}
	s.redirect(w, r, "/vendor_update")
}

// flashError turns a failed write into a flash message and reports whether
// there was an error.
func (s *Server) flashError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if key, ok := models.IsValidation(err); ok {
		s.flash(w, r, flashDanger, key)
		return true
	}
	logger.Log.Errorw("write failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
	s.flash(w, r, flashDanger, "SaveFailed")
	return true
}

func (s *Server) machineParam(r *http.Request) (models.Machine, bool) {
	id, err := idParam(r)
	if err != nil {
		return models.Machine{}, false
	}
	return s.machines.GetMachine(r.Context(), id)
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
