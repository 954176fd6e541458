package handlers

import (
	"errors"
	"net/http"

	"vendex/inventory"
	"vendex/models"
)

func (s *Server) adminPanel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	machines := s.machines.ListMachines(ctx)
	s.page(w, r, http.StatusOK, "admin.html", map[string]any{
		"Machines":      machines,
		"Snacks":        s.inventory.ListSnacks(ctx),
		"Users":         s.users.ListUsers(ctx),
		"TotalMachines": len(machines),
		"TotalStock":    s.inventory.TotalStock(ctx),
		"Expiring":      len(s.inventory.ExpiringSoon(ctx, s.opts.ShelfLifeDays)),
	})
}

func (s *Server) addSnack(w http.ResponseWriter, r *http.Request) {
	form := inventory.SnackForm{
		Name:     r.FormValue("name"),
		Expiry:   r.FormValue("expiry"),
		Stock:    r.FormValue("stock"),
		Price:    r.FormValue("price"),
		Category: r.FormValue("category"),
	}
	if _, err := s.inventory.AddSnack(r.Context(), form); !s.flashError(w, r, err) {
		s.flash(w, r, flashSuccess, "SnackAdded", form.Name)
	}
	s.redirect(w, r, "/admin")
}

func (s *Server) updateSnack(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.flash(w, r, flashDanger, "SnackNotFound")
		s.redirect(w, r, "/admin")
		return
	}
	if err := s.inventory.UpdateStock(r.Context(), id, r.FormValue("stock")); !s.flashError(w, r, err) {
		s.flash(w, r, flashSuccess, "StockUpdated")
	}
	s.redirect(w, r, "/admin")
}

func (s *Server) deleteSnack(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.flash(w, r, flashDanger, "SnackNotFound")
		s.redirect(w, r, "/admin")
		return
	}
	name, err := s.inventory.DeleteSnack(r.Context(), id)
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.flash(w, r, flashDanger, "SnackNotFound")
	case !s.flashError(w, r, err):
		s.flash(w, r, flashSuccess, "SnackDeleted", name)
	}
	s.redirect(w, r, "/admin")
}

func (s *Server) addMachine(w http.ResponseWriter, r *http.Request) {
	out, err := s.machines.AddMachine(r.Context(), r.FormValue("name"), r.FormValue("location"))
	if !s.flashError(w, r, err) {
		s.flash(w, r, flashSuccess, "MachineAdded", out.Name)
		if out.ArtifactErr != nil {
			s.flash(w, r, flashWarning, "QRGenerationFailed")
		} else {
			s.flash(w, r, flashInfo, "QRGenerated")
		}
	}
	s.redirect(w, r, "/admin")
}

func (s *Server) deleteMachine(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.flash(w, r, flashDanger, "MachineNotFound")
		s.redirect(w, r, "/admin")
		return
	}
	out, err := s.machines.DeleteMachine(r.Context(), id)
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.flash(w, r, flashDanger, "MachineNotFound")
	case !s.flashError(w, r, err):
		s.flash(w, r, flashSuccess, "MachineDeleted", out.Name)
		if out.ArtifactErr != nil {
			s.flash(w, r, flashWarning, "QRRemovalFailed")
		}
	}
	s.redirect(w, r, "/admin")
}

func (s *Server) regenerateQR(w http.ResponseWriter, r *http.Request) {
	n, err := s.machines.RegenerateQR(r.Context())
	if err != nil {
		s.flash(w, r, flashWarning, "QRRegenerationPartial", n)
	} else {
		s.flash(w, r, flashSuccess, "QRRegenerated", n)
	}
	s.redirect(w, r, "/admin")
}

func (s *Server) viewUpdates(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "view_updates.html", map[string]any{
		"Updates": s.ledger.All(r.Context(), 0),
	})
}
