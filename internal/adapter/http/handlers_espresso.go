package adapthttp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"espresso/internal/app"
	"espresso/internal/domain"
)

// machineData is the body returned after an operation changes the machine.
func machineData(snap app.Snapshot) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"status":          snap.Status,
			"remaining_water": fmt.Sprintf("%s litres", domain.FormatLitres(snap.Water)),
			"remaining_beans": fmt.Sprintf("%d beans", snap.Beans),
		},
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": s.espresso.Status(r.Context())})
}

func (s *Server) handleMachine(w http.ResponseWriter, r *http.Request) {
	snap, err := s.espresso.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleEspresso(w http.ResponseWriter, r *http.Request) {
	s.brew(w, r, 1)
}

func (s *Server) handleEspressos(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity json.RawMessage `json:"quantity"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	quantity, err := parseInt("quantity", body.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	s.brew(w, r, quantity)
}

func (s *Server) brew(w http.ResponseWriter, r *http.Request, quantity int) {
	_, snap, err := s.espresso.Brew(r.Context(), quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, machineData(snap))
}

func (s *Server) handleDescale(w http.ResponseWriter, r *http.Request) {
	snap, err := s.espresso.Descale(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, machineData(snap))
}

func (s *Server) handleAddBeans(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Spoons json.RawMessage `json:"spoons"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	spoons, err := parseInt("spoons", body.Spoons)
	if err != nil {
		writeError(w, err)
		return
	}
	snap, err := s.espresso.AddBeans(r.Context(), spoons)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, machineData(snap))
}

func (s *Server) handleAddWater(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Litres json.RawMessage `json:"litres"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	litres, err := parseNumber("litres", body.Litres)
	if err != nil {
		writeError(w, err)
		return
	}
	snap, err := s.espresso.AddWater(r.Context(), litres)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, machineData(snap))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 20)
	items, err := s.espresso.RecentEvents(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
