// Package http exposes the comm bridge and variable explorer over HTTP for
// sidecar UIs that reach the kernel through a gateway: JSON endpoints for
// inbound traffic, an SSE stream and a websocket for outbound traffic.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/sidecomm"
	"github.com/aretw0/sidecomm/pkg/adapters/ws"
	"github.com/aretw0/sidecomm/pkg/bridge"
	"github.com/aretw0/sidecomm/pkg/formcell"
	"github.com/aretw0/sidecomm/pkg/ports"
	"github.com/aretw0/sidecomm/pkg/schema"
	"github.com/aretw0/sidecomm/pkg/varexplorer"
)

// Server routes sidecar HTTP traffic to the comm bridge and the namespace.
type Server struct {
	Bridge    *bridge.Bridge
	Fanout    *bridge.Fanout
	Namespace ports.Namespace
}

// NewHandler creates the HTTP handler for a kernel's comm surface.
func NewHandler(b *bridge.Bridge, fanout *bridge.Fanout, ns ports.Namespace) http.Handler {
	server := &Server{
		Bridge:    b,
		Fanout:    fanout,
		Namespace: ns,
	}

	r := chi.NewRouter()

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/form-cells", func(r chi.Router) {
		r.Post("/", server.CreateFormCell)
		r.Get("/", server.ListFormCells)
		r.Get("/{id}", server.GetFormCell)
		r.Post("/{id}", server.UpdateFormCell)
	})

	r.Get("/events", server.SubscribeEvents)
	r.Get("/ws", ws.NewHandler(b, fanout).ServeHTTP)

	r.Route("/variables", func(r chi.Router) {
		r.Get("/", server.ListVariables)
		r.Put("/{name}", server.SetVariable)
		r.Post("/{name}/rename", server.RenameVariable)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateFormCell handles POST /form-cells: the inbound create message.
func (s *Server) CreateFormCell(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("CreateFormCell: invalid request body", "error", err)
		return
	}

	cell, err := s.Bridge.Create(r.Context(), data)
	if err != nil {
		status := http.StatusInternalServerError
		if isClientError(err) {
			status = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("Create error: %v", err), status)
		slog.Warn("CreateFormCell failed", "error", err)
		return
	}

	writeJSON(w, http.StatusCreated, cellResponse(cell))
}

// UpdateFormCell handles POST /form-cells/{id}: a partial update. Unknown
// identities are accepted and ignored, the cell may belong to another
// session.
func (s *Server) UpdateFormCell(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("UpdateFormCell: invalid request body", "error", err)
		return
	}

	id := chi.URLParam(r, "id")
	applied, err := s.Bridge.Apply(r.Context(), id, patch)
	if err != nil {
		status := http.StatusInternalServerError
		if isClientError(err) {
			status = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("Update error: %v", err), status)
		slog.Warn("UpdateFormCell failed", "id", id, "error", err)
		return
	}

	if !applied {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "ignored"})
		return
	}

	cell, _ := s.Bridge.Get(id)
	writeJSON(w, http.StatusOK, cellResponse(cell))
}

// ListFormCells handles GET /form-cells.
func (s *Server) ListFormCells(w http.ResponseWriter, r *http.Request) {
	cells := s.Bridge.Cells()
	out := make([]map[string]any, 0, len(cells))
	for _, cell := range cells {
		out = append(out, cellResponse(cell))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetFormCell handles GET /form-cells/{id}.
func (s *Server) GetFormCell(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cell, ok := s.Bridge.Get(id)
	if !ok {
		http.Error(w, "Form cell not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, cellResponse(cell))
}

// SubscribeEvents handles GET /events (SSE): the outbound half of the comm
// channel for clients that cannot hold a websocket.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("SubscribeEvents: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	messages, cancel := s.Fanout.Subscribe(10)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				slog.Error("SubscribeEvents: encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// ListVariables handles GET /variables: the variable explorer snapshot.
func (s *Server) ListVariables(w http.ResponseWriter, r *http.Request) {
	variables, err := varexplorer.Snapshot(r.Context(), s.Namespace)
	if err != nil {
		http.Error(w, fmt.Sprintf("Snapshot error: %v", err), http.StatusInternalServerError)
		slog.Error("ListVariables failed", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, variables)
}

// SetVariable handles PUT /variables/{name}.
func (s *Server) SetVariable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := chi.URLParam(r, "name")
	if err := s.Namespace.Set(r.Context(), name, body.Value); err != nil {
		http.Error(w, fmt.Sprintf("Set error: %v", err), http.StatusInternalServerError)
		slog.Error("SetVariable failed", "name", name, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RenameVariable handles POST /variables/{name}/rename.
func (s *Server) RenameVariable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := chi.URLParam(r, "name")
	if err := varexplorer.Rename(r.Context(), s.Namespace, name, body.Name); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ports.ErrVariableNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, fmt.Sprintf("Rename error: %v", err), status)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "sidecomm-http",
		"version": sidecomm.Version,
	})
}

func cellResponse(cell *formcell.Cell) map[string]any {
	fields := cell.Fields()
	fields["id"] = cell.ID()
	return fields
}

func isClientError(err error) bool {
	var valueErr *formcell.ValueTypeError
	if errors.As(err, &valueErr) {
		return true
	}
	return schema.IsValidation(err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
