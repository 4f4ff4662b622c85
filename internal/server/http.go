package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter exposes the status endpoints and, when ws is set, the
// websocket join endpoint.
func NewRouter(s *Server, ws http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	if ws != nil {
		r.Handle("/ws", ws)
	}
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Status()); err != nil {
		s.log.Debug().Err(err).Msg("write status")
	}
}
