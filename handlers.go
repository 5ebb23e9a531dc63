package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/kwv/headreg/mesh"
)

// maxRequestBytes bounds POST /landmarks bodies; two dense head meshes fit
// comfortably.
const maxRequestBytes = 256 << 20

// newHTTPServer creates an HTTP server with all endpoints
func newHTTPServer(app *App) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		status := struct {
			Status    string    `json:"status"`
			Timestamp time.Time `json:"timestamp"`
			Results   int       `json:"results"`
			MQTT      bool      `json:"mqtt"`
		}{
			Status:    "ok",
			Timestamp: time.Now(),
			Results:   app.Results.Len(),
			MQTT:      app.MQTTClient != nil && app.MQTTClient.IsConnected(),
		}
		writeJSON(w, http.StatusOK, status)
	})

	mux.HandleFunc("POST /landmarks", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err != nil {
			http.Error(w, "reading request: "+err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		req, err := mesh.DecodeAttemptRequest(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		result, err := app.process(r.Context(), req)
		if err != nil {
			log.Printf("[HTTP] /landmarks failed: %v", err)
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	mux.HandleFunc("GET /results/latest", func(w http.ResponseWriter, r *http.Request) {
		result, ok := app.Results.Latest()
		if !ok {
			http.Error(w, "No results available", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	mux.HandleFunc("GET /results/{id}", func(w http.ResponseWriter, r *http.Request) {
		result, ok := app.Results.Get(r.PathValue("id"))
		if !ok {
			http.Error(w, "Result not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	return mux
}

// statusFor maps attempt errors to HTTP status codes. Bad fiducials and bad
// meshes are the caller's to fix, so they are not server errors.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mesh.ErrDegenerateFiducials),
		errors.Is(err, mesh.ErrInvalidTopology),
		errors.Is(err, mesh.ErrIncompleteFiducials),
		errors.Is(err, mesh.ErrEmptyMesh):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
