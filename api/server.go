// Package api provides HTTP API capabilities for the khata parser.
// This is a capability module that can be enabled via the CLI or used
// programmatically.
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/nvraghav/khata/parser"
)

// Config holds the API server configuration
type Config struct {
	Port      string
	LogPrefix string
}

// DefaultConfig returns the default API configuration
func DefaultConfig() Config {
	return Config{
		Port:      ":8080",
		LogPrefix: "API: ",
	}
}

// Server represents the HTTP API server
type Server struct {
	config Config
	mux    *http.ServeMux
}

// New creates a new API server with the given configuration
func New(cfg Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/extract", s.handleExtract)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// Handler returns the http.Handler for the server, for callers that want
// their own http.Server configuration.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server (blocking)
func (s *Server) Start() error {
	log.Printf("%sStarting server on %s", s.config.LogPrefix, s.config.Port)
	return http.ListenAndServe(s.config.Port, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleExtract handles statement extraction requests
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	log.Printf("%sReceived request from %s", s.config.LogPrefix, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse multipart form with 32MB max memory
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Printf("%sError parsing multipart form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		log.Printf("%sError getting file from form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not get uploaded file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		log.Printf("%sError reading file bytes: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not read file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	opts := s.parseExtractOptions(r)

	if opts.TextOnly {
		s.handleTextOnlyExtract(w, bytes.NewReader(fileBytes), handler.Filename)
		return
	}

	statement := parser.ProcessReader(bytes.NewReader(fileBytes), handler.Filename)

	w.Header().Set("Content-Type", "application/json")
	if opts.TransactionOnly {
		json.NewEncoder(w).Encode(statement.Transactions)
		return
	}
	json.NewEncoder(w).Encode(statement)
}

// ExtractOptions holds the options for extraction
type ExtractOptions struct {
	TransactionOnly bool
	TextOnly        bool
}

// parseExtractOptions extracts options from the HTTP request
func (s *Server) parseExtractOptions(r *http.Request) ExtractOptions {
	return ExtractOptions{
		TransactionOnly: r.FormValue("transaction_only") == "true" || r.URL.Query().Get("transaction_only") == "true",
		TextOnly:        r.FormValue("text_only") == "true" || r.URL.Query().Get("text_only") == "true",
	}
}

// handleTextOnlyExtract handles text-only extraction mode
func (s *Server) handleTextOnlyExtract(w http.ResponseWriter, reader io.Reader, filename string) {
	text, err := parser.ExtractText(reader)
	if err != nil {
		log.Printf("%sError extracting text: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not extract text from file: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"filename": filename,
		"text":     text,
	})
}
