package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"tiktok-product-api/extractor"
	"tiktok-product-api/internal/config"
	"tiktok-product-api/internal/types"
)

//go:embed index.html
var indexHTML []byte

// Server holds the API server configuration
type Server struct {
	logger    *logrus.Logger
	config    *types.Config
	extractor *extractor.ProductExtractor
}

// NewServer creates a new API server
func NewServer(cfg *types.Config, logger *logrus.Logger) *Server {
	return &Server{
		logger:    logger,
		config:    cfg,
		extractor: extractor.NewProductExtractor(cfg, logger),
	}
}

// Routes returns the HTTP handler with every endpoint registered
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /product/{id}", s.handleProduct)
	mux.HandleFunc("GET /api/tiktok/product/{id}", s.handleProduct)
	mux.HandleFunc("OPTIONS /product/{id}", s.handlePreflight)
	mux.HandleFunc("OPTIONS /api/tiktok/product/{id}", s.handlePreflight)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	return s.withRequestID(mux)
}

// withRequestID tags every request with an ID that is echoed in the
// X-Request-ID header and attached to the access log line
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"duration":   time.Since(start).String(),
		}).Info("Request handled")
	})
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// handleProduct handles the product lookup endpoint. It always answers 200;
// upstream failures are reported inside the envelope.
func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")

	query := r.URL.Query()
	region := query.Get("region")
	if region == "" {
		region = s.config.DefaultRegion
	}
	locale := query.Get("locale")
	if locale == "" {
		locale = s.config.DefaultLocale
	}
	req := types.NewFetchRequest(r.PathValue("id"), region, locale)

	s.logger.Infof("API request received for product %s (region=%s, locale=%s)", req.ProductID, req.Region, req.Locale)

	envelope := s.extractor.Extract(r.Context(), req)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.WriteHeader(http.StatusOK)
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "healthy"}); err != nil {
		s.logger.Errorf("Failed to encode health response: %v", err)
	}
}

// handleIndex serves the browser form
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(indexHTML); err != nil {
		s.logger.Errorf("Failed to write index page: %v", err)
	}
}

// Start starts the API server
func (s *Server) Start(port string) error {
	s.logger.Infof("Starting API server on port %s", port)
	s.logger.Info("Available endpoints:")
	s.logger.Info("  GET  /                 - Product lookup form")
	s.logger.Info("  GET  /product/{id}     - Fetch product data (?region=VN&locale=vi)")
	s.logger.Info("  GET  /health           - Health check")

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

// Close closes the server and cleanup resources
func (s *Server) Close() {
	s.extractor.Close()
}

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	serverPort := "8080"
	if envPort := os.Getenv("API_PORT"); envPort != "" {
		serverPort = envPort
		fmt.Printf("Using port from environment variable API_PORT: %s\n", serverPort)
	} else {
		fmt.Printf("No API_PORT environment variable found, using default: %s\n", serverPort)
	}

	logger := config.NewLogger(false)

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	server := NewServer(cfg, logger)
	defer server.Close()

	log.Fatal(server.Start(serverPort))
}
