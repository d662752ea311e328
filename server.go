package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ServerConfig holds configuration for the web server
type ServerConfig struct {
	Port     int
	Data     *Dataset
	DataPath string
}

// StartServer initializes and starts the HTTP server
func StartServer(config ServerConfig) error {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Static files
	fileServer := http.FileServer(http.Dir("./static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Web handlers (HTMX HTML responses)
	webHandler := NewWebHandler(config.Data)
	r.Get("/", webHandler.DashboardPage)
	r.Get("/filters", webHandler.FilterForm)
	r.Post("/growth", webHandler.GrowthPanel)

	// API handlers (JSON responses)
	apiHandler := &APIHandler{Data: config.Data}
	r.Route("/api", func(r chi.Router) {
		r.Get("/names", apiHandler.Names)
		r.Get("/growth", apiHandler.Growth)
		r.Get("/years", apiHandler.Years)
		r.Get("/preview", apiHandler.Preview)
	})

	addr := fmt.Sprintf(":%d", config.Port)
	log.Printf("Starting server on http://localhost%s", addr)
	return http.ListenAndServe(addr, r)
}
