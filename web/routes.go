package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes wires the site's routes. Category routes register before the
// slug route so mux matches them first.
func SetupRoutes(s *Server) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(RequestCacheMiddleware)

	// System endpoints
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/version", s.handleVersion).Methods("GET")

	// Feeds
	r.HandleFunc("/feed.xml", s.handleRSS).Methods("GET")
	r.HandleFunc("/atom.xml", s.handleAtom).Methods("GET")
	r.HandleFunc("/feed.json", s.handleJSONFeed).Methods("GET")

	// Pages
	r.HandleFunc("/", s.handleHome).Methods("GET")
	r.HandleFunc("/pricing", s.handlePricing).Methods("GET")
	r.HandleFunc("/faq", s.handleFAQ).Methods("GET")

	// Job alerts
	r.HandleFunc("/job-alerts", s.handleAlertsPage).Methods("GET")
	r.Handle("/job-alerts", RateLimitMiddleware(s.limiter, http.HandlerFunc(s.handleSubscribe))).Methods("POST")
	r.HandleFunc("/job-alerts/unsubscribe", s.handleUnsubscribe).Methods("GET")

	// Listings
	r.HandleFunc("/jobs", s.handleDirectory).Methods("GET")
	r.HandleFunc("/jobs/type/{type}", s.handleTypePage).Methods("GET")
	r.HandleFunc("/jobs/level/{level}", s.handleLevelPage).Methods("GET")
	r.HandleFunc("/jobs/language/{language}", s.handleLanguagePage).Methods("GET")
	r.HandleFunc("/jobs/location/{location}", s.handleLocationPage).Methods("GET")
	r.HandleFunc("/jobs/{slug}", s.handleJobDetail).Methods("GET")

	r.NotFoundHandler = RequestCacheMiddleware(http.HandlerFunc(s.handleNotFound))

	return r
}
