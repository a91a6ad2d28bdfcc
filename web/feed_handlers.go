package web

import (
	"net/http"

	"log/slog"
)

func (s *Server) handleFeed(format, contentType string, build func() (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.feeds.Enabled(format) {
			http.NotFound(w, r)
			return
		}

		body, err := build()
		if err != nil {
			logger.Error("feed render failed", slog.String("format", format), slog.String("error", err.Error()))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}
}

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	s.handleFeed("rss", "application/rss+xml; charset=utf-8", func() (string, error) {
		return s.feeds.RSS(s.snapshot.Jobs(r.Context()))
	})(w, r)
}

func (s *Server) handleAtom(w http.ResponseWriter, r *http.Request) {
	s.handleFeed("atom", "application/atom+xml; charset=utf-8", func() (string, error) {
		return s.feeds.Atom(s.snapshot.Jobs(r.Context()))
	})(w, r)
}

func (s *Server) handleJSONFeed(w http.ResponseWriter, r *http.Request) {
	s.handleFeed("json", "application/feed+json; charset=utf-8", func() (string, error) {
		return s.feeds.JSON(s.snapshot.Jobs(r.Context()))
	})(w, r)
}
