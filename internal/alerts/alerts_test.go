package alerts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/workdeck/workdeck/internal/alerts"
	"github.com/workdeck/workdeck/internal/config"
)

func service(providerURL string) *alerts.Service {
	return alerts.NewService(config.AlertsConfig{
		Enabled:     true,
		ProviderURL: providerURL,
		APIKey:      "provider-key",
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
	}, nil, nil)
}

func TestSubscribeForwardsToProvider(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer provider-key" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := service(srv.URL)
	if err := s.Subscribe(context.Background(), "dev@example.com", "Dev"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if got["email"] != "dev@example.com" || got["name"] != "Dev" {
		t.Fatalf("provider payload = %v", got)
	}
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	s := service("http://localhost:0")
	if err := s.Subscribe(context.Background(), "not-an-email", ""); !errors.Is(err, alerts.ErrInvalidEmail) {
		t.Fatalf("err = %v, want ErrInvalidEmail", err)
	}
}

func TestSubscribeDisabled(t *testing.T) {
	s := alerts.NewService(config.AlertsConfig{Enabled: false}, nil, nil)
	if err := s.Subscribe(context.Background(), "dev@example.com", ""); !errors.Is(err, alerts.ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
}

func TestUnsubscribeTokenRoundTrip(t *testing.T) {
	s := service("http://localhost:0")

	tok, err := s.UnsubscribeToken("dev@example.com")
	if err != nil {
		t.Fatalf("UnsubscribeToken: %v", err)
	}

	email, err := s.VerifyUnsubscribeToken(tok)
	if err != nil {
		t.Fatalf("VerifyUnsubscribeToken: %v", err)
	}
	if email != "dev@example.com" {
		t.Fatalf("email = %q", email)
	}

	if _, err := s.VerifyUnsubscribeToken(tok + "x"); !errors.Is(err, alerts.ErrInvalidToken) {
		t.Fatalf("tampered token err = %v, want ErrInvalidToken", err)
	}

	other := alerts.NewService(config.AlertsConfig{Enabled: true, JWTSecret: "different"}, nil, nil)
	if _, err := other.VerifyUnsubscribeToken(tok); !errors.Is(err, alerts.ErrInvalidToken) {
		t.Fatalf("wrong-secret token err = %v, want ErrInvalidToken", err)
	}
}
