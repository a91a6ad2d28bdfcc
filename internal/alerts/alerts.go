// Package alerts handles job-alert subscriptions. Subscribers are
// forwarded to the configured email provider; nothing is stored locally.
// Unsubscribe links carry a signed token so the provider callback cannot
// be forged.
package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/workdeck/workdeck/internal/config"
)

var (
	ErrDisabled     = errors.New("job alerts are disabled")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidToken = errors.New("invalid unsubscribe token")
)

// Service forwards subscriptions to the email provider and signs
// unsubscribe tokens.
type Service struct {
	cfg    config.AlertsConfig
	client *http.Client
	logger *slog.Logger
}

func NewService(cfg config.AlertsConfig, httpClient *http.Client, logger *slog.Logger) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, client: httpClient, logger: logger}
}

// Enabled reports whether the feature is switched on.
func (s *Service) Enabled() bool { return s.cfg.Enabled }

type subscribePayload struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Subscribe validates the address and forwards it to the provider.
func (s *Service) Subscribe(ctx context.Context, email, name string) error {
	if !s.cfg.Enabled {
		return ErrDisabled
	}

	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}

	body, err := json.Marshal(subscribePayload{Email: email, Name: strings.TrimSpace(name)})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ProviderURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, msg)
	}

	s.logger.Info("alert subscription forwarded", slog.String("email", email))
	return nil
}

// UnsubscribeToken signs a token identifying one subscriber, embedded in
// the unsubscribe links the provider sends out.
func (s *Service) UnsubscribeToken(email string) (string, error) {
	ttl := s.cfg.TokenTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// VerifyUnsubscribeToken returns the subscriber email a valid token was
// issued for.
func (s *Service) VerifyUnsubscribeToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}
