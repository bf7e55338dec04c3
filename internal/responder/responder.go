package responder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Responder produces a first-line answer for a ticket description.
type Responder interface {
	Respond(ctx context.Context, description string) (string, error)
}

// ErrEmptyResponse is returned when the generator answers with blank text.
var ErrEmptyResponse = errors.New("responder returned empty response")

type respondRequest struct {
	Ticket string `json:"ticket"`
}

type respondResponse struct {
	Response string `json:"response"`
}

// HTTPResponder calls an external response generator over HTTP.
type HTTPResponder struct {
	url     string
	timeout time.Duration
}

// NewHTTPResponder posts to url with the given per-call timeout.
func NewHTTPResponder(url string, timeout time.Duration) *HTTPResponder {
	return &HTTPResponder{url: url, timeout: timeout}
}

// Respond posts {"ticket": description} and expects {"response": text}.
func (r *HTTPResponder) Respond(ctx context.Context, description string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout || timeout <= 0 {
			timeout = remaining
		}
	}

	agent := fiber.Post(r.url).JSON(respondRequest{Ticket: description})
	if timeout > 0 {
		agent = agent.Timeout(timeout)
	}

	var out respondResponse
	code, body, errs := agent.Struct(&out)
	if len(errs) > 0 {
		return "", fmt.Errorf("call responder: %w", errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return "", fmt.Errorf("responder status %d: %s", code, strings.TrimSpace(string(body)))
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// StaticResponder always answers with the same acknowledgement.
type StaticResponder struct {
	text string
}

// NewStaticResponder returns a responder that always answers text.
func NewStaticResponder(text string) *StaticResponder {
	return &StaticResponder{text: text}
}

func (r *StaticResponder) Respond(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(r.text) == "" {
		return "", ErrEmptyResponse
	}
	return r.text, nil
}

// New selects the HTTP responder when url is set, otherwise the static fallback.
func New(url string, timeout time.Duration, fallback string) Responder {
	if strings.TrimSpace(url) == "" {
		return NewStaticResponder(fallback)
	}
	return NewHTTPResponder(url, timeout)
}
