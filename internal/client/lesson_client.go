// Package client talks to the LearnOS HTTP API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"learnos/internal/dto"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 90 * time.Second

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server returned %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// LessonClient calls the lesson endpoints of a LearnOS server.
type LessonClient struct {
	baseURL string
	timeout time.Duration
}

// New returns a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *LessonClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &LessonClient{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// Generate fetches the lesson for topic, generating it on the server if needed.
func (c *LessonClient) Generate(ctx context.Context, topic string) (*dto.LessonResponse, error) {
	var lesson dto.LessonResponse
	agent := fiber.Post(c.baseURL + "/api/generate").JSON(dto.GenerateLessonRequest{Topic: topic})
	if err := c.do(ctx, agent, &lesson, http.StatusOK); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListLessons returns the stored topics, newest first.
func (c *LessonClient) ListLessons(ctx context.Context) ([]dto.LessonSummaryResponse, error) {
	var summaries []dto.LessonSummaryResponse
	if err := c.do(ctx, fiber.Get(c.baseURL+"/api/lessons"), &summaries, http.StatusOK); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Health returns the server health report. A degraded server still yields
// the report alongside an error.
func (c *LessonClient) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var health dto.HealthResponse
	err := c.do(ctx, fiber.Get(c.baseURL+"/api/health"), &health, http.StatusOK, http.StatusServiceUnavailable)
	if err != nil {
		return nil, err
	}
	if health.Status != "OK" {
		return &health, &APIError{Status: http.StatusServiceUnavailable, Message: "server is " + health.Status}
	}
	return &health, nil
}

func (c *LessonClient) do(ctx context.Context, agent *fiber.Agent, out interface{}, accept ...int) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	status, body, errs := agent.Timeout(timeout).Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %w", errors.Join(errs...))
	}

	for _, code := range accept {
		if status == code {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		}
	}

	apiErr := &APIError{Status: status, Message: http.StatusText(status)}
	var errBody dto.ErrorResponse
	if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
		apiErr.Message = errBody.Error
		apiErr.Code = errBody.Code
	}
	return apiErr
}
