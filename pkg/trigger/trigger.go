package trigger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/mentorify/mentorify-api/pkg/circuitbreaker"
	"github.com/mentorify/mentorify-api/pkg/httpclient"
	"github.com/mentorify/mentorify-api/pkg/logger"
)

// One breaker per event kind, so a dead mail endpoint for one event
// does not suppress unrelated notifications.
var breakers sync.Map

func breakerFor(event string) *gobreaker.CircuitBreaker {
	if cb, ok := breakers.Load(event); ok {
		return cb.(*gobreaker.CircuitBreaker)
	}
	cb, _ := breakers.LoadOrStore(event, circuitbreaker.New(circuitbreaker.DefaultConfig("trigger:"+event)))
	return cb.(*gobreaker.CircuitBreaker)
}

// CallAsync posts a JSON payload to a notification webhook asynchronously.
// This is how OTP codes and booking updates reach the mail delivery function.
// Failures are logged but never block the calling operation.
func CallAsync(triggerURL, event string, payload any, httpClient httpclient.Client) {
	if triggerURL == "" {
		// No trigger URL configured, skip silently
		return
	}

	go func() {
		body, err := json.Marshal(map[string]any{
			"event": event,
			"data":  payload,
		})
		if err != nil {
			logger.Error("Failed to encode trigger payload",
				zap.Error(err),
				zap.String("event", event))
			return
		}

		cb := breakerFor(event)
		if circuitbreaker.IsOpen(cb) {
			logger.Warn("Skipping trigger call, circuit breaker open",
				zap.String("url", triggerURL),
				zap.String("event", event))
			return
		}

		logger.Info("Calling trigger URL",
			zap.String("url", triggerURL),
			zap.String("event", event))

		resp, err := circuitbreaker.Execute(cb, func() (*http.Response, error) {
			return httpClient.Post(triggerURL, "application/json", bytes.NewReader(body))
		})
		if err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", triggerURL),
				zap.String("event", event))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			logger.Info("Trigger URL called successfully",
				zap.String("url", triggerURL),
				zap.String("event", event),
				zap.Int("status_code", resp.StatusCode))
		} else {
			logger.Warn("Trigger URL returned non-success status",
				zap.String("url", triggerURL),
				zap.String("event", event),
				zap.Int("status_code", resp.StatusCode))
		}
	}()
}
