package trigger_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorify/mentorify-api/pkg/trigger"
)

type capturingClient struct {
	calls chan capturedCall
}

type capturedCall struct {
	url         string
	contentType string
	body        []byte
}

func newCapturingClient() *capturingClient {
	return &capturingClient{calls: make(chan capturedCall, 8)}
}

func (c *capturingClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	data, _ := io.ReadAll(body)
	c.calls <- capturedCall{url: url, contentType: contentType, body: data}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func (c *capturingClient) Get(url string) (*http.Response, error) {
	return nil, nil
}

func (c *capturingClient) Do(req *http.Request) (*http.Response, error) {
	return nil, nil
}

func TestCallAsync_PostsEventEnvelope(t *testing.T) {
	client := newCapturingClient()

	trigger.CallAsync("https://hooks.example.com/notify", "otp_email", map[string]string{
		"email": "mentee@example.com",
	}, client)

	select {
	case call := <-client.calls:
		assert.Equal(t, "https://hooks.example.com/notify", call.url)
		assert.Equal(t, "application/json", call.contentType)

		var envelope map[string]any
		require.NoError(t, json.Unmarshal(call.body, &envelope))
		assert.Equal(t, "otp_email", envelope["event"])

		data, ok := envelope["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "mentee@example.com", data["email"])
	case <-time.After(2 * time.Second):
		t.Fatal("trigger call never reached the HTTP client")
	}
}

func TestCallAsync_EmptyURLSkipsCall(t *testing.T) {
	client := newCapturingClient()

	trigger.CallAsync("", "otp_email", nil, client)

	select {
	case <-client.calls:
		t.Fatal("no HTTP call expected without a trigger URL")
	case <-time.After(100 * time.Millisecond):
	}
}
