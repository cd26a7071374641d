package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		Key:        "test-key",
		Endpoint:   server.URL,
		Deployment: "gpt-4o",
		APIVersion: "2024-10-21",
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func completionResponse(content string) string {
	return `{"choices":[{"message":{"content":` + string(mustJSON(content)) + `}}]}`
}

func mustJSON(v interface{}) []byte {
	b, _ := json.Marshal(v)
	return b
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(ClientConfig{Endpoint: "e", Deployment: "d"})
	assert.EqualError(t, err, "Azure OpenAI key is required")

	_, err = NewClient(ClientConfig{Key: "k", Deployment: "d"})
	assert.EqualError(t, err, "Azure OpenAI endpoint is required")

	_, err = NewClient(ClientConfig{Key: "k", Endpoint: "e"})
	assert.EqualError(t, err, "Azure OpenAI deployment is required")
}

func TestCompleteRequestShape(t *testing.T) {
	var gotPath, gotAPIVersion, gotKey, gotContentType string
	var gotBody chatRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIVersion = r.URL.Query().Get("api-version")
		gotKey = r.Header.Get("api-key")
		gotContentType = r.Header.Get("Content-Type")

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Write([]byte(completionResponse("hi")))
	})

	messages := []Message{
		SystemMessage("be helpful"),
		UserMessage("hello"),
	}
	_, err := client.Complete(context.Background(), messages, CompletionParams{MaxTokens: 1000, Temperature: 0.7})
	require.NoError(t, err)

	assert.Equal(t, "/openai/deployments/gpt-4o/chat/completions", gotPath)
	assert.Equal(t, "2024-10-21", gotAPIVersion)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "application/json", gotContentType)

	assert.Equal(t, messages, gotBody.Messages)
	assert.Equal(t, 1000, gotBody.MaxTokens)
	assert.InDelta(t, 0.7, gotBody.Temperature, 0.001)
}

func TestCompleteTrimsWhitespace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse("  padded answer\n\n")))
	})

	content, err := client.Complete(context.Background(), []Message{UserMessage("q")}, CompletionParams{})
	require.NoError(t, err)
	assert.Equal(t, "padded answer", content)
}

func TestCompleteAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := client.Complete(context.Background(), []Message{UserMessage("q")}, CompletionParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteNonOKWithoutErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{}`))
	})

	_, err := client.Complete(context.Background(), []Message{UserMessage("q")}, CompletionParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCompleteNoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Complete(context.Background(), []Message{UserMessage("q")}, CompletionParams{})
	assert.EqualError(t, err, "completion API returned no choices")
}

func TestCompleteEndpointTrailingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(completionResponse("ok")))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		Key:        "k",
		Endpoint:   server.URL + "/",
		Deployment: "gpt-4o",
	})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []Message{UserMessage("q")}, CompletionParams{})
	require.NoError(t, err)
	assert.Equal(t, "/openai/deployments/gpt-4o/chat/completions", gotPath)
}
