package service

import (
	"devlingo_backend/internal/config"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatStub(t *testing.T, reply string, capture *ChatCompletionRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}

		resp := ChatCompletionResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message AIChatMessage `json:"message"`
		}{Message: AIChatMessage{Role: "assistant", Content: reply}})
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestWritingFeedback(t *testing.T) {
	var got ChatCompletionRequest
	server := newChatStub(t, "Use past tense: 'I fixed the bug', not 'I fix the bug'.", &got)
	defer server.Close()

	svc := NewFeedbackService(config.AIConfig{
		BaseURL: server.URL,
		APIKey:  "k",
		Model:   "gpt-test",
	})

	feedback, err := svc.WritingFeedback("Yesterday I fix the bug in production.", "zh")
	require.NoError(t, err)
	assert.Contains(t, feedback, "past tense")

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "Yesterday I fix the bug")
	assert.Equal(t, "gpt-test", got.Model)
}

func TestSpeakingFeedbackIncludesConfidence(t *testing.T) {
	var got ChatCompletionRequest
	server := newChatStub(t, "ok", &got)
	defer server.Close()

	svc := NewFeedbackService(config.AIConfig{BaseURL: server.URL, Model: "gpt-test"})

	_, err := svc.SpeakingFeedback("Describe your project", "i am work on backend", 45)
	require.NoError(t, err)

	assert.Contains(t, got.Messages[1].Content, "confidence 45%")
	assert.Contains(t, got.Messages[1].Content, "Describe your project")
}

func TestFeedbackAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	svc := NewFeedbackService(config.AIConfig{BaseURL: server.URL})

	_, err := svc.WritingFeedback("some text here", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
