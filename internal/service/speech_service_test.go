package service

import (
	"context"
	"devlingo_backend/internal/config"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribeSuccess(t *testing.T) {
	var gotReq sttRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/recognize", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(sttResponse{
			Transcript: "we deployed the new service yesterday",
			Confidence: 92,
		})
	}))
	defer server.Close()

	svc := NewSpeechService(config.SpeechConfig{
		STTBaseURL:      server.URL,
		STTAPIKey:       "test-key",
		DefaultLanguage: "en-US",
		SampleRateHertz: 16000,
	})

	audio := []byte{0x52, 0x49, 0x46, 0x46}
	result, err := svc.Transcribe(context.Background(), audio, "")
	require.NoError(t, err)

	assert.Equal(t, "we deployed the new service yesterday", result.Transcript)
	assert.Equal(t, 92.0, result.Confidence)
	assert.Equal(t, "en-US", gotReq.Language)
	assert.Equal(t, 16000, gotReq.SampleRateHertz)

	decoded, err := base64.StdEncoding.DecodeString(gotReq.Audio)
	require.NoError(t, err)
	assert.Equal(t, audio, decoded)
}

func TestTranscribeVendorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer server.Close()

	svc := NewSpeechService(config.SpeechConfig{STTBaseURL: server.URL})

	_, err := svc.Transcribe(context.Background(), []byte("audio"), "en-US")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestSynthesizeSuccess(t *testing.T) {
	wantAudio := []byte("fake-wav-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/synthesize", r.URL.Path)

		var req ttsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "The deployment finished.", req.Text)
		assert.Equal(t, "en-GB", req.Language)

		json.NewEncoder(w).Encode(ttsResponse{
			Audio: base64.StdEncoding.EncodeToString(wantAudio),
		})
	}))
	defer server.Close()

	svc := NewSpeechService(config.SpeechConfig{TTSBaseURL: server.URL})

	audio, err := svc.Synthesize(context.Background(), "The deployment finished.", "en-GB", "")
	require.NoError(t, err)
	assert.Equal(t, wantAudio, audio)
}

func TestSynthesizeInvalidAudioEncoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ttsResponse{Audio: "!!! not base64 !!!"})
	}))
	defer server.Close()

	svc := NewSpeechService(config.SpeechConfig{TTSBaseURL: server.URL})

	_, err := svc.Synthesize(context.Background(), "hello", "en-US", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid audio encoding")
}
