package service

import (
	"bytes"
	"context"
	"devlingo_backend/internal/config"
	"devlingo_backend/pkg/monitoring"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TranscriptionResult is what the STT vendor hands back, confidence on
// a 0-100 scale.
// swagger:model TranscriptionResult
type TranscriptionResult struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// SpeechService wraps the external STT/TTS vendors. Audio travels as
// base64 inside JSON both ways; a vendor failure aborts the operation
// and the caller retries manually.
type SpeechService struct {
	config config.SpeechConfig
	client *http.Client
}

func NewSpeechService(cfg config.SpeechConfig) *SpeechService {
	return &SpeechService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type sttRequest struct {
	Audio           string `json:"audio"`
	Language        string `json:"language"`
	SampleRateHertz int    `json:"sample_rate_hertz"`
}

type sttResponse struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Transcribe sends PCM audio to the STT vendor and returns transcript
// plus confidence.
func (s *SpeechService) Transcribe(ctx context.Context, audio []byte, language string) (*TranscriptionResult, error) {
	if language == "" {
		language = s.config.DefaultLanguage
	}

	reqBody := sttRequest{
		Audio:           base64.StdEncoding.EncodeToString(audio),
		Language:        language,
		SampleRateHertz: s.config.SampleRateHertz,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.STTBaseURL+"/v1/recognize", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.STTAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		monitoring.SpeechVendorCounter.WithLabelValues("stt", "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		monitoring.SpeechVendorCounter.WithLabelValues("stt", "error").Inc()
		return nil, fmt.Errorf("STT API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result sttResponse
	if err := json.Unmarshal(body, &result); err != nil {
		monitoring.SpeechVendorCounter.WithLabelValues("stt", "error").Inc()
		return nil, err
	}
	if result.Error != nil {
		monitoring.SpeechVendorCounter.WithLabelValues("stt", "error").Inc()
		return nil, fmt.Errorf("STT API error: %s", result.Error.Message)
	}

	monitoring.SpeechVendorCounter.WithLabelValues("stt", "ok").Inc()
	return &TranscriptionResult{
		Transcript: result.Transcript,
		Confidence: result.Confidence,
	}, nil
}

type ttsRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice,omitempty"`
}

type ttsResponse struct {
	Audio string `json:"audio"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Synthesize asks the TTS vendor to read the text aloud, returning the
// decoded audio bytes.
func (s *SpeechService) Synthesize(ctx context.Context, text, language, voice string) ([]byte, error) {
	if language == "" {
		language = s.config.DefaultLanguage
	}

	reqBody := ttsRequest{Text: text, Language: language, Voice: voice}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.TTSBaseURL+"/v1/synthesize", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.TTSAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		monitoring.SpeechVendorCounter.WithLabelValues("tts", "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		monitoring.SpeechVendorCounter.WithLabelValues("tts", "error").Inc()
		return nil, fmt.Errorf("TTS API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ttsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		monitoring.SpeechVendorCounter.WithLabelValues("tts", "error").Inc()
		return nil, err
	}
	if result.Error != nil {
		monitoring.SpeechVendorCounter.WithLabelValues("tts", "error").Inc()
		return nil, fmt.Errorf("TTS API error: %s", result.Error.Message)
	}

	audio, err := base64.StdEncoding.DecodeString(result.Audio)
	if err != nil {
		monitoring.SpeechVendorCounter.WithLabelValues("tts", "error").Inc()
		return nil, fmt.Errorf("TTS returned invalid audio encoding: %w", err)
	}

	monitoring.SpeechVendorCounter.WithLabelValues("tts", "ok").Inc()
	return audio, nil
}
