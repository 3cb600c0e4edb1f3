package service

import (
	"bytes"
	"devlingo_backend/internal/config"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type FeedbackService struct {
	config config.AIConfig
	client *http.Client
}

func NewFeedbackService(cfg config.AIConfig) *FeedbackService {
	return &FeedbackService{
		config: cfg,
		client: &http.Client{},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const tutorSystemPrompt = "You are an English tutor for software developers. " +
	"Give short, concrete feedback. Point out grammar mistakes, suggest more natural phrasing, " +
	"and keep the register appropriate for workplace communication in the IT industry. " +
	"Answer in English. Do not discuss topics unrelated to English learning."

// WritingFeedback reviews a free-form text written by the learner.
func (s *FeedbackService) WritingFeedback(text, nativeLang string) (string, error) {
	prompt := fmt.Sprintf(
		"The learner's native language is %s. Review the following text and give feedback:\n\n%s",
		nativeLang, text)
	return s.chat(prompt)
}

// SpeakingFeedback reviews an STT transcript of the learner answering a
// speaking prompt. Low confidence usually means unclear pronunciation,
// so it is passed along as a hint.
func (s *FeedbackService) SpeakingFeedback(promptText, transcript string, confidence float64) (string, error) {
	prompt := fmt.Sprintf(
		"The learner was asked: %q\n"+
			"Speech recognition transcribed their answer as (confidence %.0f%%):\n\n%s\n\n"+
			"Give feedback on grammar and phrasing. If the confidence is below 60%%, "+
			"also suggest the answer may have been unclear and recommend speaking more slowly.",
		promptText, confidence, transcript)
	return s.chat(prompt)
}

func (s *FeedbackService) chat(prompt string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: tutorSystemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}
