package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"fashion-studio/log"
)

const enhanceSystemPrompt = "You are a fashion design expert. Rewrite the clothing description to be precise and professional: " +
	"mention fabric and quality, name the colors exactly, describe the cut. Answer in English, 2-3 sentences, description only."

// Enhancer rewrites a shopper's prompt with a chat completion model. Any
// failure falls back to FallbackEnhance so the caller always gets a prompt.
type Enhancer struct {
	URL    string
	APIKey string
	Model  string
	Client *http.Client
}

func NewEnhancer(url, apiKey, model string) *Enhancer {
	return &Enhancer{URL: url, APIKey: apiKey, Model: model, Client: &http.Client{Timeout: 20 * time.Second}}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (e *Enhancer) Enhance(ctx context.Context, prompt, clothingType, color string) string {
	out, err := e.complete(ctx, prompt, clothingType, color)
	if err != nil {
		log.L().Warn("prompt enhancement fell back", zap.Error(err))
		return FallbackEnhance(prompt, clothingType, color)
	}
	if color != "" {
		out += " with " + color + " color"
	}
	return out
}

func (e *Enhancer) complete(ctx context.Context, prompt, clothingType, color string) (string, error) {
	if e == nil || e.APIKey == "" {
		return "", fmt.Errorf("LLM_API_KEY is empty")
	}
	if color == "" {
		color = "any"
	}
	body, err := json.Marshal(chatRequest{
		Model: e.Model,
		Messages: []chatMessage{
			{Role: "system", Content: enhanceSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Clothing type: %s\nColor: %s\nDescription: %s", clothingType, color, prompt)},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("chat completion returned no content")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
