package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fashion-studio/apperr"
)

// Generator produces one image for a prompt and returns it base64 encoded.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HTTPGenerator calls an OpenAI compatible images endpoint.
type HTTPGenerator struct {
	URL    string
	APIKey string
	Model  string
	Size   string
	Client *http.Client
}

func NewHTTPGenerator(url, apiKey, model string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		URL:    url,
		APIKey: apiKey,
		Model:  model,
		Size:   "1024x1024",
		Client: &http.Client{Timeout: timeout},
	}
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

var errNoImage = errors.New("provider returned no image")

func (g *HTTPGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.APIKey == "" {
		return "", apperr.Upstream("Image generation is not configured", errors.New("IMAGE_API_KEY is empty"))
	}

	body, err := json.Marshal(imageRequest{Model: g.Model, Prompt: prompt, N: 1, Size: g.Size})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", apperr.Upstream("Image provider unavailable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", apperr.Upstream("Image provider unavailable", err)
	}

	var out imageResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", apperr.Upstream("Image provider returned an invalid response", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", apperr.Upstream("Image generation failed", fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return "", apperr.Upstream("Image generation failed", errNoImage)
	}
	if _, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON); err != nil {
		return "", apperr.Upstream("Image provider returned an invalid image", err)
	}
	return out.Data[0].B64JSON, nil
}
