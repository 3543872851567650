// Package gemini is a small client for the Gemini generateContent API,
// used to turn free-text commands into JSON.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
	maxTokens      = 256
	timeout        = 15 * time.Second
)

// ErrNotConfigured is returned when no API key was provided
var ErrNotConfigured = errors.New("gemini api key is not configured")

// Client calls generateContent with a JSON response mime type
type Client struct {
	httpClient *resty.Client
	apiKey     string
	model      string
}

// NewClient creates a configured Gemini client. An empty baseURL or model
// falls back to the defaults.
func NewClient(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{httpClient: httpClient, apiKey: apiKey, model: model}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	Temperature      float64 `json:"temperature"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateJSON sends systemPrompt and input and returns the model's text,
// which the JSON mime type constrains to a single JSON document.
func (c *Client) GenerateJSON(ctx context.Context, systemPrompt, input string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	reqBody := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: fmt.Sprintf("Input: %q", input)}, {Text: "Output:"}},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			MaxOutputTokens:  maxTokens,
			Temperature:      0,
		},
	}

	var respBody generateResponse
	var errBody errorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetPathParam("model", c.model).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&errBody).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini api call: %w", err)
	}
	if resp.IsError() {
		msg := errBody.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return "", fmt.Errorf("gemini api error (%d): %s", resp.StatusCode(), msg)
	}
	if len(respBody.Candidates) == 0 || len(respBody.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from gemini")
	}

	var sb strings.Builder
	for _, p := range respBody.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
