// Package gemini provides a client for the Google Gemini generateContent API.
// It sends the statistics prompt and extracts a 15-number prediction from the
// generated text. Requests are context-aware and retried with linear backoff
// on server errors and network failures.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/lotoscope/lotoscope/internal/models"
)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	baseURL        string
	model          string
	apiKey         string
	httpClient     *http.Client
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a Gemini client. baseURL is typically
// "https://generativelanguage.googleapis.com".
func NewClient(baseURL, model, apiKey string, timeout time.Duration, maxRetries int, retryDelayBase time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}
	return &Client{
		baseURL:        baseURL,
		model:          model,
		apiKey:         apiKey,
		httpClient:     &http.Client{Timeout: timeout},
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// Request/response shapes for the generateContent API.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateContent sends the prompt and returns the generated text.
func (c *Client) GenerateContent(ctx context.Context, promptText string) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: promptText}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, url, body)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("generate content: status %d: %s", resp.StatusCode, data)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("api error %d: %s", gr.Error.Code, gr.Error.Message)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response: no candidates")
	}

	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// Predict sends the prompt and parses the generated text into a sorted
// 15-number prediction.
func (c *Client) Predict(ctx context.Context, promptText string) ([]int, error) {
	text, err := c.GenerateContent(ctx, promptText)
	if err != nil {
		return nil, err
	}
	numbers, err := ExtractNumbers(text)
	if err != nil {
		return nil, fmt.Errorf("parse generated text: %w", err)
	}
	return numbers, nil
}

var numberPattern = regexp.MustCompile(`\d+`)

// ExtractNumbers pulls the first 15 distinct in-range numbers out of generated
// text. The model is asked for a comma-separated list but occasionally wraps it
// in prose; any delimiter is tolerated.
func ExtractNumbers(text string) ([]int, error) {
	seen := make(map[int]bool, models.DrawSize)
	var numbers []int
	for _, match := range numberPattern.FindAllString(text, -1) {
		n, err := strconv.Atoi(match)
		if err != nil || n < 1 || n > models.MaxNumber || seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
		if len(numbers) == models.DrawSize {
			break
		}
	}
	if len(numbers) != models.DrawSize {
		return nil, fmt.Errorf("expected %d distinct numbers in [1,%d], found %d",
			models.DrawSize, models.MaxNumber, len(numbers))
	}
	sort.Ints(numbers)
	return numbers, nil
}

// doRequest performs the POST with bounded retries on 5xx and network errors.
func (c *Client) doRequest(ctx context.Context, url string, body []byte) (*http.Response, error) {
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if sleepErr := sleepCtx(ctx, c.retryDelayBase*time.Duration(i+1)); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			if sleepErr := sleepCtx(ctx, c.retryDelayBase*time.Duration(i+1)); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
