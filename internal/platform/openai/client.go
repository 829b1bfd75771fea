package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/ai"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
	"github.com/yungbote/aet-studio-backend/internal/platform/promptstyle"
)

const providerName = "openai"

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	ImageModel string
	ImageSize  string
	Timeout    time.Duration
	MaxRetries int
}

type Client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	imageModel string
	imageSize  string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-5.2"
	}
	imageModel := strings.TrimSpace(cfg.ImageModel)
	if imageModel == "" {
		imageModel = "gpt-image-1"
	}
	imageSize := strings.TrimSpace(cfg.ImageSize)
	if imageSize == "" {
		imageSize = "1024x1024"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		log:        log.With("service", "OpenAIClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		imageModel: imageModel,
		imageSize:  imageSize,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}, nil
}

func (c *Client) Available() bool { return c != nil && c.apiKey != "" }

type openAIHTTPError struct {
	StatusCode int
	Body       string
}

func (e *openAIHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *openAIHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *openAIHTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	// transport level failure
	return true
}

func retryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	if resp != nil {
		if v := strings.TrimSpace(resp.Header.Get("Retry-After")); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				d := time.Duration(secs) * time.Second
				if d > 10*time.Second {
					d = 10 * time.Second
				}
				return d
			}
		}
	}
	return fallback
}

func (c *Client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &openAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		if !isRetryable(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := retryAfter(resp, backoff)
		sleepFor += time.Duration(rand.Int63n(int64(sleepFor)/4 + 1))

		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleepFor):
		}
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

// -------------------- Responses API --------------------

type responsesInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model string           `json:"model"`
	Input []responsesInput `json:"input"`
	Text  struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type == "message" && item.Role == "assistant" {
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					out.WriteString(c.Text)
				}
			}
		}
	}
	return out.String()
}

// GenerateJSON sends the prompt with json_object output format and returns the raw JSON text.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (text string, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "openai.generate_json", attribute.String("ai.model", c.model))
	defer func() {
		c.observe("text", err, start)
		observability.EndSpan(span, err)
	}()

	req := responsesRequest{
		Model: c.model,
		Input: []responsesInput{
			{Role: "system", Content: promptstyle.ApplySystem("Produce classroom resources as structured JSON.", "json")},
			{Role: "user", Content: prompt},
		},
	}
	req.Text.Format = map[string]any{"type": "json_object"}

	var resp responsesResponse
	if err := c.do(ctx, http.MethodPost, "/v1/responses", &req, &resp); err != nil {
		return "", mapError(err)
	}
	if resp.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", resp.Refusal)
	}
	text = strings.TrimSpace(extractOutputText(resp))
	if text == "" {
		return "", fmt.Errorf("no output_text found in response")
	}
	return text, nil
}

// -------------------- Images API --------------------

type imagesGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n,omitempty"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"` // b64_json|url
}

type imagesGenerationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
}

func (c *Client) GenerateImage(ctx context.Context, prompt string) (img *ai.Image, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "openai.generate_image", attribute.String("ai.model", c.imageModel))
	defer func() {
		c.observe("image", err, start)
		observability.EndSpan(span, err)
	}()

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("image prompt required")
	}

	responseFormat := "b64_json"
	if strings.HasPrefix(strings.ToLower(c.imageModel), "gpt-image-") {
		responseFormat = ""
	}
	req := imagesGenerationRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              1,
		Size:           c.imageSize,
		ResponseFormat: responseFormat,
	}

	var resp imagesGenerationResponse
	if err := c.do(ctx, http.MethodPost, "/v1/images/generations", req, &resp); err != nil {
		return nil, mapError(err)
	}
	if len(resp.Data) == 0 {
		return nil, ai.ErrNoImage
	}
	item := resp.Data[0]
	if b64 := strings.TrimSpace(item.B64JSON); b64 != "" {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil || len(raw) == 0 {
			return nil, fmt.Errorf("decode image base64: %w", err)
		}
		return &ai.Image{MimeType: "image/png", Data: raw}, nil
	}
	if u := strings.TrimSpace(item.URL); u != "" {
		raw, ct, err := c.downloadBytes(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("download generated image: %w", err)
		}
		mime := strings.TrimSpace(strings.Split(ct, ";")[0])
		if !strings.HasPrefix(mime, "image/") {
			mime = "image/png"
		}
		return &ai.Image{MimeType: mime, Data: raw}, nil
	}
	return nil, ai.ErrNoImage
}

func (c *Client) downloadBytes(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	// Signed blob URLs break if an unrelated Authorization header is sent.
	if shouldAttachOpenAIAuth(c.baseURL, rawURL) {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, "", readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &openAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, strings.TrimSpace(resp.Header.Get("Content-Type")), nil
}

func shouldAttachOpenAIAuth(baseURL, rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u == nil {
		return false
	}
	host := strings.ToLower(strings.TrimSpace(u.Hostname()))
	if host == "" {
		return false
	}
	if bu, err := url.Parse(strings.TrimSpace(baseURL)); err == nil && bu != nil {
		baseHost := strings.ToLower(strings.TrimSpace(bu.Hostname()))
		if baseHost != "" && host == baseHost {
			return true
		}
	}
	return host == "openai.com" || strings.HasSuffix(host, ".openai.com")
}

func mapError(err error) error {
	var httpErr *openAIHTTPError
	if errors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden) {
		return fmt.Errorf("%w: openai rejected credentials (%d)", ai.ErrUnavailable, httpErr.StatusCode)
	}
	return err
}

func (c *Client) observe(op string, err error, start time.Time) {
	observability.Current().ObserveAIRequest(providerName, op, statusFromErr(err), time.Since(start))
}

func statusFromErr(err error) string {
	if err == nil {
		return "ok"
	}
	var httpErr *openAIHTTPError
	if errors.As(err, &httpErr) {
		return strconv.Itoa(httpErr.StatusCode)
	}
	switch {
	case errors.Is(err, ai.ErrNoImage):
		return "no_image"
	case errors.Is(err, ai.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	return "error"
}
