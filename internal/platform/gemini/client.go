package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/ai"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

const (
	DefaultTextModel  = "gemini-3-flash-preview"
	DefaultImageModel = "gemini-3-pro-image-preview"
	providerName      = "gemini"
)

type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

// Client serves both capabilities from one genai client.
type Client struct {
	log        *logger.Logger
	models     contentGenerator
	textModel  string
	imageModel string
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newClient(log, gc.Models, cfg), nil
}

func newClient(log *logger.Logger, models contentGenerator, cfg Config) *Client {
	textModel := strings.TrimSpace(cfg.TextModel)
	if textModel == "" {
		textModel = DefaultTextModel
	}
	imageModel := strings.TrimSpace(cfg.ImageModel)
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	return &Client{
		log:        log.With("service", "GeminiClient"),
		models:     models,
		textModel:  textModel,
		imageModel: imageModel,
	}
}

func (c *Client) Available() bool { return c != nil && c.models != nil }

// GenerateJSON asks the text model for application/json output and returns the raw text.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "gemini.generate_json", attribute.String("ai.model", c.textModel))
	resp, err := c.models.GenerateContent(ctx, c.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		err = mapError(err)
		c.observe("text", err, start)
		observability.EndSpan(span, err)
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		err = fmt.Errorf("gemini returned an empty response%s", finishReason(resp))
	}
	c.observe("text", err, start)
	observability.EndSpan(span, err)
	return text, err
}

// GenerateImage returns the first inline image part, or ai.ErrNoImage.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*ai.Image, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "gemini.generate_image", attribute.String("ai.model", c.imageModel))
	resp, err := c.models.GenerateContent(ctx, c.imageModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		err = mapError(err)
		c.observe("image", err, start)
		observability.EndSpan(span, err)
		return nil, err
	}
	img := firstInlineImage(resp)
	if img == nil {
		err = fmt.Errorf("%w%s", ai.ErrNoImage, finishReason(resp))
	}
	c.observe("image", err, start)
	observability.EndSpan(span, err)
	return img, err
}

func firstInlineImage(resp *genai.GenerateContentResponse) *ai.Image {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := strings.TrimSpace(part.InlineData.MIMEType)
			if mime != "" && !strings.HasPrefix(mime, "image/") {
				continue
			}
			if mime == "" {
				mime = "image/png"
			}
			return &ai.Image{MimeType: mime, Data: part.InlineData.Data}
		}
	}
	return nil
}

func finishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return ""
	}
	if r := resp.Candidates[0].FinishReason; r != "" {
		return fmt.Sprintf(" (finish_reason=%s)", r)
	}
	return ""
}

func (c *Client) observe(op string, err error, start time.Time) {
	status := "ok"
	if err != nil {
		status = "error"
		if errors.Is(err, ai.ErrNoImage) {
			status = "no_image"
		}
	}
	observability.Current().ObserveAIRequest(providerName, op, status, time.Since(start))
}

func mapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("gemini request failed: %w", err)
	}
	switch {
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: gemini rejected credentials (%d %s)", ai.ErrUnavailable, apiErr.Code, apiErr.Message)
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("gemini rate limited: %w", err)
	default:
		return fmt.Errorf("gemini http %d: %w", apiErr.Code, err)
	}
}
