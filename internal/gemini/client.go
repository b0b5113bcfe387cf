package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Image is an inline image sent to or returned by the model.
type Image struct {
	Data     []byte
	MIMEType string
}

type Options struct {
	APIKey     string
	ImageModel string
	TextModel  string
	VideoModel string
	// MinInterval paces calls to the API across all callers.
	MinInterval time.Duration
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

type Client struct {
	genai      *genai.Client
	imageModel string
	textModel  string
	videoModel string
	limiter    *rate.Limiter
	log        *zap.Logger
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}

	return &Client{
		genai:      gc,
		imageModel: opts.ImageModel,
		textModel:  opts.TextModel,
		videoModel: opts.VideoModel,
		limiter:    rate.NewLimiter(limit, 2),
		log:        log.Named("gemini"),
	}, nil
}

// GenerateImage issues one multimodal request and returns the first inline
// image in the response. A response without an image yields (nil, nil).
// There is no retry here.
func (c *Client) GenerateImage(ctx context.Context, prompt string, refs []Image) (*Image, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.imageModel, BuildContents(prompt, refs), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig:        &genai.ImageConfig{AspectRatio: "1:1"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	return FirstImage(resp), nil
}

// GenerateText runs a plain text prompt against the text model.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate text: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// BuildContents places every reference image before the prompt text.
func BuildContents(prompt string, refs []Image) []*genai.Content {
	parts := make([]*genai.Part, 0, len(refs)+1)
	for _, ref := range refs {
		if len(ref.Data) == 0 {
			continue
		}
		mime := ref.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, genai.NewPartFromBytes(ref.Data, mime))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// FirstImage returns the first inline image part of a response.
func FirstImage(resp *genai.GenerateContentResponse) *Image {
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
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return &Image{Data: part.InlineData.Data, MIMEType: mime}
		}
	}
	return nil
}

// IsRateLimited reports whether err is the API's rate-limit or quota signal.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"429", "resource_exhausted", "rate limit", "quota"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
