package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const (
	VideoDurationSeconds = 6
	VideoAspectRatio     = "9:16"
	VideoResolution      = "1080p"
	VideoMIMEType        = "video/mp4"
)

type VideoRequest struct {
	Prompt         string
	NegativePrompt string
	Source         Image
}

// VideoResult is the state of a long-running video operation.
type VideoResult struct {
	Done  bool
	Error string
	Video *Video
}

type Video struct {
	Data     []byte
	MIMEType string
}

// StartVideo submits a video generation request and returns the operation
// name to poll.
func (c *Client) StartVideo(ctx context.Context, req VideoRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	duration := int32(VideoDurationSeconds)
	op, err := c.genai.Models.GenerateVideos(ctx, c.videoModel, req.Prompt,
		&genai.Image{ImageBytes: req.Source.Data, MIMEType: req.Source.MIMEType},
		&genai.GenerateVideosConfig{
			NumberOfVideos:   1,
			DurationSeconds:  &duration,
			AspectRatio:      VideoAspectRatio,
			Resolution:       VideoResolution,
			PersonGeneration: string(genai.PersonGenerationDontAllow),
			NegativePrompt:   req.NegativePrompt,
		})
	if err != nil {
		return "", fmt.Errorf("gemini generate videos: %w", err)
	}
	if op == nil || op.Name == "" {
		return "", errors.New("gemini returned no operation name")
	}
	return op.Name, nil
}

// VideoStatus polls an operation once. When it is done with a video, the
// bytes are returned inline or downloaded from the returned URI.
func (c *Client) VideoStatus(ctx context.Context, operation string) (*VideoResult, error) {
	op, err := c.genai.Operations.GetVideosOperation(ctx, &genai.GenerateVideosOperation{Name: operation}, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini get operation: %w", err)
	}
	if !op.Done {
		return &VideoResult{}, nil
	}
	if len(op.Error) > 0 {
		return &VideoResult{Done: true, Error: operationError(op.Error)}, nil
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return &VideoResult{Done: true, Error: "no video in response"}, nil
	}

	generated := op.Response.GeneratedVideos[0]
	data := generated.Video.VideoBytes
	if len(data) == 0 {
		if generated.Video.URI == "" {
			return &VideoResult{Done: true, Error: "video has neither bytes nor uri"}, nil
		}
		data, err = c.genai.Files.Download(ctx, genai.NewDownloadURIFromGeneratedVideo(generated), nil)
		if err != nil {
			return nil, fmt.Errorf("gemini download video: %w", err)
		}
	}

	mime := generated.Video.MIMEType
	if mime == "" {
		mime = VideoMIMEType
	}
	return &VideoResult{Done: true, Video: &Video{Data: data, MIMEType: mime}}, nil
}

func operationError(e map[string]any) string {
	if msg, ok := e["message"].(string); ok && msg != "" {
		return msg
	}
	return fmt.Sprint(e)
}
