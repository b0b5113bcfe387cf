package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// MaxReferenceBytes caps downloaded and uploaded reference images.
const MaxReferenceBytes = 10 << 20

type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch reference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("reference fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxReferenceBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read reference: %w", err)
	}
	if len(data) > MaxReferenceBytes {
		return nil, "", fmt.Errorf("reference image exceeds %d bytes", MaxReferenceBytes)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("reference image is empty")
	}

	return data, DetectMIME(data, resp.Header.Get("Content-Type")), nil
}

// DetectMIME prefers a declared image type and sniffs the bytes otherwise.
func DetectMIME(data []byte, declared string) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mt, "image/") {
			return mt
		}
	}
	return http.DetectContentType(data)
}
