package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Uploader pushes capture bytes to presigned object-storage URLs.
type Uploader struct {
	httpClient *http.Client
}

func NewUploader() *Uploader {
	return &Uploader{httpClient: &http.Client{Timeout: 60 * time.Second}}
}

// Put uploads data to a presigned URL. The URL already carries the
// authorization, so a plain PUT is all that is needed.
func (u *Uploader) Put(ctx context.Context, url string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload: unexpected status %d", resp.StatusCode)
	}
	return nil
}
