// Package storage uploads media to ImageKit and returns the public URL.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// Result is the subset of the ImageKit upload response the server keeps.
type Result struct {
	FileID string `json:"fileId"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Size   int64  `json:"size"`
}

// StatusError is returned when ImageKit answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("imagekit upload failed with status %d: %s", e.StatusCode, e.Message)
}

var ErrNoURL = errors.New("imagekit upload returned no url")

// ImageKit authenticates server-side uploads with the private key only.
type ImageKit struct {
	privateKey string
	uploadURL  string
	httpClient *http.Client
}

func NewImageKit(privateKey, uploadURL string, httpClient *http.Client) *ImageKit {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ImageKit{
		privateKey: privateKey,
		uploadURL:  uploadURL,
		httpClient: httpClient,
	}
}

// Upload sends data as a multipart file upload. The request is bound to ctx,
// so cancelling ctx aborts the transfer.
func (k *ImageKit) Upload(ctx context.Context, data []byte, fileName, mimeType string) (*Result, error) {
	if len(data) == 0 || fileName == "" {
		return nil, errors.New("file and fileName are required")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	header.Set("Content-Type", mimeType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	fields := map[string]string{
		"fileName":          fileName,
		"useUniqueFileName": "true",
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.uploadURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(k.privateKey, "")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode imagekit response: %w", err)
	}
	if result.URL == "" {
		return nil, ErrNoURL
	}
	return &result, nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
