package handlers

import (
	stderrors "errors"
	"io"
	"net/http"

	"food-reels-server/services"
	"food-reels-server/utils/errors"
)

// memoryLimit is how much of a multipart body is held in memory before spilling to disk.
const memoryLimit = 32 << 20

// parseMultipart bounds the body and parses it. A body that is not
// multipart at all is not an error: the caller sees an empty form.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	err := r.ParseMultipartForm(memoryLimit)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, stderrors.Is(err, http.ErrNotMultipart):
		return nil
	case stderrors.As(err, &tooLarge):
		return errors.NewAPIError("PAYLOAD_TOO_LARGE", "File is too large", http.StatusRequestEntityTooLarge)
	default:
		return errors.Validation("Invalid multipart form")
	}
}

// formFile reads one uploaded file, or returns nil when the field is absent.
func formFile(r *http.Request, field string) (*services.UploadFile, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	header := r.MultipartForm.File[field][0]
	f, err := header.Open()
	if err != nil {
		return nil, errors.Validation("Unreadable file " + field)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Validation("Unreadable file " + field)
	}
	return &services.UploadFile{
		Data:     data,
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
	}, nil
}

// optionalValue distinguishes an absent form field from an empty one.
func optionalValue(r *http.Request, field string) *string {
	values, ok := r.Form[field]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
