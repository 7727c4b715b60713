package services

import (
	"context"
	stderrors "errors"
	"net"
	"path/filepath"
	"time"

	"food-reels-server/storage"
	"food-reels-server/utils/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadService bounds every object-store upload with a deadline and maps
// failures onto client-facing statuses.
type UploadService struct {
	store   ObjectStore
	timeout time.Duration
	log     *zap.Logger
}

func NewUploadService(store ObjectStore, timeout time.Duration, log *zap.Logger) *UploadService {
	return &UploadService{store: store, timeout: timeout, log: log}
}

type uploadOutcome struct {
	res *storage.Result
	err error
}

// Upload sends file under name and returns its public URL. The transfer is
// cancelled once the deadline fires.
func (s *UploadService) Upload(ctx context.Context, file UploadFile, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan uploadOutcome, 1)
	go func() {
		res, err := s.store.Upload(ctx, file.Data, name, file.MimeType)
		done <- uploadOutcome{res: res, err: err}
	}()

	var out uploadOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}
	if out.err != nil {
		apiErr := classifyUploadError(out.err)
		s.log.Error("Upload failed",
			zap.String("file", name),
			zap.Int("status", apiErr.Status),
			zap.Error(out.err))
		return "", apiErr
	}
	return out.res.URL, nil
}

func classifyUploadError(err error) *errors.APIError {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.UploadTimeout(err)
	}
	var dnsErr *net.DNSError
	var opErr *net.OpError
	if stderrors.As(err, &dnsErr) || stderrors.As(err, &opErr) {
		return errors.UpstreamNetwork(err)
	}
	return errors.Internal("File upload failed", err)
}

// randomName gives an upload a collision-free name that keeps the original extension.
func randomName(original string) string {
	return uuid.NewString() + filepath.Ext(original)
}
