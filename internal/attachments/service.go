package attachments

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/config"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
)

// UploadRequest carries one uploaded file.
type UploadRequest struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Attachment points at a stored object. The owner's user id is embedded in
// the object path so access checks never need a lookup.
type Attachment struct {
	ObjectPath string `json:"object_path"`
	URL        string `json:"url,omitempty"`
}

// Service stores uploaded files and mints short-lived download links.
type Service interface {
	Upload(ctx context.Context, actor authz.Actor, req UploadRequest) (*Attachment, error)
	DownloadURL(ctx context.Context, actor authz.Actor, objectPath string) (string, error)
}

type objectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error)
	SignedDownloadURL(objectPath string) (string, error)
}

// ServiceParams packages attachment dependencies.
type ServiceParams struct {
	Store  objectStore
	Config config.GCSConfig
	Logger *logger.Logger
}

type service struct {
	store  objectStore
	cfg    config.GCSConfig
	logger *logger.Logger
}

// NewService wires attachment dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "object store required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{store: params.Store, cfg: params.Config, logger: params.Logger}, nil
}

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".xlsx": {},
	".csv":  {},
}

func (s *service) Upload(ctx context.Context, actor authz.Actor, req UploadRequest) (*Attachment, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if req.Reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file required")
	}

	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	if maxBytes > 0 && req.Size > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file too large").WithDetails(map[string]any{"max_mb": s.cfg.MaxUploadMB})
	}

	ext := strings.ToLower(path.Ext(req.FileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type").WithDetails(map[string]any{"extension": ext})
	}

	objectPath := fmt.Sprintf("attachments/%s/%s%s", actor.UserID, uuid.NewString(), ext)
	if _, err := s.store.Upload(ctx, objectPath, req.ContentType, req.Reader); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store attachment")
	}

	ctx = s.logger.WithFields(ctx, map[string]any{"object_path": objectPath, "size_bytes": req.Size})
	s.logger.Info(ctx, "attachments.uploaded")

	return &Attachment{ObjectPath: objectPath}, nil
}

func (s *service) DownloadURL(ctx context.Context, actor authz.Actor, objectPath string) (string, error) {
	if !actor.Valid() {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	owner, ok := ownerFromPath(objectPath)
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid object path")
	}
	// Other users' files read as missing unless the caller is an admin.
	if !actor.IsAdmin() && owner != actor.UserID {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "attachment not found")
	}

	url, err := s.store.SignedDownloadURL(objectPath)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
	}
	return url, nil
}

func ownerFromPath(objectPath string) (uuid.UUID, bool) {
	parts := strings.Split(strings.Trim(objectPath, "/"), "/")
	if len(parts) != 3 || parts[0] != "attachments" {
		return uuid.Nil, false
	}
	owner, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, false
	}
	return owner, true
}
