package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/stocknexus/stocknexus-backend/pkg/config"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
)

const pingTimeout = 5 * time.Second

// Client wraps the GCS SDK for attachment storage (grievance files, service bills).
type Client struct {
	raw           *storage.Client
	defaultBucket string
	urlExpiry     time.Duration
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient builds a GCS client and verifies the configured bucket is reachable.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	var opts []option.ClientOption
	if gcp.ApplicationCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(gcp.ApplicationCredentials))
	}

	raw, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", err)
	}

	client := &Client{
		raw:           raw,
		defaultBucket: cfg.BucketName,
		urlExpiry:     cfg.DownloadURLExpiry,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "gcs client initialized")
	}

	return client, nil
}

// DefaultBucket returns the configured bucket name.
func (c *Client) DefaultBucket() string {
	if c == nil {
		return ""
	}
	return c.defaultBucket
}

// Close releases the underlying SDK client.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// Ping verifies the default bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return errors.New("gcs client not initialized")
	}
	if c.defaultBucket == "" {
		return errors.New("gcs bucket not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.raw.Bucket(c.defaultBucket).Attrs(ctx); err != nil {
		return fmt.Errorf("gcs bucket check failed: %w", err)
	}
	return nil
}

// Upload streams the reader into the named object, returning the stored path.
func (c *Client) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	if c == nil || c.raw == nil {
		return "", errors.New("gcs client not initialized")
	}
	if objectPath == "" {
		return "", errors.New("object path is required")
	}

	w := c.raw.Bucket(c.defaultBucket).Object(objectPath).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("uploading object %q: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing object %q: %w", objectPath, err)
	}
	return objectPath, nil
}

// SignedDownloadURL returns a time-limited URL for the stored object.
func (c *Client) SignedDownloadURL(objectPath string) (string, error) {
	if c == nil || c.raw == nil {
		return "", errors.New("gcs client not initialized")
	}
	if objectPath == "" {
		return "", errors.New("object path is required")
	}

	expiry := c.urlExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	url, err := c.raw.Bucket(c.defaultBucket).SignedURL(objectPath, &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("signing url for %q: %w", objectPath, err)
	}
	return url, nil
}

// Delete removes the stored object. Missing objects are treated as already deleted.
func (c *Client) Delete(ctx context.Context, objectPath string) error {
	if c == nil || c.raw == nil {
		return errors.New("gcs client not initialized")
	}
	if objectPath == "" {
		return errors.New("object path is required")
	}

	err := c.raw.Bucket(c.defaultBucket).Object(objectPath).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}
