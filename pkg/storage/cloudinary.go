package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// ImageStorage stores uploaded files and hands back public URLs.
type ImageStorage interface {
	// UploadImage stores the content of r under folder and returns its URL.
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	DeleteImage(ctx context.Context, fileURL string) error
}

var errNotConfigured = errors.New("cloudinary storage is not configured")

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage returns a nil storage and no error when any credential
// is missing; callers treat that as uploads being disabled.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (ImageStorage, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, nil
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	return &cloudinaryStorage{cld: cld}, nil
}

// UploadImage prefixes the file name with a short random id. Images are
// converted to webp.
func (s *cloudinaryStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if s == nil || s.cld == nil {
		return "", errNotConfigured
	}

	ext := strings.ToLower(path.Ext(fileName))
	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       uuid.NewString()[:8] + "-" + strings.TrimSuffix(fileName, path.Ext(fileName)),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
	}
	if isImageExt(ext) {
		params.Format = "webp"
		params.Transformation = "q_auto"
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", fileName, err)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("upload of %s returned no url", fileName)
	}
	return resp.SecureURL, nil
}

// DeleteImage treats an already missing asset as deleted.
func (s *cloudinaryStorage) DeleteImage(ctx context.Context, fileURL string) error {
	if s == nil || s.cld == nil {
		return errNotConfigured
	}

	publicID := ExtractPublicID(fileURL)
	if publicID == "" {
		return fmt.Errorf("not a cloudinary asset url: %s", fileURL)
	}

	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", publicID, err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("delete of %s returned %q", publicID, resp.Result)
	}
	return nil
}

// ExtractPublicID returns the asset id of a delivery URL, the path after
// "upload/" minus the optional version and the extension, or "" when fileURL
// is not a Cloudinary delivery URL.
//
//	https://res.cloudinary.com/demo/image/upload/v123/folder/sample.jpg -> folder/sample
func ExtractPublicID(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}

	_, rest, found := strings.Cut(u.Path, "/upload/")
	if !found {
		return ""
	}
	segments := strings.Split(rest, "/")
	if isVersion(segments[0]) {
		segments = segments[1:]
	}

	id := strings.Join(segments, "/")
	return strings.TrimSuffix(id, path.Ext(id))
}

func isVersion(segment string) bool {
	digits, ok := strings.CutPrefix(segment, "v")
	if !ok || digits == "" {
		return false
	}
	_, err := strconv.ParseUint(digits, 10, 64)
	return err == nil
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".gif", ".webp":
		return true
	}
	return false
}
