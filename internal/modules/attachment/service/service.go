package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"

	"anoa.com/collabhub/internal/modules/attachment/dto"
	"anoa.com/collabhub/pkg/apperror"
	"anoa.com/collabhub/pkg/storage"
	"github.com/rs/zerolog/log"
)

const MaxUploadSize = 10 << 20

type AttachmentService interface {
	// UploadAttachment stores the file under folder and returns its public
	// URL. The URL is what clients put into a project's attachments or a
	// user's profilePic.
	UploadAttachment(ctx context.Context, folder string, file *multipart.FileHeader) (*dto.UploadAttachmentResponse, error)
}

type attachmentService struct {
	fileStorage storage.ImageStorage
	baseFolder  string
}

// NewAttachmentService builds the upload service. With a nil fileStorage
// every upload fails with apperror.ErrUnavailable.
func NewAttachmentService(fileStorage storage.ImageStorage, baseFolder string) AttachmentService {
	return &attachmentService{fileStorage: fileStorage, baseFolder: baseFolder}
}

func (s *attachmentService) UploadAttachment(ctx context.Context, folder string, file *multipart.FileHeader) (*dto.UploadAttachmentResponse, error) {
	if s.fileStorage == nil {
		return nil, fmt.Errorf("uploads are not configured: %w", apperror.ErrUnavailable)
	}
	if file.Size == 0 {
		return nil, fmt.Errorf("file is empty: %w", apperror.ErrInvalidInput)
	}
	if file.Size > MaxUploadSize {
		return nil, fmt.Errorf("file exceeds %d bytes: %w", MaxUploadSize, apperror.ErrInvalidInput)
	}
	if folder == "" {
		folder = dto.FolderAttachments
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	url, err := s.fileStorage.UploadImage(ctx, f, path.Join(s.baseFolder, folder), file.Filename)
	if err != nil {
		return nil, err
	}
	log.Info().Str("url", url).Str("folder", folder).Int64("size", file.Size).Msg("file uploaded")

	return &dto.UploadAttachmentResponse{
		URL:      url,
		FileType: file.Header.Get("Content-Type"),
	}, nil
}
