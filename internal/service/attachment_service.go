package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/mapper"
	"github.com/sailfin-io/backoffice-api/internal/repository"
	"github.com/sailfin-io/backoffice-api/internal/storage"
)

// AttachmentService stores uploaded files and tracks their document links.
type AttachmentService struct {
	attachmentRepo *repository.AttachmentRepository
	store          storage.Storage
	logger         *zap.Logger
}

func NewAttachmentService(attachmentRepo *repository.AttachmentRepository, store storage.Storage, logger *zap.Logger) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		store:          store,
		logger:         logger,
	}
}

// Upload stores the file and records it against the owning document.
func (s *AttachmentService) Upload(ctx context.Context, ownerType domain.AttachmentOwnerType, ownerID uuid.UUID, filename, contentType string, data io.Reader, uploadedBy string) (*domain.AttachmentDTO, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}

	storagePath, size, err := s.store.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	attachment := &domain.Attachment{
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		UploadedBy:  uploadedBy,
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		// Storage write succeeded but the record did not; drop the orphan.
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to remove orphaned attachment file",
				zap.String("storage_path", storagePath),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	s.logger.Info("attachment uploaded",
		zap.String("attachment_id", attachment.ID.String()),
		zap.String("owner_type", string(ownerType)),
		zap.String("owner_id", ownerID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size),
	)

	dto := mapper.ToAttachmentDTO(attachment)
	return &dto, nil
}

// Download returns the stored file content and its metadata.
func (s *AttachmentService) Download(ctx context.Context, id uuid.UUID) (*domain.Attachment, io.ReadCloser, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	rc, err := s.store.Download(ctx, attachment.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	return attachment, rc, nil
}

// Delete removes the attachment record and its stored file.
func (s *AttachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if err := s.store.Delete(ctx, attachment.StoragePath); err != nil {
		s.logger.Warn("failed to delete attachment file",
			zap.String("storage_path", attachment.StoragePath),
			zap.Error(err),
		)
	}
	return nil
}

func (s *AttachmentService) ListByOwner(ctx context.Context, ownerType domain.AttachmentOwnerType, ownerID uuid.UUID) ([]domain.AttachmentDTO, error) {
	attachments, err := s.attachmentRepo.ListByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]domain.AttachmentDTO, 0, len(attachments))
	for i := range attachments {
		items = append(items, mapper.ToAttachmentDTO(&attachments[i]))
	}
	return items, nil
}
