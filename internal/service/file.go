package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/storage"
	"github.com/fittrack/fittrack/internal/validation"
	"github.com/google/uuid"
)

var ErrStorageNotConfigured = errors.New("storage not configured")

type FileService struct {
	fileRepo  repository.FileRepository
	storage   storage.Storage
	keyPrefix string
}

// NewFileService accepts a nil store; uploads then fail with ErrStorageNotConfigured.
func NewFileService(fileRepo repository.FileRepository, store storage.Storage, keyPrefix string) *FileService {
	return &FileService{
		fileRepo:  fileRepo,
		storage:   store,
		keyPrefix: strings.Trim(keyPrefix, "/"),
	}
}

// Upload validates an image, stores it under {prefix}/{userID}/{uuid}{ext}
// and records it. The returned URL is usable by the client.
func (s *FileService) Upload(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (*model.File, string, error) {
	if s.storage == nil {
		return nil, "", ErrStorageNotConfigured
	}

	mimeType, err := validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		return nil, "", &validation.Error{Field: "file", Message: err.Error()}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.New().String() + ext
	key := path.Join(s.keyPrefix, userID, filename)

	err = s.storage.Save(ctx, key, file, mimeType)
	if err != nil {
		return nil, "", fmt.Errorf("failed to save file: %w", err)
	}

	record := &model.File{
		ID:           uuid.New().String(),
		UserID:       userID,
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         header.Size,
		StoragePath:  key,
		Public:       true,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.fileRepo.Create(ctx, record)
	if err != nil {
		delErr := s.storage.Delete(ctx, key)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", key)
		}
		return nil, "", fmt.Errorf("failed to create file record: %w", err)
	}

	return record, s.storage.URL(ctx, key), nil
}

func (s *FileService) Files(ctx context.Context, userID string) ([]*model.File, error) {
	return s.fileRepo.Files(ctx, userID)
}

// Delete removes the owner's file from storage (best effort) and the database.
func (s *FileService) Delete(ctx context.Context, userID, fileID string) error {
	file, err := s.fileRepo.ByID(ctx, userID, fileID)
	if err != nil {
		return err
	}

	if s.storage != nil {
		delErr := s.storage.Delete(ctx, file.StoragePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage", "error", delErr, "path", file.StoragePath)
		}
	}

	return s.fileRepo.Delete(ctx, userID, fileID)
}
