package services

import (
	"context"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
	"legal-dashboard/pkg/errors"
	"legal-dashboard/pkg/utils"

	"go.uber.org/zap"
)

// CreateFileNumberCommand is the input for FileNumberService.Create.
// A file number hangs off a package, a client, or both.
type CreateFileNumberCommand struct {
	PackageID   string  `json:"packageId" validate:"required_without=ClientID"`
	ClientID    string  `json:"clientId" validate:"required_without=PackageID"`
	FileNumber  string  `json:"fileNumber" validate:"required"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// FileNumberService manages case file numbers.
type FileNumberService struct {
	fileNumbers ports.FileNumberRepository
	logger      *zap.Logger
}

// NewFileNumberService creates a new file number service
func NewFileNumberService(fileNumbers ports.FileNumberRepository, logger *zap.Logger) *FileNumberService {
	return &FileNumberService{fileNumbers: fileNumbers, logger: logger}
}

func (s *FileNumberService) Create(ctx context.Context, cmd CreateFileNumberCommand) (*entities.FileNumber, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, errors.NewValidationError("PackageId or clientId, and fileNumber are required")
	}

	status := cmd.Status
	if status == "" {
		status = entities.FileNumberStatusActive
	}

	created, err := s.fileNumbers.Create(ctx, &entities.FileNumber{
		PackageID:   optionalString(cmd.PackageID),
		ClientID:    optionalString(cmd.ClientID),
		FileNumber:  cmd.FileNumber,
		Description: nonEmpty(cmd.Description),
		Status:      status,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("File number created", zap.String("fileId", created.FileID), zap.String("fileNumber", created.FileNumber))
	return created, nil
}

func (s *FileNumberService) ListByClient(ctx context.Context, clientID string) ([]*entities.FileNumber, error) {
	return s.fileNumbers.ListByClientID(ctx, clientID)
}

func (s *FileNumberService) ListByPackage(ctx context.Context, packageID string) ([]*entities.FileNumber, error) {
	return s.fileNumbers.ListByPackageID(ctx, packageID)
}

func (s *FileNumberService) Get(ctx context.Context, fileID string) (*entities.FileNumber, error) {
	return s.fileNumbers.Get(ctx, fileID)
}

func (s *FileNumberService) Update(ctx context.Context, fileID string, changes entities.FileNumberChanges) (*entities.FileNumber, error) {
	return s.fileNumbers.Update(ctx, fileID, changes)
}

func (s *FileNumberService) Delete(ctx context.Context, fileID string) error {
	return s.fileNumbers.Delete(ctx, fileID)
}
