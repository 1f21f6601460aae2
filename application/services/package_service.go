package services

import (
	"context"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
	"legal-dashboard/pkg/errors"
	"legal-dashboard/pkg/utils"

	"go.uber.org/zap"
)

// CreatePackageCommand is the input for PackageService.Create.
type CreatePackageCommand struct {
	ClientID     string                    `json:"clientId" validate:"required"`
	Name         string                    `json:"name" validate:"required"`
	FileNumberID *string                   `json:"fileNumberId"`
	Description  *string                   `json:"description"`
	Recipient    *string                   `json:"recipient"`
	Type         string                    `json:"type"`
	Status       string                    `json:"status"`
	Documents    entities.PackageDocuments `json:"documents"`
}

// PackageService manages document packages.
type PackageService struct {
	packages ports.PackageRepository
	logger   *zap.Logger
}

// NewPackageService creates a new package service
func NewPackageService(packages ports.PackageRepository, logger *zap.Logger) *PackageService {
	return &PackageService{packages: packages, logger: logger}
}

// Create adds a package, filling the default type, status and document categories.
func (s *PackageService) Create(ctx context.Context, cmd CreatePackageCommand) (*entities.Package, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, errors.NewValidationError("ClientId and name are required")
	}

	pkg := &entities.Package{
		ClientID:     cmd.ClientID,
		FileNumberID: nonEmpty(cmd.FileNumberID),
		Name:         cmd.Name,
		Description:  nonEmpty(cmd.Description),
		Recipient:    nonEmpty(cmd.Recipient),
		Type:         cmd.Type,
		Status:       cmd.Status,
		Documents:    cmd.Documents,
	}
	if pkg.Type == "" {
		pkg.Type = entities.PackageTypeGeneral
	}
	if pkg.Status == "" {
		pkg.Status = entities.PackageStatusDraft
	}
	if pkg.Documents == nil {
		pkg.Documents = entities.DefaultPackageDocuments()
	}

	created, err := s.packages.Create(ctx, pkg)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Package created", zap.String("packageId", created.PackageID), zap.String("clientId", created.ClientID))
	return created, nil
}

func (s *PackageService) ListByClient(ctx context.Context, clientID string) ([]*entities.Package, error) {
	return s.packages.ListByClientID(ctx, clientID)
}

func (s *PackageService) ListByFileNumber(ctx context.Context, fileNumberID string) ([]*entities.Package, error) {
	return s.packages.ListByFileNumberID(ctx, fileNumberID)
}

func (s *PackageService) Get(ctx context.Context, packageID string) (*entities.Package, error) {
	return s.packages.Get(ctx, packageID)
}

func (s *PackageService) Update(ctx context.Context, packageID string, changes entities.PackageChanges) (*entities.Package, error) {
	return s.packages.Update(ctx, packageID, changes)
}

func (s *PackageService) Delete(ctx context.Context, packageID string) error {
	return s.packages.Delete(ctx, packageID)
}

// nonEmpty drops pointers to empty strings so optional attributes stay unset.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
