package mocks

import (
	"context"

	"legal-dashboard/domain/entities"

	"github.com/stretchr/testify/mock"
)

// ClientRepository is a testify mock of ports.ClientRepository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Create(ctx context.Context, client *entities.Client) (*entities.Client, error) {
	args := m.Called(ctx, client)
	if v := args.Get(0); v != nil {
		return v.(*entities.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) Get(ctx context.Context, clientID string) (*entities.Client, error) {
	args := m.Called(ctx, clientID)
	if v := args.Get(0); v != nil {
		return v.(*entities.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) ListByUserID(ctx context.Context, userID string) ([]*entities.Client, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) Update(ctx context.Context, clientID string, changes entities.ClientChanges) (*entities.Client, error) {
	args := m.Called(ctx, clientID, changes)
	if v := args.Get(0); v != nil {
		return v.(*entities.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) Delete(ctx context.Context, clientID string) error {
	return m.Called(ctx, clientID).Error(0)
}

// PackageRepository is a testify mock of ports.PackageRepository.
type PackageRepository struct {
	mock.Mock
}

func (m *PackageRepository) Create(ctx context.Context, pkg *entities.Package) (*entities.Package, error) {
	args := m.Called(ctx, pkg)
	if v := args.Get(0); v != nil {
		return v.(*entities.Package), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PackageRepository) Get(ctx context.Context, packageID string) (*entities.Package, error) {
	args := m.Called(ctx, packageID)
	if v := args.Get(0); v != nil {
		return v.(*entities.Package), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PackageRepository) ListByClientID(ctx context.Context, clientID string) ([]*entities.Package, error) {
	args := m.Called(ctx, clientID)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Package), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PackageRepository) ListByFileNumberID(ctx context.Context, fileNumberID string) ([]*entities.Package, error) {
	args := m.Called(ctx, fileNumberID)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Package), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PackageRepository) Update(ctx context.Context, packageID string, changes entities.PackageChanges) (*entities.Package, error) {
	args := m.Called(ctx, packageID, changes)
	if v := args.Get(0); v != nil {
		return v.(*entities.Package), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PackageRepository) Delete(ctx context.Context, packageID string) error {
	return m.Called(ctx, packageID).Error(0)
}

// FileNumberRepository is a testify mock of ports.FileNumberRepository.
type FileNumberRepository struct {
	mock.Mock
}

func (m *FileNumberRepository) Create(ctx context.Context, fileNumber *entities.FileNumber) (*entities.FileNumber, error) {
	args := m.Called(ctx, fileNumber)
	if v := args.Get(0); v != nil {
		return v.(*entities.FileNumber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FileNumberRepository) Get(ctx context.Context, fileID string) (*entities.FileNumber, error) {
	args := m.Called(ctx, fileID)
	if v := args.Get(0); v != nil {
		return v.(*entities.FileNumber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FileNumberRepository) ListByClientID(ctx context.Context, clientID string) ([]*entities.FileNumber, error) {
	args := m.Called(ctx, clientID)
	if v := args.Get(0); v != nil {
		return v.([]*entities.FileNumber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FileNumberRepository) ListByPackageID(ctx context.Context, packageID string) ([]*entities.FileNumber, error) {
	args := m.Called(ctx, packageID)
	if v := args.Get(0); v != nil {
		return v.([]*entities.FileNumber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FileNumberRepository) Update(ctx context.Context, fileID string, changes entities.FileNumberChanges) (*entities.FileNumber, error) {
	args := m.Called(ctx, fileID, changes)
	if v := args.Get(0); v != nil {
		return v.(*entities.FileNumber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FileNumberRepository) Delete(ctx context.Context, fileID string) error {
	return m.Called(ctx, fileID).Error(0)
}

// WorkflowRepository is a testify mock of ports.WorkflowRepository.
type WorkflowRepository struct {
	mock.Mock
}

func (m *WorkflowRepository) Create(ctx context.Context, workflow *entities.Workflow) (*entities.Workflow, error) {
	args := m.Called(ctx, workflow)
	if v := args.Get(0); v != nil {
		return v.(*entities.Workflow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkflowRepository) Get(ctx context.Context, workflowID string) (*entities.Workflow, error) {
	args := m.Called(ctx, workflowID)
	if v := args.Get(0); v != nil {
		return v.(*entities.Workflow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkflowRepository) ListByPackageID(ctx context.Context, packageID string) ([]*entities.Workflow, error) {
	args := m.Called(ctx, packageID)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Workflow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkflowRepository) Update(ctx context.Context, workflowID string, changes entities.WorkflowChanges) (*entities.Workflow, error) {
	args := m.Called(ctx, workflowID, changes)
	if v := args.Get(0); v != nil {
		return v.(*entities.Workflow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkflowRepository) Delete(ctx context.Context, workflowID string) error {
	return m.Called(ctx, workflowID).Error(0)
}

// DocumentRepository is a testify mock of ports.DocumentRepository.
type DocumentRepository struct {
	mock.Mock
}

func (m *DocumentRepository) Create(ctx context.Context, fileID string, doc entities.NewDocument) (*entities.Document, error) {
	args := m.Called(ctx, fileID, doc)
	if v := args.Get(0); v != nil {
		return v.(*entities.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentRepository) Get(ctx context.Context, fileID, documentID string) (*entities.Document, error) {
	args := m.Called(ctx, fileID, documentID)
	if v := args.Get(0); v != nil {
		return v.(*entities.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentRepository) ListByFileID(ctx context.Context, fileID string) ([]*entities.Document, error) {
	args := m.Called(ctx, fileID)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentRepository) FindByFileName(ctx context.Context, fileID, fileName string) (*entities.Document, error) {
	args := m.Called(ctx, fileID, fileName)
	if v := args.Get(0); v != nil {
		return v.(*entities.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentRepository) Update(ctx context.Context, fileID, documentID string, changes entities.DocumentChanges) (*entities.Document, error) {
	args := m.Called(ctx, fileID, documentID, changes)
	if v := args.Get(0); v != nil {
		return v.(*entities.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentRepository) SoftDelete(ctx context.Context, fileID, documentID, deletedBy string) (*entities.Document, error) {
	args := m.Called(ctx, fileID, documentID, deletedBy)
	if v := args.Get(0); v != nil {
		return v.(*entities.Document), args.Error(1)
	}
	return nil, args.Error(1)
}
