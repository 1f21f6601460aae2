package ports

import (
	"context"

	"legal-dashboard/domain/entities"
)

// ClientRepository persists clients.
// Create assigns the identifier (when empty) and both timestamps.
type ClientRepository interface {
	Create(ctx context.Context, client *entities.Client) (*entities.Client, error)
	Get(ctx context.Context, clientID string) (*entities.Client, error)
	ListByUserID(ctx context.Context, userID string) ([]*entities.Client, error)
	Update(ctx context.Context, clientID string, changes entities.ClientChanges) (*entities.Client, error)
	Delete(ctx context.Context, clientID string) error
}

// PackageRepository persists packages.
type PackageRepository interface {
	Create(ctx context.Context, pkg *entities.Package) (*entities.Package, error)
	Get(ctx context.Context, packageID string) (*entities.Package, error)
	ListByClientID(ctx context.Context, clientID string) ([]*entities.Package, error)

	// ListByFileNumberID uses the fileNumberIdIndex GSI and degrades to a scan
	// on tables created before the index existed.
	ListByFileNumberID(ctx context.Context, fileNumberID string) ([]*entities.Package, error)

	Update(ctx context.Context, packageID string, changes entities.PackageChanges) (*entities.Package, error)
	Delete(ctx context.Context, packageID string) error
}

// FileNumberRepository persists file numbers.
type FileNumberRepository interface {
	Create(ctx context.Context, fileNumber *entities.FileNumber) (*entities.FileNumber, error)
	Get(ctx context.Context, fileID string) (*entities.FileNumber, error)
	ListByClientID(ctx context.Context, clientID string) ([]*entities.FileNumber, error)
	ListByPackageID(ctx context.Context, packageID string) ([]*entities.FileNumber, error)
	Update(ctx context.Context, fileID string, changes entities.FileNumberChanges) (*entities.FileNumber, error)
	Delete(ctx context.Context, fileID string) error
}

// WorkflowRepository persists workflows.
type WorkflowRepository interface {
	Create(ctx context.Context, workflow *entities.Workflow) (*entities.Workflow, error)
	Get(ctx context.Context, workflowID string) (*entities.Workflow, error)
	ListByPackageID(ctx context.Context, packageID string) ([]*entities.Workflow, error)
	Update(ctx context.Context, workflowID string, changes entities.WorkflowChanges) (*entities.Workflow, error)
	Delete(ctx context.Context, workflowID string) error
}

// DocumentRepository persists document records keyed by (fileId, documentId).
type DocumentRepository interface {
	Create(ctx context.Context, fileID string, doc entities.NewDocument) (*entities.Document, error)

	// Get returns soft-deleted documents too; callers decide how to treat them.
	Get(ctx context.Context, fileID, documentID string) (*entities.Document, error)

	// ListByFileID returns the non-deleted documents of a file number.
	ListByFileID(ctx context.Context, fileID string) ([]*entities.Document, error)

	// FindByFileName returns the first non-deleted document with that name, or nil.
	FindByFileName(ctx context.Context, fileID, fileName string) (*entities.Document, error)

	Update(ctx context.Context, fileID, documentID string, changes entities.DocumentChanges) (*entities.Document, error)
	SoftDelete(ctx context.Context, fileID, documentID, deletedBy string) (*entities.Document, error)
}
