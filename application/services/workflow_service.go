package services

import (
	"context"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
	"legal-dashboard/pkg/errors"
	"legal-dashboard/pkg/utils"

	"go.uber.org/zap"
)

// CreateWorkflowCommand is the input for WorkflowService.Create.
type CreateWorkflowCommand struct {
	PackageID   string                  `json:"packageId" validate:"required"`
	Name        string                  `json:"name" validate:"required"`
	Description *string                 `json:"description"`
	Status      string                  `json:"status"`
	Steps       []entities.WorkflowStep `json:"steps"`
	CurrentStep int                     `json:"currentStep" validate:"min=0"`
}

// WorkflowService manages package workflows.
type WorkflowService struct {
	workflows ports.WorkflowRepository
	logger    *zap.Logger
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(workflows ports.WorkflowRepository, logger *zap.Logger) *WorkflowService {
	return &WorkflowService{workflows: workflows, logger: logger}
}

func (s *WorkflowService) Create(ctx context.Context, cmd CreateWorkflowCommand) (*entities.Workflow, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, errors.NewValidationError("PackageId and name are required")
	}

	wf := &entities.Workflow{
		PackageID:   cmd.PackageID,
		Name:        cmd.Name,
		Description: nonEmpty(cmd.Description),
		Status:      cmd.Status,
		Steps:       cmd.Steps,
		CurrentStep: cmd.CurrentStep,
	}
	if wf.Status == "" {
		wf.Status = entities.WorkflowStatusDraft
	}
	if wf.Steps == nil {
		wf.Steps = []entities.WorkflowStep{}
	}

	created, err := s.workflows.Create(ctx, wf)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Workflow created", zap.String("workflowId", created.WorkflowID), zap.String("packageId", created.PackageID))
	return created, nil
}

func (s *WorkflowService) ListByPackage(ctx context.Context, packageID string) ([]*entities.Workflow, error) {
	return s.workflows.ListByPackageID(ctx, packageID)
}

func (s *WorkflowService) Get(ctx context.Context, workflowID string) (*entities.Workflow, error) {
	return s.workflows.Get(ctx, workflowID)
}

func (s *WorkflowService) Update(ctx context.Context, workflowID string, changes entities.WorkflowChanges) (*entities.Workflow, error) {
	return s.workflows.Update(ctx, workflowID, changes)
}

func (s *WorkflowService) Delete(ctx context.Context, workflowID string) error {
	return s.workflows.Delete(ctx, workflowID)
}
