package services

import (
	"context"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
	"legal-dashboard/pkg/errors"

	"go.uber.org/zap"
)

// UserAdminService lets administrators approve, promote and remove accounts.
// New sign-ups belong to no group until an administrator approves them.
type UserAdminService struct {
	directory ports.UserDirectory
	logger    *zap.Logger
}

// NewUserAdminService creates a new user admin service
func NewUserAdminService(directory ports.UserDirectory, logger *zap.Logger) *UserAdminService {
	return &UserAdminService{directory: directory, logger: logger}
}

// ListUsers returns every account with its groups.
func (s *UserAdminService) ListUsers(ctx context.Context) ([]*entities.DirectoryUser, error) {
	users, err := s.directory.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*entities.DirectoryUser{}
	}
	return users, nil
}

// ListPendingUsers returns accounts awaiting approval.
func (s *UserAdminService) ListPendingUsers(ctx context.Context) ([]*entities.DirectoryUser, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]*entities.DirectoryUser, 0, len(users))
	for _, u := range users {
		if !u.Approved {
			pending = append(pending, u)
		}
	}
	return pending, nil
}

// AddToGroup approves a user (group "user") or grants admin rights.
func (s *UserAdminService) AddToGroup(ctx context.Context, userID, group string) error {
	if !entities.IsValidGroup(group) {
		return errors.NewValidationError("Invalid group name")
	}
	if err := s.directory.AddUserToGroup(ctx, userID, group); err != nil {
		return err
	}
	s.logger.Info("User added to group", zap.String("userId", userID), zap.String("group", group))
	return nil
}

// RemoveFromGroup revokes a group membership.
func (s *UserAdminService) RemoveFromGroup(ctx context.Context, userID, group string) error {
	if !entities.IsValidGroup(group) {
		return errors.NewValidationError("Invalid group name")
	}
	if err := s.directory.RemoveUserFromGroup(ctx, userID, group); err != nil {
		return err
	}
	s.logger.Info("User removed from group", zap.String("userId", userID), zap.String("group", group))
	return nil
}

// DeleteUser removes the account from the user pool.
func (s *UserAdminService) DeleteUser(ctx context.Context, userID, actorID string) error {
	if userID == actorID {
		return errors.NewValidationError("Administrators cannot delete their own account")
	}
	if err := s.directory.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("userId", userID), zap.String("deletedBy", actorID))
	return nil
}
