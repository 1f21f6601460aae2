// Package cognito manages user-pool accounts for administrators.
package cognito

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.uber.org/zap"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
	"legal-dashboard/pkg/errors"
	"legal-dashboard/pkg/utils"
)

// CognitoAPI is the subset of the user-pool admin API the directory uses
type CognitoAPI interface {
	ListUsers(ctx context.Context, params *cognitoidentityprovider.ListUsersInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListUsersOutput, error)
	AdminListGroupsForUser(ctx context.Context, params *cognitoidentityprovider.AdminListGroupsForUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminListGroupsForUserOutput, error)
	AdminAddUserToGroup(ctx context.Context, params *cognitoidentityprovider.AdminAddUserToGroupInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminAddUserToGroupOutput, error)
	AdminRemoveUserFromGroup(ctx context.Context, params *cognitoidentityprovider.AdminRemoveUserFromGroupInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminRemoveUserFromGroupOutput, error)
	AdminDeleteUser(ctx context.Context, params *cognitoidentityprovider.AdminDeleteUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error)
}

var _ CognitoAPI = (*cognitoidentityprovider.Client)(nil)

// Directory implements ports.UserDirectory over a Cognito user pool.
// Callers address users by their sub; the admin API wants the username, so
// every mutation resolves one to the other first.
type Directory struct {
	client     CognitoAPI
	userPoolID string
	logger     *zap.Logger
}

var _ ports.UserDirectory = (*Directory)(nil)

func NewDirectory(client CognitoAPI, userPoolID string, logger *zap.Logger) *Directory {
	return &Directory{
		client:     client,
		userPoolID: userPoolID,
		logger:     logger,
	}
}

// ListUsers returns every account in the pool with its group memberships
func (d *Directory) ListUsers(ctx context.Context) ([]*entities.DirectoryUser, error) {
	if err := d.checkConfigured(); err != nil {
		return nil, err
	}

	users := []*entities.DirectoryUser{}
	input := &cognitoidentityprovider.ListUsersInput{UserPoolId: aws.String(d.userPoolID)}
	for {
		out, err := d.client.ListUsers(ctx, input)
		if err != nil {
			return nil, errors.NewExternalError("cognito", err)
		}
		for _, u := range out.Users {
			user := toDirectoryUser(u)
			groups, err := d.groupsFor(ctx, aws.ToString(u.Username))
			if err != nil {
				return nil, err
			}
			user.ApplyGroups(groups)
			users = append(users, user)
		}
		if aws.ToString(out.PaginationToken) == "" {
			break
		}
		input.PaginationToken = out.PaginationToken
	}
	return users, nil
}

func (d *Directory) AddUserToGroup(ctx context.Context, userID, group string) error {
	username, err := d.resolveUsername(ctx, userID)
	if err != nil {
		return err
	}
	_, err = d.client.AdminAddUserToGroup(ctx, &cognitoidentityprovider.AdminAddUserToGroupInput{
		UserPoolId: aws.String(d.userPoolID),
		Username:   aws.String(username),
		GroupName:  aws.String(group),
	})
	return d.translate(err)
}

func (d *Directory) RemoveUserFromGroup(ctx context.Context, userID, group string) error {
	username, err := d.resolveUsername(ctx, userID)
	if err != nil {
		return err
	}
	_, err = d.client.AdminRemoveUserFromGroup(ctx, &cognitoidentityprovider.AdminRemoveUserFromGroupInput{
		UserPoolId: aws.String(d.userPoolID),
		Username:   aws.String(username),
		GroupName:  aws.String(group),
	})
	return d.translate(err)
}

func (d *Directory) DeleteUser(ctx context.Context, userID string) error {
	username, err := d.resolveUsername(ctx, userID)
	if err != nil {
		return err
	}
	_, err = d.client.AdminDeleteUser(ctx, &cognitoidentityprovider.AdminDeleteUserInput{
		UserPoolId: aws.String(d.userPoolID),
		Username:   aws.String(username),
	})
	return d.translate(err)
}

func (d *Directory) checkConfigured() error {
	if d.userPoolID == "" {
		return errors.NewUnavailableError("User management is not configured (COGNITO_USER_POOL_ID)")
	}
	return nil
}

func (d *Directory) groupsFor(ctx context.Context, username string) ([]string, error) {
	groups := []string{}
	input := &cognitoidentityprovider.AdminListGroupsForUserInput{
		UserPoolId: aws.String(d.userPoolID),
		Username:   aws.String(username),
	}
	for {
		out, err := d.client.AdminListGroupsForUser(ctx, input)
		if err != nil {
			return nil, d.translate(err)
		}
		for _, g := range out.Groups {
			groups = append(groups, aws.ToString(g.GroupName))
		}
		if aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}
	return groups, nil
}

// resolveUsername finds the pool username whose sub is userID
func (d *Directory) resolveUsername(ctx context.Context, userID string) (string, error) {
	if err := d.checkConfigured(); err != nil {
		return "", err
	}
	if userID == "" || strings.ContainsAny(userID, `"\`) {
		return "", errors.NewNotFoundError("User")
	}

	out, err := d.client.ListUsers(ctx, &cognitoidentityprovider.ListUsersInput{
		UserPoolId: aws.String(d.userPoolID),
		Filter:     aws.String(fmt.Sprintf("sub = %q", userID)),
		Limit:      aws.Int32(1),
	})
	if err != nil {
		return "", errors.NewExternalError("cognito", err)
	}
	if len(out.Users) == 0 {
		d.logger.Debug("No user with sub", zap.String("userId", userID))
		return "", errors.NewNotFoundError("User")
	}
	return aws.ToString(out.Users[0].Username), nil
}

func (d *Directory) translate(err error) error {
	if err == nil {
		return nil
	}
	var notFound *types.UserNotFoundException
	if stderrors.As(err, &notFound) {
		return errors.NewNotFoundError("User")
	}
	var groupMissing *types.ResourceNotFoundException
	if stderrors.As(err, &groupMissing) {
		return errors.NewValidationError("Invalid group name").WithCause(err)
	}
	return errors.NewExternalError("cognito", err)
}

func toDirectoryUser(u types.UserType) *entities.DirectoryUser {
	user := &entities.DirectoryUser{
		Username: aws.ToString(u.Username),
		Status:   string(u.UserStatus),
		Enabled:  u.Enabled,
	}
	if u.UserCreateDate != nil {
		user.CreatedAt = utils.FormatTimestamp(*u.UserCreateDate)
	}

	var preferred string
	for _, attr := range u.Attributes {
		value := aws.ToString(attr.Value)
		switch aws.ToString(attr.Name) {
		case "sub":
			user.UserID = value
		case "email":
			user.Email = value
		case "name":
			user.Name = value
		case "preferred_username":
			preferred = value
		}
	}
	if user.Name == "" {
		user.Name = preferred
	}
	if user.UserID == "" {
		user.UserID = user.Username
	}
	return user
}
