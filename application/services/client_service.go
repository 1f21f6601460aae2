package services

import (
	"context"
	"time"

	"legal-dashboard/application/ports"
	"legal-dashboard/domain/entities"
	"legal-dashboard/domain/events"
	"legal-dashboard/pkg/errors"
	"legal-dashboard/pkg/utils"

	"go.uber.org/zap"
)

// CreateClientCommand is the input for ClientService.Create.
type CreateClientCommand struct {
	UserID  string
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Status  string  `json:"status"`
}

// ClientService manages the clients owned by the authenticated user.
type ClientService struct {
	clients   ports.ClientRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(clients ports.ClientRepository, publisher ports.EventPublisher, logger *zap.Logger) *ClientService {
	return &ClientService{
		clients:   clients,
		publisher: publisher,
		logger:    logger,
	}
}

// Create registers a client owned by cmd.UserID.
func (s *ClientService) Create(ctx context.Context, cmd CreateClientCommand) (*entities.Client, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, errors.NewValidationError("Name and email are required")
	}

	status := cmd.Status
	if status == "" {
		status = entities.ClientStatusActive
	}

	client, err := s.clients.Create(ctx, &entities.Client{
		UserID:  cmd.UserID,
		Name:    cmd.Name,
		Email:   cmd.Email,
		Phone:   cmd.Phone,
		Address: cmd.Address,
		Status:  status,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Client created",
		zap.String("clientId", client.ClientID),
		zap.String("userId", client.UserID),
	)
	publishEvent(ctx, s.publisher, s.logger, events.NewClientCreated(client.ClientID, client.UserID, client.Name, time.Now()))

	return client, nil
}

// List returns the clients owned by userID.
func (s *ClientService) List(ctx context.Context, userID string) ([]*entities.Client, error) {
	return s.clients.ListByUserID(ctx, userID)
}

func (s *ClientService) Get(ctx context.Context, clientID string) (*entities.Client, error) {
	return s.clients.Get(ctx, clientID)
}

func (s *ClientService) Update(ctx context.Context, clientID string, changes entities.ClientChanges) (*entities.Client, error) {
	return s.clients.Update(ctx, clientID, changes)
}

func (s *ClientService) Delete(ctx context.Context, clientID string) error {
	return s.clients.Delete(ctx, clientID)
}
