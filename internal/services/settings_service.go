package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mekong-creative/api/internal/platform/observability"
	"github.com/mekong-creative/api/internal/platform/restdb"
	"github.com/mekong-creative/api/internal/publish"
	"github.com/mekong-creative/api/internal/relay"
)

// ErrSettingsInvalidInput indicates validation failures for settings updates.
var ErrSettingsInvalidInput = errors.New("settings: invalid input")

// PublishTarget receives new repository settings at runtime.
type PublishTarget interface {
	SetConfig(cfg publish.Config)
}

// RelayTarget receives new messaging credentials at runtime.
type RelayTarget interface {
	SetConfig(cfg relay.Config)
}

// SettingsServiceDeps bundles collaborators required to construct a SettingsService.
type SettingsServiceDeps struct {
	Store     *restdb.Client
	Catalog   Refresher
	Publisher PublishTarget
	Relay     RelayTarget
	Logger    *zap.Logger
	Validator *validator.Validate
}

type settingsService struct {
	store     *restdb.Client
	catalog   Refresher
	publisher PublishTarget
	relay     RelayTarget
	logger    *zap.Logger
	validate  *validator.Validate
}

var _ SettingsService = (*settingsService)(nil)

// NewSettingsService wires dependencies into a concrete SettingsService implementation.
func NewSettingsService(deps SettingsServiceDeps) (SettingsService, error) {
	if deps.Store == nil {
		return nil, errors.New("settings service: store client is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("settings service: catalog refresher is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := deps.Validator
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return &settingsService{
		store:     deps.Store,
		catalog:   deps.Catalog,
		publisher: deps.Publisher,
		relay:     deps.Relay,
		logger:    logger,
		validate:  validate,
	}, nil
}

// UpdateStoreCredentials swaps the remote store endpoint and key at runtime
// and immediately refetches content against the new target.
func (s *settingsService) UpdateStoreCredentials(ctx context.Context, cmd StoreCredentialsCommand) error {
	if ctx == nil {
		return errors.New("settings service: context is required")
	}
	if err := s.validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsInvalidInput, err)
	}

	s.store.SetCredentials(restdb.Credentials{
		EndpointURL: cmd.EndpointURL,
		APIKey:      cmd.APIKey,
	})
	s.logger.Info("remote store credentials updated",
		zap.String("endpoint", cmd.EndpointURL),
		zap.String("api_key", observability.RedactSecret(cmd.APIKey)),
	)

	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after credential update failed", zap.Error(err))
	}
	return nil
}

// UpdatePublishTarget points future publishes at a different repository.
func (s *settingsService) UpdatePublishTarget(ctx context.Context, cmd PublishTargetCommand) error {
	if ctx == nil {
		return errors.New("settings service: context is required")
	}
	if s.publisher == nil {
		return errors.New("settings service: publish target is not wired")
	}
	if err := s.validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsInvalidInput, err)
	}

	s.publisher.SetConfig(publish.Config{
		Owner:  cmd.Owner,
		Repo:   cmd.Repo,
		Branch: cmd.Branch,
		Token:  cmd.Token,
	})
	s.logger.Info("publish target updated",
		zap.String("owner", cmd.Owner),
		zap.String("repo", cmd.Repo),
		zap.String("token", observability.RedactSecret(cmd.Token)),
	)
	return nil
}

// UpdateRelayCredentials swaps the messaging bot and chat at runtime.
func (s *settingsService) UpdateRelayCredentials(ctx context.Context, cmd RelayCredentialsCommand) error {
	if ctx == nil {
		return errors.New("settings service: context is required")
	}
	if s.relay == nil {
		return errors.New("settings service: relay target is not wired")
	}
	if err := s.validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsInvalidInput, err)
	}

	s.relay.SetConfig(relay.Config{
		BotToken: cmd.BotToken,
		ChatID:   cmd.ChatID,
	})
	s.logger.Info("relay credentials updated",
		zap.String("chat_id", cmd.ChatID),
		zap.String("bot_token", observability.RedactSecret(cmd.BotToken)),
	)
	return nil
}
