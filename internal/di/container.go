package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mekong-creative/api/internal/i18n"
	"github.com/mekong-creative/api/internal/platform/auth"
	"github.com/mekong-creative/api/internal/platform/config"
	"github.com/mekong-creative/api/internal/platform/restdb"
	"github.com/mekong-creative/api/internal/publish"
	"github.com/mekong-creative/api/internal/relay"
	"github.com/mekong-creative/api/internal/repositories"
	restdbRepo "github.com/mekong-creative/api/internal/repositories/restdb"
	"github.com/mekong-creative/api/internal/repositories/static"
	"github.com/mekong-creative/api/internal/services"
)

// Services bundles the service-layer contracts that handlers rely upon.
type Services struct {
	Catalog  services.CatalogService
	Content  services.ContentService
	Contact  services.ContactService
	Publish  services.PublishService
	Settings services.SettingsService
	System   services.SystemService
}

// Auth bundles the editor authentication collaborators.
type Auth struct {
	PINs     *auth.PINVerifier
	Sessions *auth.SessionIssuer
}

// Container wires repositories, services, and supporting infrastructure for runtime use.
type Container struct {
	Config       config.Config
	Store        *restdb.Client
	Repositories repositories.Registry
	Defaults     *static.Defaults
	Locales      *i18n.Selector
	Services     Services
	Auth         Auth
}

// NewContainer constructs the runtime dependencies from configuration. The
// remote store client may be unconfigured; the site then serves bundled
// content only until credentials arrive through the settings surface.
func NewContainer(cfg config.Config, logger *zap.Logger, build services.BuildInfo) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := restdb.NewClient(restdb.Credentials{
		EndpointURL: cfg.RemoteStore.EndpointURL,
		APIKey:      cfg.RemoteStore.APIKey,
	}, restdb.WithTimeout(cfg.RemoteStore.Timeout))

	registry, err := restdbRepo.NewRegistry(store)
	if err != nil {
		return nil, fmt.Errorf("build repository registry: %w", err)
	}

	defaults, err := static.Load()
	if err != nil {
		return nil, fmt.Errorf("load bundled content: %w", err)
	}

	selector, err := i18n.NewSelector(cfg.Locale.Default, cfg.Locale.Supported)
	if err != nil {
		return nil, fmt.Errorf("build locale selector: %w", err)
	}

	catalogSvc, err := services.NewCatalogService(services.CatalogServiceDeps{
		Defaults: defaults,
		Team:     registry.Team(),
		Projects: registry.Projects(),
		Insights: registry.Insights(),
		Services: registry.Services(),
		Reviews:  registry.Reviews(),
		Comments: registry.Comments(),
		Logger:   logger.Named("catalog"),
	})
	if err != nil {
		return nil, fmt.Errorf("build catalog service: %w", err)
	}

	contentSvc, err := services.NewContentService(services.ContentServiceDeps{
		Team:     registry.Team(),
		Projects: registry.Projects(),
		Insights: registry.Insights(),
		Services: registry.Services(),
		Reviews:  registry.Reviews(),
		Comments: registry.Comments(),
		Catalog:  catalogSvc,
		Logger:   logger.Named("content"),
		Clock:    time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("build content service: %w", err)
	}

	messageRelay := relay.NewTelegramRelay(relay.Config{
		BotToken: cfg.Relay.BotToken,
		ChatID:   cfg.Relay.ChatID,
	}, relay.WithBaseURL(cfg.Relay.Endpoint))

	contactSvc, err := services.NewContactService(services.ContactServiceDeps{
		Relay:  messageRelay,
		Logger: logger.Named("contact"),
		Clock:  time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("build contact service: %w", err)
	}

	committer := publish.NewGitHubCommitter(publish.Config{
		Owner:  cfg.Publish.Owner,
		Repo:   cfg.Publish.Repo,
		Branch: cfg.Publish.Branch,
		Token:  cfg.Publish.Token,
	})

	publishSvc, err := services.NewPublishService(services.PublishServiceDeps{
		Committer: committer,
		Catalog:   catalogSvc,
		Path:      cfg.Publish.Path,
		Logger:    logger.Named("publish"),
		Clock:     time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("build publish service: %w", err)
	}

	settingsSvc, err := services.NewSettingsService(services.SettingsServiceDeps{
		Store:     store,
		Catalog:   catalogSvc,
		Publisher: committer,
		Relay:     messageRelay,
		Logger:    logger.Named("settings"),
	})
	if err != nil {
		return nil, fmt.Errorf("build settings service: %w", err)
	}

	systemSvc, err := services.NewSystemService(services.SystemServiceDeps{
		HealthRepository: registry.Health(),
		Clock:            time.Now,
		Build:            build,
	})
	if err != nil {
		return nil, fmt.Errorf("build system service: %w", err)
	}

	container := &Container{
		Config:       cfg,
		Store:        store,
		Repositories: registry,
		Defaults:     defaults,
		Locales:      selector,
		Services: Services{
			Catalog:  catalogSvc,
			Content:  contentSvc,
			Contact:  contactSvc,
			Publish:  publishSvc,
			Settings: settingsSvc,
			System:   systemSvc,
		},
		Auth: Auth{
			PINs: auth.NewPINVerifier(cfg.Admin.PINs),
		},
	}

	if cfg.Admin.SessionSecret != "" {
		sessions, err := auth.NewSessionIssuer(cfg.Admin.SessionSecret, auth.WithSessionTTL(cfg.Admin.SessionTTL))
		if err != nil {
			return nil, fmt.Errorf("build session issuer: %w", err)
		}
		container.Auth.Sessions = sessions
	}

	return container, nil
}
