package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-manager/external/jobqueue"
	"github.com/riskibarqy/squad-manager/external/pushgateway"
	"github.com/riskibarqy/squad-manager/external/teambuilder"
	"github.com/riskibarqy/squad-manager/internal/config"
	"github.com/riskibarqy/squad-manager/internal/domain/availability"
	"github.com/riskibarqy/squad-manager/internal/domain/event"
	"github.com/riskibarqy/squad-manager/internal/domain/invitation"
	"github.com/riskibarqy/squad-manager/internal/domain/lineup"
	"github.com/riskibarqy/squad-manager/internal/domain/notification"
	"github.com/riskibarqy/squad-manager/internal/domain/roster"
	cacherepo "github.com/riskibarqy/squad-manager/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/squad-manager/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squad-manager/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/squad-manager/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/squad-manager/internal/platform/cache"
	"github.com/riskibarqy/squad-manager/internal/platform/id"
	"github.com/riskibarqy/squad-manager/internal/platform/logging"
	"github.com/riskibarqy/squad-manager/internal/scheduler"
	"github.com/riskibarqy/squad-manager/internal/usecase"
)

// App owns the HTTP server, the in-process scheduler and the database handle.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler

	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	events       event.Repository
	rosters      roster.Repository
	invitations  invitation.Repository
	availability availability.Repository
	selections   lineup.SelectionRepository
	scheduled    notification.ScheduledRepository
	logs         notification.LogRepository
	profiles     notification.ProfileRepository
	tokens       deepLinkTokens
}

type deepLinkTokens interface {
	usecase.DeepLinkTokenIssuer
	usecase.DeepLinkRedeemer
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger.Named("app")}

	repos, err := a.buildRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := a.wire(cfg, repos, logger); err != nil {
		_ = a.closeDB()
		return nil, err
	}
	return a, nil
}

// wire builds services, scheduler and HTTP server on top of repos.
func (a *App) wire(cfg config.Config, repos repositories, logger *logging.Logger) error {
	// Policy detection recomputes from live rosters; only lineup building reads through the cache.
	cachedRosters := cacherepo.NewRosterRepository(
		repos.rosters,
		basecache.NewStore[[]roster.Player](cfg.RosterCacheTTL),
		basecache.NewStore[[]roster.Staff](cfg.RosterCacheTTL),
	)

	pushClient := pushgateway.NewClient(pushgateway.ClientConfig{
		URL:            cfg.PushGatewayURL,
		ServerKey:      cfg.PushServerKey,
		Timeout:        cfg.PushTimeout,
		CircuitBreaker: cfg.PushCircuit,
		Logger:         logger,
	})
	if !pushClient.HasCredentials() {
		a.logger.Warn("push server key is not configured, sends will fail with a configuration error")
	}

	var suggester usecase.SuggestionClient
	if cfg.TeamBuilderURL != "" {
		suggester = teambuilder.NewClient(teambuilder.ClientConfig{
			URL:            cfg.TeamBuilderURL,
			Token:          cfg.TeamBuilderToken,
			Timeout:        cfg.TeamBuilderTimeout,
			CircuitBreaker: cfg.TeamBuilderCircuit,
			Logger:         logger,
		})
	}

	teamBuilder := usecase.NewTeamBuilderService(repos.events, cachedRosters, repos.selections, suggester, nil, logger)
	invitations := usecase.NewInvitationService(repos.events, repos.rosters, repos.invitations, repos.availability, repos.tokens, logger)
	notifications := usecase.NewNotificationService(
		repos.scheduled,
		repos.logs,
		repos.profiles,
		repos.events,
		repos.availability,
		pushClient,
		repos.tokens,
		id.NewUUIDGenerator(),
		usecase.NotificationConfig{
			SendWorkers:   cfg.PushSendWorkers,
			DispatchBatch: cfg.DispatchBatchSize,
			Location:      cfg.SchedulerLocation,
		},
		logger,
	)

	if cfg.QStashEnabled {
		publisher, err := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker:   cfg.QStashCircuit,
		}, logger)
		if err != nil {
			return fmt.Errorf("build qstash publisher: %w", err)
		}
		notifications.SetJobQueue(publisher)
	}

	if cfg.SchedulerEnabled {
		var err error
		a.Scheduler, err = scheduler.New(scheduler.Config{
			DispatchCron:    cfg.DispatchCron,
			WeeklyNudgeCron: cfg.WeeklyNudgeCron,
			Location:        cfg.SchedulerLocation,
			JobTimeout:      cfg.JobTimeout,
		}, notifications, notifications, logger)
		if err != nil {
			return fmt.Errorf("build scheduler: %w", err)
		}
	}

	handler := httpapi.NewHandler(teamBuilder, invitations, notifications, logger)
	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return nil
}

func (a *App) buildRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	if !cfg.UsesDatabase() {
		a.logger.Warn("DB_URL is empty, using in-memory stores with demo data")
		return memoryRepositories(time.Now().UTC()), nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	a.db = db
	a.logger.Info("database connected", "db_name", cfg.DatabaseName())

	return repositories{
		events:       postgres.NewEventRepository(db),
		rosters:      postgres.NewRosterRepository(db),
		invitations:  postgres.NewInvitationRepository(db),
		availability: postgres.NewAvailabilityRepository(db),
		selections:   postgres.NewSelectionRepository(db),
		scheduled:    postgres.NewScheduledNotificationRepository(db),
		logs:         postgres.NewNotificationLogRepository(db),
		profiles:     postgres.NewProfileRepository(db),
		tokens:       postgres.NewDeepLinkTokenIssuer(db),
	}, nil
}

func memoryRepositories(now time.Time) repositories {
	return repositories{
		events:       memory.NewEventRepository(memory.SeedEvents(now)),
		rosters:      memory.NewRosterRepository(memory.SeedPlayers(), memory.SeedStaff()),
		invitations:  memory.NewInvitationRepository(),
		availability: memory.NewAvailabilityRepository(memory.SeedAvailability()),
		selections:   memory.NewSelectionRepository(),
		scheduled:    memory.NewScheduledNotificationRepository(),
		logs:         memory.NewNotificationLogRepository(),
		profiles:     memory.NewProfileRepository(memory.SeedProfiles()),
		tokens:       memory.NewTokenIssuer(),
	}
}

// Start launches the scheduler. The HTTP server is started by the caller.
func (a *App) Start() {
	if a.Scheduler != nil {
		a.Scheduler.Start()
	}
}

// Close stops the HTTP server, then the scheduler, then the database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if a.Scheduler != nil {
		if err := a.Scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown scheduler: %w", err))
		}
	}
	if err := a.closeDB(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeDB() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
