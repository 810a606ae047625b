package cmd

import (
	"context"
	"fmt"
	"time"

	"clubledger/api"
	"clubledger/application"
	"clubledger/config"
	"clubledger/database"
	"clubledger/domain/interfaces"
	"clubledger/domain/services"
	"clubledger/events"
	"clubledger/infrastructure"
	"clubledger/metrics"
	"clubledger/repository"

	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

const (
	sinkAttempts   = 3
	sinkRetryDelay = 250 * time.Millisecond
)

// SetupLogging configures the global logger from config
func SetupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// EngineConfig maps the environment settings onto the engine
func EngineConfig(cfg *config.Config) application.Config {
	return application.Config{
		StartingBalance: cfg.StartingBalance,
		FirstPlacePrize: cfg.FirstPlacePrize,
		Drawing: services.DrawingConfig{
			TicketPrice:      cfg.TicketPrice,
			PoolSharePercent: cfg.PoolSharePercent,
			BasePool:         cfg.BasePool,
			RolloverPercent:  cfg.RolloverPercent,
			DrawHour:         cfg.DrawHour,
			Location:         cfg.Location,
		},
	}
}

// deliverWithRetry runs attempt until it succeeds, retrying a few times on the
// sink's own goroutine so later mutations stay behind it
func deliverWithRetry(ctx context.Context, name string, eventType events.EventType, attempt func(ctx context.Context) error) {
	var err error
retry:
	for n := 1; ; n++ {
		if err = attempt(ctx); err == nil {
			return
		}
		if n == sinkAttempts {
			break
		}
		select {
		case <-ctx.Done():
			break retry
		case <-time.After(sinkRetryDelay * time.Duration(n)):
		}
	}

	metrics.RecordSinkFailure(name)
	log.WithFields(log.Fields{
		"sink":      name,
		"eventType": eventType,
		"error":     err,
	}).Error("Failed to apply mutation")
}

// mutationHandler adapts a sink to the bus
func mutationHandler(name string, sink interfaces.MutationSink) events.Handler {
	return func(ctx context.Context, event events.Event) {
		deliverWithRetry(ctx, name, event.Type(), func(ctx context.Context) error {
			return sink.OnMutation(ctx, event)
		})
	}
}

// replicationHandler wraps each event once so retries republish the same
// id and sequence number
func replicationHandler(name string, replicator *infrastructure.MutationReplicator) events.Handler {
	return func(ctx context.Context, event events.Event) {
		envelope := replicator.Envelope(event)
		deliverWithRetry(ctx, name, event.Type(), func(ctx context.Context) error {
			return replicator.Send(ctx, envelope)
		})
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	SetupLogging(cfg)
	log.WithField("environment", cfg.Environment).Info("Starting club ledger...")

	clock := clockwork.NewRealClock()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()
	store := repository.NewStore(db)
	eventBus.Subscribe("store", mutationHandler("store", store))

	var natsClient *infrastructure.NATSClient
	if cfg.ReplicationEnabled() {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return err
		}
		defer natsClient.Close()
		if err := natsClient.EnsureMutationStream(); err != nil {
			return err
		}
		replicator := infrastructure.NewMutationReplicator(natsClient, clock)
		eventBus.Subscribe("nats-replica", replicationHandler("nats-replica", replicator))
	} else {
		log.Info("NATS_SERVERS not set, mutation replication disabled")
	}

	identity := services.NewIdentityService(repository.NewCredentialRepository(db), cfg.AdminEmail, clock)
	club := application.NewClub(EngineConfig(cfg), store, identity, eventBus, clock, services.NewCryptoRandom())

	if cfg.AnnouncementsEnabled() {
		session, err := discordgo.New("Bot " + cfg.DiscordToken)
		if err != nil {
			return fmt.Errorf("failed to create Discord session: %w", err)
		}
		names := func(memberID string) (string, bool) {
			member, err := club.Member(memberID)
			if err != nil {
				return "", false
			}
			return member.Name, true
		}
		announcer := infrastructure.NewDiscordAnnouncer(session, cfg.DiscordChannelID, names)
		eventBus.Subscribe("discord", mutationHandler("discord", announcer), infrastructure.AnnouncedEvents()...)
		log.WithField("channelID", cfg.DiscordChannelID).Info("Discord announcements enabled")
	}

	if err := club.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize club: %w", err)
	}

	sessions := api.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL, clock)
	server := api.NewServer(club, sessions)
	serveErr := server.ListenAndServe(ctx, cfg.HTTPAddr)

	log.Info("Shutting down club ledger...")
	club.Teardown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := eventBus.Close(shutdownCtx); err != nil {
		log.WithError(err).Warn("Event bus did not drain before shutdown timeout")
	}

	if serveErr != nil {
		return fmt.Errorf("http server failed: %w", serveErr)
	}
	log.Info("Shutdown completed")
	return nil
}
