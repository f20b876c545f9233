package daemon

import (
	"context"
	"fmt"

	"github.com/matheus3301/chatkit/internal/api"
	"github.com/matheus3301/chatkit/internal/bus"
	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/checkpoint"
	"github.com/matheus3301/chatkit/internal/config"
	"github.com/matheus3301/chatkit/internal/lock"
	"github.com/matheus3301/chatkit/internal/logging"
	"github.com/matheus3301/chatkit/internal/session"
	"github.com/matheus3301/chatkit/internal/status"
	"github.com/matheus3301/chatkit/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName string
	SocketPath  string         // optional override for testing; empty = use default
	Config      *config.Config // optional; nil = load ~/.chatkit/config.toml
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			provideChatStore,
			provideCheckpointWorker,
			provideChatService,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	if p.Config != nil {
		return p.Config, nil
	}
	return config.LoadOrDefault(session.ConfigPath())
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	return logging.New(session.LogPath(p.SessionName), p.SessionName, cfg.LogLevel)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	logger.Info("acquiring session lock", zap.String("session", p.SessionName))
	l, err := lock.Acquire(session.Dir(p.SessionName))
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired")
	return l, nil
}

// provideStore depends on the lock so the database is only opened by the
// process that owns the session.
func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := session.DBPath(p.SessionName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideChatStore(cfg *config.Config, db *store.DB, machine *status.Machine, b *bus.Bus, logger *zap.Logger) (*chat.Store, error) {
	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("config locale %q: %w", cfg.Locale, err)
	}
	if err := machine.Transition(status.Restoring); err != nil {
		return nil, err
	}
	s, err := chat.Open(context.Background(), db.Persister(),
		chat.WithIdentity(cfg.Identity.ID, cfg.Identity.Name),
		chat.WithYesterdayLabel(cfg.YesterdayLabel),
		chat.WithLocale(locale),
		chat.WithBus(b),
		chat.WithLogger(logger.Named("chat")),
	)
	if err != nil {
		_ = machine.Transition(status.Error)
		return nil, fmt.Errorf("restore chat state: %w", err)
	}
	convs, msgs := s.Stats()
	logger.Info("chat state restored", zap.Int("conversations", convs), zap.Int("messages", msgs))
	return s, nil
}

func provideCheckpointWorker(cfg *config.Config, s *chat.Store, db *store.DB, b *bus.Bus, logger *zap.Logger) *checkpoint.Worker {
	return checkpoint.New(s, db.Persister(), b, cfg.CheckpointInterval.Duration, logger.Named("checkpoint"))
}

func provideChatService(p Params, s *chat.Store, db *store.DB, w *checkpoint.Worker, m *status.Machine, b *bus.Bus, logger *zap.Logger) *api.ChatService {
	return api.NewChatService(api.Deps{
		SessionName: p.SessionName,
		Store:       s,
		DB:          db,
		Worker:      w,
		Machine:     m,
		Bus:         b,
		Logger:      logger.Named("api"),
	})
}

func registerLifecycle(lc fx.Lifecycle, cfg *config.Config, srv *Server, lk *lock.Lock, db *store.DB, chats *chat.Store, worker *checkpoint.Worker, machine *status.Machine, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if cfg.SeedDemo {
				if err := machine.Transition(status.Seeding); err != nil {
					return err
				}
				if chats.EnsureSeeded() {
					logger.Info("demo data seeded")
				}
			}

			worker.Start(context.Background())

			// Start gRPC server in background.
			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("gRPC server error", zap.Error(err))
					_ = machine.Transition(status.Error)
				}
			}()

			return machine.Transition(status.Ready)
		},
		OnStop: func(ctx context.Context) error {
			_ = machine.Transition(status.Stopping)
			srv.Stop(ctx)
			if err := worker.Stop(ctx); err != nil {
				logger.Error("final checkpoint failed", zap.Error(err))
			}
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
