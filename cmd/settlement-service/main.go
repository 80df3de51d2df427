package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-settlement/internal/api/handlers"
	"auction-settlement/internal/config"
	"auction-settlement/internal/domain"
	"auction-settlement/internal/infrastructure/leader"
	"auction-settlement/internal/infrastructure/memory"
	"auction-settlement/internal/infrastructure/mysql"
	natsevents "auction-settlement/internal/infrastructure/nats"
	"auction-settlement/internal/infrastructure/redis"
	"auction-settlement/internal/infrastructure/websocket"
	"auction-settlement/internal/services"
	"auction-settlement/pkg/logger"
	"auction-settlement/pkg/utils"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const stateCacheTTL = 24 * time.Hour

type storage struct {
	auctions domain.AuctionStore
	orders   domain.OrderReader
	db       *sql.DB
}

func openStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Warn("Using in-memory auction store, data is lost on restart")
		store := memory.NewAuctionStore()
		return &storage{auctions: store, orders: store}, nil
	case config.StorageDriverMySQL:
		db, err := utils.InitializeMysql(ctx, cfg.MySQL)
		if err != nil {
			return nil, err
		}
		if err := mysql.InitSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Connected to MySQL")
		return &storage{
			auctions: mysql.NewMySQLAuctionRepository(db),
			orders:   mysql.NewMySQLOrderRepository(db),
			db:       db,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// openEventPublisher returns nil for the "none" driver; the engine then skips
// event fan-out. The returned close func is never nil.
func openEventPublisher(cfg *config.Config, rdb *redisClient.Client, log logger.Logger) (domain.SettlementEventPublisher, func(), error) {
	switch cfg.Events.Driver {
	case config.EventsDriverRedis:
		return redis.NewEventPublisher(rdb, cfg.Events.Channel), func() {}, nil
	case config.EventsDriverNATS:
		conn, err := natsevents.Connect(cfg.NATS.URL, cfg.Instance.ID)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Connected to NATS", "url", cfg.NATS.URL)
		return natsevents.NewSettlementPublisher(conn, cfg.NATS.SubjectPrefix), func() {
			if err := conn.Drain(); err != nil {
				log.Error("Failed to drain NATS connection", "error", err)
			}
		}, nil
	case config.EventsDriverNone:
		return nil, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown events driver %q", cfg.Events.Driver)
	}
}

// openUserNotifier returns the winner notifier. The local notifier writes to
// sockets held by this process, so it also returns the connection manager the
// admin server mounts /ws/notifications on; for redis it returns nil.
func openUserNotifier(cfg *config.Config, rdb *redisClient.Client, log logger.Logger) (domain.UserNotifier, *websocket.ConnectionManager) {
	if cfg.Events.Notifier == config.NotifierLocal {
		log.Info("Delivering winner notifications to local WebSocket sessions")
		connManager := websocket.NewConnectionManager(log)
		return websocket.NewWebSocketNotifier(connManager), connManager
	}
	return redis.NewUserNotificationPublisher(rdb, cfg.Events.NotificationChannel), nil
}

func main() {
	bootLog := logger.New()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.NewWithConfig(cfg.Log.Level)
	log.Info("Starting settlement service", "config", cfg.GetConfigString())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	if store.db != nil {
		defer store.db.Close()
	}

	eventPublisher, closeEvents, err := openEventPublisher(cfg, rdb, log)
	if err != nil {
		log.Error("Failed to initialize event publisher", "driver", cfg.Events.Driver, "error", err)
		os.Exit(1)
	}
	defer closeEvents()

	stateCache := redis.NewRedisStateCache(rdb, stateCacheTTL)
	userNotifier, connManager := openUserNotifier(cfg, rdb, log)

	engine := services.NewSettlementEngine(
		store.auctions,
		stateCache,
		eventPublisher,
		userNotifier,
		services.SettlementTimeouts{
			Commit: cfg.Settlement.CommitTimeout,
			Notify: cfg.Settlement.NotifyTimeout,
		},
		log,
	)

	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()

	// Leader election is optional for single-instance deployments.
	var leaderElection *leader.RedisLeaderElection
	var jobLeader domain.LeaderElection
	if cfg.Leader.Enabled {
		leaderElection = leader.NewRedisLeaderElection(rdb, cfg.Leader.Key, cfg.Leader.TTL, log)
		jobLeader = leaderElection
		if _, err := leaderElection.BecomeLeader(ctx, cfg.Instance.ID); err != nil {
			log.Warn("Initial leadership attempt failed", "error", err)
		}
		go leaderElection.Campaign(runCtx, cfg.Instance.ID, cfg.Leader.Retry)
	}

	job := services.NewSettlementJob(engine, jobLeader, cfg.Instance.ID, domain.SystemClock{},
		cfg.Settlement.PassTimeout, log)
	scheduler := services.NewCronSettlementScheduler(job, cfg.Settlement.CronSpec(), cfg.Settlement.RunOnStart, log)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			log.Debug("Request received",
				"method", req.Method,
				"path", req.URL.Path,
				"remote_addr", c.RealIP(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			return next(c)
		}
	})

	handlers.NewSettlementHandler(job, store.auctions, store.orders, log).RegisterRoutes(e)
	if connManager != nil {
		wsHandler := websocket.NewWebSocketHandler(connManager, log)
		e.GET("/ws/notifications", echo.WrapHandler(http.HandlerFunc(wsHandler.HandleConnection)))
	}

	if err := scheduler.Start(runCtx); err != nil {
		log.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Info("Starting settlement admin server", "address", serverAddr)
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down settlement service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := scheduler.Stop(); err != nil {
		log.Error("Failed to stop scheduler", "error", err)
	}
	stopRun()

	if leaderElection != nil {
		if err := leaderElection.ReleaseLeadership(shutdownCtx, cfg.Instance.ID); err != nil {
			log.Error("Failed to release leadership", "error", err)
		}
	}

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if connManager != nil {
		connManager.CloseAll()
	}

	log.Info("Settlement service stopped")
}
