// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"fleetops-service/internal/cache"
	"fleetops-service/internal/config"
	"fleetops-service/internal/db"
	bookingHandler "fleetops-service/internal/handlers/booking"
	fleetHandler "fleetops-service/internal/handlers/fleet"
	gpsHandler "fleetops-service/internal/handlers/gps"
	notifyH "fleetops-service/internal/handlers/notification"
	wsHandler "fleetops-service/internal/handlers/websocket"
	"fleetops-service/internal/middleware"
	"fleetops-service/internal/registry"
	"fleetops-service/internal/repository/postgres"
	bookingUsecase "fleetops-service/internal/service/booking"
	fleetUsecase "fleetops-service/internal/service/fleet"
	gpsUsecase "fleetops-service/internal/service/gps"
	notifyUsecase "fleetops-service/internal/service/notification"
	"fleetops-service/internal/websocket"
	wsHandlers "fleetops-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Repositories -----
	vehicleRepo := postgres.NewVehicleRepository(pool)
	driverRepo := postgres.NewDriverRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	notifyRepo := postgres.NewNotificationRepository(pool)

	// ----- Resource Registry -----
	statusStore := registry.NewStore(vehicleRepo, driverRepo)
	resourceRegistry := registry.New(statusStore, logger)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)
	hub.RegisterHandler(wsHandlers.NewNotificationHandler(notifyRepo))
	go hub.Run(context.Background())

	// ----- Position Cache -----
	positionCache := cache.NewPositionCache(redisClient)

	// ----- Services (Usecases) -----
	notifService := notifyUsecase.NewService(notifyRepo, hub, logger)
	bookingService := bookingUsecase.NewService(bookingRepo, resourceRegistry, hub, notifService, logger)
	fleetService := fleetUsecase.NewService(vehicleRepo, driverRepo, resourceRegistry, positionCache, logger)

	gpsPipeline := gpsUsecase.NewPipeline(vehicleRepo, positionCache, hub, logger)
	gpsPipeline.RegisterProvider("generic", gpsUsecase.NewGenericProvider(s.cfg.GPSKeyGeneric))
	gpsPipeline.RegisterProvider("osmand", gpsUsecase.NewOsmAndProvider(s.cfg.GPSKeyOsmAnd))

	// ----- Handlers -----
	bookingHandlerInst := bookingHandler.NewBookingHandler(bookingService)
	fleetHandlerInst := fleetHandler.NewFleetHandler(fleetService)
	gpsHandlerInst := gpsHandler.NewGpsHandler(gpsPipeline, logger)
	notifHandlerInst := notifyH.NewNotificationHandler(notifService)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigins),
	)

	// ----- Router -----
	handlers := &Handlers{
		BookingHandler: bookingHandlerInst,
		FleetHandler:   fleetHandlerInst,
		GpsHandler:     gpsHandlerInst,
		NotifHandler:   notifHandlerInst,
		WSHandler:      wsHandlerInst,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
