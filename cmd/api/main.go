package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fardinGG/nocrashairlines/internal/api"
	"github.com/fardinGG/nocrashairlines/internal/api/handler"
	custommw "github.com/fardinGG/nocrashairlines/internal/api/middleware"
	"github.com/fardinGG/nocrashairlines/internal/application"
	"github.com/fardinGG/nocrashairlines/internal/config"
	"github.com/fardinGG/nocrashairlines/internal/domain/booking"
	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
	"github.com/fardinGG/nocrashairlines/internal/domain/passenger"
	"github.com/fardinGG/nocrashairlines/internal/domain/payment"
	"github.com/fardinGG/nocrashairlines/internal/gateway"
	"github.com/fardinGG/nocrashairlines/internal/infrastructure/memory"
	"github.com/fardinGG/nocrashairlines/internal/infrastructure/postgres"
	redisinfra "github.com/fardinGG/nocrashairlines/internal/infrastructure/redis"
	"github.com/fardinGG/nocrashairlines/internal/notification"
	"github.com/fardinGG/nocrashairlines/internal/pkg/logger"
	"github.com/fardinGG/nocrashairlines/internal/pkg/metrics"
	"github.com/fardinGG/nocrashairlines/internal/worker"
)

func main() {
	cfg := config.Load()

	l := logger.NewLogger(os.Getenv("APP_ENV"))
	logger.Set(l)
	defer func() { _ = l.Sync() }()

	m := metrics.Init()

	// ストレージバックエンドの選択（postgres / memory）
	flightRepo, bookingRepo, paymentRepo, passengerRepo := buildRepositories(cfg)

	// 空席数キャッシュ（Redis接続に失敗した場合はキャッシュなしで続行）
	var cache *redisinfra.AvailabilityCache
	redisClient := redisinfra.NewClient(&cfg.Redis)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		logger.Warn("Redis接続に失敗、空席数キャッシュなしで続行", zap.Error(err))
	} else {
		cache = redisinfra.NewAvailabilityCache(redisClient)
	}
	cancelPing()

	gw := gateway.NewMockGateway(
		gateway.WithSuccessRate(cfg.Gateway.SuccessRate),
		gateway.WithLatency(cfg.Gateway.Latency),
		gateway.WithFraudCeiling(cfg.Gateway.FraudCeiling),
	)

	var notifier notification.Notifier
	if cfg.Kafka.Brokers != "" {
		kafkaNotifier := notification.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() { _ = kafkaNotifier.Close() }()
		notifier = kafkaNotifier
		logger.Info("Kafka通知を有効化", zap.String("topic", cfg.Kafka.Topic))
	} else {
		notifier = notification.NewLogNotifier()
	}

	// 型付きnilをインターフェースに入れないよう、キャッシュがあるときだけ渡す
	var invalidator application.AvailabilityInvalidator
	if cache != nil {
		invalidator = cache
	}

	bookingService := application.NewBookingService(
		bookingRepo, flightRepo, paymentRepo, passengerRepo, gw, notifier, invalidator, m)
	flightService := application.NewFlightService(flightRepo, cache)
	passengerService := application.NewPassengerService(passengerRepo)

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	registerRoutes(e, flightService, bookingService, passengerService)

	// 期限切れPENDING予約の自動キャンセルワーカー
	expirer := worker.NewPendingBookingExpirer(bookingService, cfg.Worker.Interval, cfg.Worker.ExpireAfter)
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go expirer.Start(workerCtx)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	cancelWorker()
	expirer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}

func buildRepositories(cfg *config.Config) (flight.Repository, booking.Repository, payment.Repository, passenger.Repository) {
	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "memory" {
		logger.Info("インメモリストレージを使用")
		return memory.NewFlightRepository(),
			memory.NewBookingRepository(),
			memory.NewPaymentRepository(),
			memory.NewPassengerRepository()
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗", zap.Error(err))
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	return postgres.NewFlightRepository(db),
		postgres.NewBookingRepository(db),
		postgres.NewPaymentRepository(db),
		postgres.NewPassengerRepository(db)
}

func registerRoutes(
	e *echo.Echo,
	flightService *application.FlightService,
	bookingService *application.BookingService,
	passengerService *application.PassengerService,
) {
	healthHandler := handler.NewHealthHandler()
	flightHandler := handler.NewFlightHandler(flightService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	passengerHandler := handler.NewPassengerHandler(passengerService)

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	v1 := e.Group("/api/v1")

	v1.POST("/passengers", passengerHandler.Register)
	v1.GET("/passengers/:id", passengerHandler.GetByID)

	v1.POST("/flights", flightHandler.Create)
	v1.GET("/flights", flightHandler.List)
	v1.GET("/flights/search", flightHandler.Search)
	v1.GET("/flights/:id", flightHandler.GetByID)
	v1.PUT("/flights/:id/status", flightHandler.UpdateStatus)
	v1.GET("/flights/:id/available-seats", flightHandler.AvailableSeats)

	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings", bookingHandler.ListByPassenger)
	v1.GET("/bookings/:id", bookingHandler.GetByID)
	v1.POST("/bookings/:id/pay", bookingHandler.Pay)
	v1.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	v1.POST("/bookings/:id/refund", bookingHandler.Refund)
	v1.POST("/bookings/:id/reschedule", bookingHandler.Reschedule)
	v1.POST("/bookings/:id/check-in", bookingHandler.CheckIn)
}
