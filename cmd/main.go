package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getScheduleSettingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_schedule_settings"
	getUserBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_bookings"
	listCancellationsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_cancellations"
	listRescheduleRequestsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_reschedule_requests"
	requestRescheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/request_reschedule"
	rescheduleBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reschedule_booking"
	resolveRescheduleRequestHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/resolve_reschedule_request"
	updateScheduleSettingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_schedule_settings"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	slotsCache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/slots"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	cancellationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/cancellation"
	rescheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reschedule"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	catalogServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/conflicts"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	requestRescheduleUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/request_reschedule"
	rescheduleBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
	resolveRescheduleRequestUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/resolve_reschedule_request"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Часовой пояс бизнеса, все даты и время слотов считаются в нем
	location, err := cfg.Business.Location()
	if err != nil {
		log.Fatal("Failed to load business timezone %q: %v", cfg.Business.Timezone, err)
	}
	log.Info("Business timezone: %s", location.String())

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Redis опционален: без адреса кэш слотов и каталога выключен
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unavailable at %s, cache will be bypassed on errors: %v", cfg.Redis.Address, err)
		} else {
			log.Info("Successfully connected to Redis (addr=%s, db=%d)", cfg.Redis.Address, cfg.Redis.DB)
		}
		pingCancel()
	} else {
		log.Info("Redis address is empty, caching disabled")
	}
	cache := slotsCache.NewCache(redisClient, cfg.Redis.SlotsTTL())

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	if redisClient != nil {
		catalogClient.UseRedisCache(redisClient, time.Duration(cfg.CatalogService.CacheTTLSeconds)*time.Second)
	}
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		executor dbmetrics.DBExecutor
		txMgr    *txmanager.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		executor = db
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	bookingRepository := bookingRepo.NewRepository(executor)
	cancellationRepository := cancellationRepo.NewRepository(executor)
	rescheduleRepository := rescheduleRepo.NewRepository(executor)
	scheduleRepository := scheduleRepo.NewRepository(executor)

	// Единый валидатор конфликтов для всех операций записи
	validator := conflicts.NewValidator(bookingRepository, log)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		cancellationRepository,
		rescheduleRepository,
		txMgr,
		cache,
		metricsCollector,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		txMgr,
		cache,
		location,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogClient,
		cache,
		location,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogClient,
		validator,
		txMgr,
		cache,
		metricsCollector,
		location,
		log,
	)

	requestRescheduleUseCase := requestRescheduleUC.NewUseCase(
		bookingRepository,
		rescheduleRepository,
		txMgr,
		location,
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		rescheduleRepository,
		validator,
		txMgr,
		cache,
		metricsCollector,
		location,
		log,
	)

	resolveRescheduleRequestUseCase := resolveRescheduleRequestUC.NewUseCase(
		bookingRepository,
		rescheduleRepository,
		validator,
		txMgr,
		cache,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	listCancellations := listCancellationsHandler.NewHandler(bookingSvc, log)
	requestReschedule := requestRescheduleHandler.NewHandler(requestRescheduleUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	listRescheduleRequests := listRescheduleRequestsHandler.NewHandler(bookingSvc, log)
	resolveRescheduleRequest := resolveRescheduleRequestHandler.NewHandler(resolveRescheduleRequestUseCase, log)
	getScheduleSettings := getScheduleSettingsHandler.NewHandler(scheduleSvc, log)
	updateScheduleSettings := updateScheduleSettingsHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Ограничение частоты запросов по IP
	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.TrustedProxies)
		if err != nil {
			log.Fatal("Failed to configure rate limiter: %v", err)
		}
		r.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.2f, burst=%d, trusted proxies=%d)",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, len(cfg.RateLimit.TrustedProxies))
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты на дату
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Настройки расписания (рабочие часы, исключения, ручные слоты, горизонт)
	api.HandleFunc("/schedule-settings", getScheduleSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования клиента ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Запрос на перенос
	protected.HandleFunc("/bookings/{bookingId}/reschedule-requests", requestReschedule.Handle).Methods(http.MethodPost)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (X-User-ID + X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.Auth)
	admin.Use(middleware.RequireAdmin)

	// --- Бронирования ---
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/cancellations", listCancellations.Handle).Methods(http.MethodGet)

	// --- Запросы на перенос ---
	admin.HandleFunc("/reschedule-requests", listRescheduleRequests.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reschedule-requests/{requestId}", resolveRescheduleRequest.Handle).Methods(http.MethodPut)

	// --- Настройки расписания ---
	admin.HandleFunc("/schedule-settings/business-hours", updateScheduleSettings.BusinessHours).Methods(http.MethodPut)
	admin.HandleFunc("/schedule-settings/horizon", updateScheduleSettings.Horizon).Methods(http.MethodPut)
	admin.HandleFunc("/schedule-settings/special-dates", updateScheduleSettings.SpecialDate).Methods(http.MethodPut)
	admin.HandleFunc("/schedule-settings/special-dates/{id}", updateScheduleSettings.DeleteSpecialDate).Methods(http.MethodDelete)
	admin.HandleFunc("/schedule-settings/manual-slots", updateScheduleSettings.ManualSlot).Methods(http.MethodPost)
	admin.HandleFunc("/schedule-settings/manual-slots/{id}", updateScheduleSettings.DeleteManualSlot).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
