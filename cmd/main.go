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

	createAppointmentHandler "github.com/avdmitr/salon-booking-service/internal/api/handlers/create_appointment"
	getAvailableDatesHandler "github.com/avdmitr/salon-booking-service/internal/api/handlers/get_available_dates"
	getDayAppointmentsHandler "github.com/avdmitr/salon-booking-service/internal/api/handlers/get_day_appointments"
	getMyAppointmentsHandler "github.com/avdmitr/salon-booking-service/internal/api/handlers/get_my_appointments"
	getScheduleHandler "github.com/avdmitr/salon-booking-service/internal/api/handlers/get_schedule"
	getServicesHandler "github.com/avdmitr/salon-booking-service/internal/api/handlers/get_services"
	manageBlockedSlotsHandler "github.com/avdmitr/salon-booking-service/internal/api/handlers/manage_blocked_slots"
	manageScheduleHandler "github.com/avdmitr/salon-booking-service/internal/api/handlers/manage_schedule"
	modifyAppointmentHandler "github.com/avdmitr/salon-booking-service/internal/api/handlers/modify_appointment"
	updateAppointmentStatusHandler "github.com/avdmitr/salon-booking-service/internal/api/handlers/update_appointment_status"
	"github.com/avdmitr/salon-booking-service/internal/api/middleware"
	"github.com/avdmitr/salon-booking-service/internal/config"
	appointmentRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/appointment"
	catalogRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/catalog"
	clientRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/client"
	scheduleRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/schedule"
	"github.com/avdmitr/salon-booking-service/internal/integrations/notifier"
	appointmentsService "github.com/avdmitr/salon-booking-service/internal/service/appointments"
	scheduleService "github.com/avdmitr/salon-booking-service/internal/service/schedule"
	blockSlotUC "github.com/avdmitr/salon-booking-service/internal/usecase/block_slot"
	createBookingUC "github.com/avdmitr/salon-booking-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/avdmitr/salon-booking-service/internal/usecase/get_available_slots"
	modifyBookingUC "github.com/avdmitr/salon-booking-service/internal/usecase/modify_booking"
	"github.com/avdmitr/salon-booking-service/pkg/dbmetrics"
	"github.com/avdmitr/salon-booking-service/pkg/logger"
	"github.com/avdmitr/salon-booking-service/pkg/metrics"
	"github.com/avdmitr/salon-booking-service/pkg/simpletxmanager"
	"github.com/avdmitr/salon-booking-service/pkg/txmanager"
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

	log.Info("Starting salon-booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем Telegram-уведомления
	// При пустом токене возвращается выключенный notifier, сервис работает без уведомлений
	notify, err := notifier.New(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID, log)
	if err != nil {
		log.Fatal("Failed to initialize telegram notifier: %v", err)
	}
	if cfg.Telegram.Enabled() {
		log.Info("Telegram notifications enabled (chat_id=%d)", cfg.Telegram.AdminChatID)
	} else {
		log.Info("Telegram notifications disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		clientRepository      *clientRepo.Repository
		catalogRepository     *catalogRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		clientRepository = clientRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		clientRepository = clientRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Настройки бронирования из конфига
	settings := cfg.Booking.Settings()

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		clientRepository,
		catalogRepository,
		notify,
		settings,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		clientRepository,
		catalogRepository,
		scheduleRepository,
		txMgr,
		notify,
		settings,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		scheduleRepository,
		settings,
		log,
	)

	modifyBookingUseCase := modifyBookingUC.NewUseCase(
		appointmentRepository,
		clientRepository,
		catalogRepository,
		scheduleRepository,
		txMgr,
		notify,
		settings,
		log,
	)

	blockSlotUseCase := blockSlotUC.NewUseCase(
		scheduleRepository,
		appointmentRepository,
		settings,
		log,
	)

	// Инициализируем handlers
	getSchedule := getScheduleHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableDates := getAvailableDatesHandler.NewHandler(getAvailableSlotsUseCase, log)
	getServices := getServicesHandler.NewHandler(appointmentsSvc, log)
	createAppointment := createAppointmentHandler.NewHandler(createBookingUseCase, log)
	createAppointmentAdmin := createAppointmentHandler.NewAdminHandler(createBookingUseCase, log)
	getMyAppointments := getMyAppointmentsHandler.NewHandler(appointmentsSvc, log)
	modifyAppointment := modifyAppointmentHandler.NewHandler(modifyBookingUseCase, log)
	getDayAppointments := getDayAppointmentsHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	manageBlockedSlots := manageBlockedSlotsHandler.NewHandler(blockSlotUseCase, scheduleSvc, log)
	manageSchedule := manageScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиентский контур, без аутентификации)
	// ============================================================

	// Каталог услуг
	api.HandleFunc("/services", getServices.Handle).Methods(http.MethodGet)

	// Доступные слоты на дату
	api.HandleFunc("/schedule/dates/available", getAvailableDates.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedule/{date}", getSchedule.Handle).Methods(http.MethodGet)

	// Создание записи
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Записи клиента по телефону
	api.HandleFunc("/appointments/my", getMyAppointments.Handle).Methods(http.MethodGet)

	// Отмена или перенос записи клиентом
	api.HandleFunc("/appointments/{appointmentId}", modifyAppointment.Handle).Methods(http.MethodPatch)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.APIToken))

	// --- Записи ---
	admin.HandleFunc("/appointments", getDayAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments", createAppointmentAdmin.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Блокировки слотов ---
	admin.HandleFunc("/blocked-slots", manageBlockedSlots.HandleList).Methods(http.MethodGet)
	admin.HandleFunc("/blocked-slots", manageBlockedSlots.HandleBlock).Methods(http.MethodPost)
	admin.HandleFunc("/blocked-slots", manageBlockedSlots.HandleUnblock).Methods(http.MethodDelete)
	admin.HandleFunc("/blocked-slots/day", manageBlockedSlots.HandleBlockDay).Methods(http.MethodPost)

	// --- Недельные шаблоны ---
	admin.HandleFunc("/schedule", manageSchedule.HandleGetSalonWeek).Methods(http.MethodGet)
	admin.HandleFunc("/schedule", manageSchedule.HandleUpdateSalonDay).Methods(http.MethodPut)
	admin.HandleFunc("/availability", manageSchedule.HandleGetMasterWeek).Methods(http.MethodGet)
	admin.HandleFunc("/availability", manageSchedule.HandleUpdateMasterDay).Methods(http.MethodPut)

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
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
