package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sergio-tacza/api/internal/accounts"
	"github.com/sergio-tacza/api/internal/appointments"
	"github.com/sergio-tacza/api/internal/auth"
	"github.com/sergio-tacza/api/internal/cache"
	"github.com/sergio-tacza/api/internal/catalog"
	"github.com/sergio-tacza/api/internal/clients"
	"github.com/sergio-tacza/api/internal/config"
	"github.com/sergio-tacza/api/internal/db"
	"github.com/sergio-tacza/api/internal/directory"
	"github.com/sergio-tacza/api/internal/employees"
	"github.com/sergio-tacza/api/internal/middleware"
	"github.com/sergio-tacza/api/internal/notifications"
	"github.com/sergio-tacza/api/internal/reminder"
	"github.com/sergio-tacza/api/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:    []byte(cfg.JWTSecret),
			AccessTTL: time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			Issuer:    "tacbarber-api",
		}
	}

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail))
	}

	whatsapp := notifications.NewWhatsAppClient(cfg.WhatsApp, logger)
	if cfg.WhatsApp.Enabled {
		logger.Info("whatsapp channel enabled", slog.String("api_version", cfg.WhatsApp.APIVersion))
	} else {
		logger.Info("whatsapp channel disabled, reminders will be simulated")
	}

	val := validation.New()
	dir := directory.New(cols.Clients, cols.Services, cols.Users)

	clientsService := clients.NewService(clients.NewRepository(cols.Clients), cfg.Timezone)
	clientsHandler := clients.NewHandler(clientsService, val, logger)

	catalogService := catalog.NewService(catalog.NewRepository(cols.Services), cfg.Timezone)
	catalogHandler := catalog.NewHandler(catalogService, val, logger, cacheStore, time.Duration(cfg.CacheTTLSeconds)*time.Second)

	employeesService := employees.NewService(employees.NewRepository(cols.Users), cfg.Timezone)
	employeesHandler := employees.NewHandler(employeesService, val, logger)

	appointmentsRepo := appointments.NewRepository(cols.Appointments)
	appointmentsService := appointments.NewService(appointmentsRepo, dir, cfg.Timezone)
	appointmentsHandler := appointments.NewHandler(appointmentsService, val, logger)

	accountsService := accounts.NewService(
		accounts.NewRepository(cols.Users, cols.RecoveryTokens),
		jwtManager,
		mailer,
		cfg.ResetURLBase,
		logger,
	)
	accountsHandler := accounts.NewHandler(accountsService, val, logger)

	scheduler := reminder.NewScheduler(appointmentsRepo, dir, whatsapp, cfg.Reminder.TickInterval, logger)
	scheduler.Start()
	defer scheduler.Stop()

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	authLimiter := middleware.NewRateLimiter(cfg.RateLimitAuth, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	appointmentsLimiter := middleware.NewRateLimiter(cfg.RateLimitAppointments, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	adminOnly := middleware.AdminAuth(cfg.AdminAPIKey, jwtManager)
	staffOnly := middleware.StaffAuth(jwtManager)

	r.Route("/api/v1", func(api chi.Router) {
		api.With(authLimiter.Middleware).Post("/auth/login", accountsHandler.Login)
		api.With(authLimiter.Middleware).Post("/auth/recover", accountsHandler.RequestRecovery)
		api.With(authLimiter.Middleware).Post("/auth/reset", accountsHandler.ResetPassword)

		api.Get("/services", catalogHandler.List)
		api.Get("/services/{id}", catalogHandler.Get)

		api.Group(func(staff chi.Router) {
			staff.Use(staffOnly)

			staff.Get("/clients", clientsHandler.List)
			staff.Get("/clients/{id}", clientsHandler.Get)
			staff.Post("/clients", clientsHandler.Create)
			staff.Put("/clients/{id}", clientsHandler.Update)
			staff.Delete("/clients/{id}", clientsHandler.Deactivate)

			staff.Get("/appointments", appointmentsHandler.List)
			staff.Get("/appointments/{id}", appointmentsHandler.Get)
			staff.With(appointmentsLimiter.Middleware).Post("/appointments", appointmentsHandler.Create)
			staff.Put("/appointments/{id}/confirm", appointmentsHandler.Confirm)
			staff.Put("/appointments/{id}/cancel", appointmentsHandler.Cancel)
			staff.Put("/appointments/{id}/complete", appointmentsHandler.Complete)
			staff.Delete("/appointments/{id}", appointmentsHandler.Delete)

			staff.Get("/dashboard", appointmentsHandler.Dashboard)
		})

		api.Group(func(admin chi.Router) {
			admin.Use(adminOnly)

			admin.Post("/services", catalogHandler.Create)
			admin.Put("/services/{id}", catalogHandler.Update)
			admin.Delete("/services/{id}", catalogHandler.Deactivate)

			admin.Get("/employees", employeesHandler.List)
			admin.Get("/employees/{id}", employeesHandler.Get)
			admin.Post("/employees", employeesHandler.Create)
			admin.Put("/employees/{id}", employeesHandler.Update)
			admin.Delete("/employees/{id}", employeesHandler.Deactivate)
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
