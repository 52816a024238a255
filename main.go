package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/quillpress/api-backend/docs"
	"github.com/quillpress/api-backend/internal/config"
	"github.com/quillpress/api-backend/internal/database"
	"github.com/quillpress/api-backend/internal/handlers"
	"github.com/quillpress/api-backend/internal/logger"
	"github.com/quillpress/api-backend/internal/middleware"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/services"
	"github.com/quillpress/api-backend/internal/storage/minio"
	"github.com/quillpress/api-backend/internal/templates"
	"github.com/quillpress/api-backend/internal/validators"
)

// @title Quillpress API
// @version 1.0
// @description Blog publishing backend with an admin console.
// @BasePath /
// @securityDefinitions.apikey SessionCookie
// @in header
// @name Authorization
// @description Session token. Browsers send the session_token cookie instead.
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		// Logger is not configured yet
		logger.Init(config.EnvDevelopment, "info", "console").Fatal("failed to load config", zap.Error(err))
	}

	log := logger.Init(cfg.Env, cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validators.RegisterBindingTags(); err != nil {
		return err
	}

	// Database
	db, err := database.InitDB(&database.Config{
		Driver:          cfg.Database.Driver,
		DatabasePath:    cfg.Database.Path,
		DSN:             cfg.Database.DSN,
		LogLevel:        gormlogger.Warn,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	adminRepo := repositories.NewAdminRepository(db)
	blogRepo := repositories.NewBlogRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	otpRepo := repositories.NewOTPRepository(db)

	// Sign-in
	var sms services.SMSSender
	if cfg.SMS.Driver == "log" {
		log.Warn("SMS_DRIVER=log: login codes are written to the log")
		sms = services.NewLogSMSSender(log)
	} else {
		sms, err = services.NewSNSSender(ctx, &services.SMSConfig{Region: cfg.SMS.Region, SenderID: cfg.SMS.SenderID}, log)
		if err != nil {
			return err
		}
	}

	otp, err := services.NewOTPService(otpRepo, adminRepo, sms, services.OTPConfig{
		Length:         cfg.OTP.Length,
		TTL:            cfg.OTP.TTL,
		ResendCooldown: cfg.OTP.ResendCooldown,
	}, log)
	if err != nil {
		return err
	}
	credentials, err := services.NewCredentialStore(adminRepo, log)
	if err != nil {
		return err
	}
	sessions, err := services.NewSessionService(credentials, otp, services.SessionConfig{
		Secret: cfg.Session.Secret,
	}, log)
	if err != nil {
		return err
	}

	// Notifications
	var notifier services.StatusNotifier = services.NoopNotifier{}
	if cfg.Email.From != "" {
		email, err := services.NewEmailService(ctx, &services.EmailConfig{FromEmail: cfg.Email.From, Region: cfg.Email.Region}, log)
		if err != nil {
			return err
		}
		notifier = email
	} else {
		log.Info("EMAIL_FROM is empty, status notifications are disabled")
	}

	// Content
	store, err := minio.New(ctx, minio.Config{
		Endpoint:  cfg.Media.Endpoint,
		AccessKey: cfg.Media.AccessKey,
		SecretKey: cfg.Media.SecretKey,
		Bucket:    cfg.Media.Bucket,
		UseSSL:    cfg.Media.UseSSL,
	})
	if err != nil {
		return err
	}
	media, err := services.NewMediaService(store, blogRepo, services.MediaConfig{
		PublicBaseURL:  cfg.Media.PublicBaseURL,
		Folder:         cfg.Media.Folder,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
	}, log)
	if err != nil {
		return err
	}
	blogs, err := services.NewBlogService(blogRepo, media, log)
	if err != nil {
		return err
	}
	categories, err := services.NewCategoryService(categoryRepo, blogs, media, log)
	if err != nil {
		return err
	}
	faqs, err := services.NewFAQService(repositories.NewFAQRepository(db), log)
	if err != nil {
		return err
	}
	comments, err := services.NewCommentService(commentRepo, blogRepo, log)
	if err != nil {
		return err
	}
	admins, err := services.NewAdminUserService(adminRepo, notifier, log)
	if err != nil {
		return err
	}
	dashboard, err := services.NewDashboardService(blogRepo, categoryRepo, commentRepo, adminRepo)
	if err != nil {
		return err
	}
	information, err := services.NewInformationService(repositories.NewInformationRepository(db), log)
	if err != nil {
		return err
	}

	// Expired challenge cleanup
	cleanup := services.NewCleanupService(otp, services.DefaultCleanupInterval, log)
	cleanup.Start()
	defer cleanup.Stop()

	// Router
	pages, err := templates.LoadPages()
	if err != nil {
		return err
	}

	router := gin.New()
	router.Use(logger.GinMiddleware(log), gin.Recovery())
	router.SetHTMLTemplate(pages)
	router.Use(middleware.NewRouteAuthorizer(sessions, cfg.Session.CookieName, log).Middleware())

	handlers.RegisterRoutes(router, handlers.Handlers{
		Auth:       handlers.NewAuthHandler(sessions, otp, handlers.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.IsProduction()}, log),
		Blogs:      handlers.NewBlogHandler(blogs, log),
		Categories: handlers.NewCategoryHandler(categories, log),
		Media:      handlers.NewMediaHandler(media, log),
		Moderation: handlers.NewModerationHandler(faqs, comments, log),
		Admins:     handlers.NewAdminUserHandler(admins, log),
		Pages:      handlers.NewPageHandler(blogs, categories, dashboard, admins, information, log),
		Health:     handlers.NewHealthHandler(db, log),
		Cleanup:    handlers.NewCleanupHandler(cleanup),
		Info:       handlers.NewInformationHandler(information, log),
	})

	if !cfg.IsProduction() {
		docs.SwaggerInfo.Host = "localhost:" + cfg.HTTP.Port
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
