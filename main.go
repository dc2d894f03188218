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

	"photo-store/domain/repository"
	"photo-store/infrastructure/cache"
	"photo-store/infrastructure/configuration"
	"photo-store/infrastructure/lightroom"
	"photo-store/infrastructure/logger"
	"photo-store/infrastructure/persistence"
	"photo-store/infrastructure/pubsub"
	"photo-store/infrastructure/servicebus"
	httpHandler "photo-store/interfaces/http"
	"photo-store/server"
	"photo-store/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")
	// Env files load after the configuration package initializes
	if v := os.Getenv("SECRET_KEY"); v != "" {
		configuration.C.App.SecretKey = v
	}

	app := configuration.C.App

	db, vendor, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
	}

	var userRepository repository.IUser
	if db != nil {
		if vendor == "mssql" {
			userRepository = persistence.NewUserRepositoryMSSQL(db)
		} else {
			userRepository = persistence.NewUserRepository(db)
		}
		logger.GetLogger().WithField("vendor", vendor).Info("Database connected.")
	} else {
		logger.GetLogger().Warn("No database available - login and registration are disabled")
	}

	redisClient, _ := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	stateStore := cache.NewStateStore(redisClient)

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("PubSub not available - continuing without event publishing")
		pubSubClient = nil
	}
	eventPublisher := pubsub.NewEventPublisher(pubSubClient, configuration.C.Pubsub.Topic)

	azServiceBusClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without notifications")
		azServiceBusClient = nil
	}
	notifier := servicebus.NewNotifier(azServiceBusClient, configuration.C.ServiceBus.Queue)

	// Lightroom account wiring. The token store is loaded up front so the
	// connection state survives restarts.
	tokenStore := lightroom.NewTokenStore(configuration.C.Store.TokenFile)
	if record, err := tokenStore.Load(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Could not read persisted Lightroom tokens")
	} else if record != nil {
		logger.GetLogger().Info("Lightroom account connected from persisted tokens")
	} else {
		logger.GetLogger().Info("No Lightroom account connected")
	}

	lightroomConfig, err := configuration.GetLightroomConfig()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Lightroom configuration not found - catalog features will be disabled")
	}
	if lightroomConfig == nil {
		lightroomConfig = &configuration.LightroomConfig{}
	}
	lightroomClient := lightroom.NewClient(lightroom.Config{
		ClientID:      lightroomConfig.ClientID,
		ClientSecret:  lightroomConfig.ClientSecret,
		RedirectURL:   lightroomConfig.RedirectURL,
		Scopes:        lightroomConfig.Scopes,
		BaseURL:       lightroomConfig.BaseURL,
		AuthURL:       lightroomConfig.AuthURL,
		TokenURL:      lightroomConfig.TokenURL,
		RenditionType: lightroomConfig.RenditionType,
		DefaultPrice:  lightroomConfig.DefaultPrice,
	}, tokenStore)

	photoStore := persistence.NewPhotoRepository(configuration.C.Store.PhotosFile)

	userUsecase := usecase.NewUserUsecase(userRepository, app.SecretKey)
	photoUsecase := usecase.NewPhotoUsecase(lightroomClient, photoStore, eventPublisher, notifier)

	userHandler := httpHandler.NewUserHandler(userUsecase)
	photoHandler := httpHandler.NewPhotoHandler(photoUsecase)
	lightroomAuthHandler := httpHandler.NewLightroomAuthHandler(lightroomClient, stateStore, eventPublisher, notifier)

	router := server.InitiateRouter(userHandler, photoHandler, lightroomAuthHandler, userRepository, app.SecretKey)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if pubSubClient != nil {
		_ = pubSubClient.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

func InitiateDatabase() (*sql.DB, string, error) {
	env := os.Getenv("ENV")
	// Allow overriding vendor explicitly (e.g., DB_VENDOR=mssql)
	if v := os.Getenv("DB_VENDOR"); v == "mssql" {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL (DB_VENDOR=mssql)")
			return nil, "", err
		}
		return db, "mssql", nil
	}
	if env == "production" || env == "prod" {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL (production)")
			return nil, "", err
		}
		return db, "mssql", nil
	}

	// Default/local: PostgreSQL
	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to the local database")
		return nil, "", err
	}
	return db, "psql", nil
}
