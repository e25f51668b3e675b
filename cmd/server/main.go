package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/yukikurage/recipe-api/internal/auth"
	"github.com/yukikurage/recipe-api/internal/config"
	"github.com/yukikurage/recipe-api/internal/database"
	"github.com/yukikurage/recipe-api/internal/handlers"
	"github.com/yukikurage/recipe-api/internal/logging"
	"github.com/yukikurage/recipe-api/internal/repository"
	"github.com/yukikurage/recipe-api/internal/services"
	"github.com/yukikurage/recipe-api/internal/validation"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	store := repository.NewStore(db)
	tokens := auth.NewTokenIssuer(cfg.SigningKey(), cfg.TokenTTL)
	userService := services.NewUserService(store.Users, tokens)

	if len(os.Args) > 1 && os.Args[1] == "createsuperuser" {
		if err := createSuperuser(userService, os.Args[2:]); err != nil {
			log.Fatal("failed to create superuser", zap.Error(err))
		}
		log.Info("superuser created")
		return
	}

	// Initialize AI drafting
	var draftService *services.DraftService
	if cfg.OpenAIAPIKey != "" {
		draftService = services.NewDraftService(cfg.OpenAIAPIKey)
	}

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal("failed to create session store", zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)
	r := handlers.NewRouter(handlers.Services{
		Users:       userService,
		Tags:        services.NewTagService(store.Tags),
		Ingredients: services.NewIngredientService(store.Ingredients),
		Recipes:     services.NewRecipeService(store, validation.New()),
		Drafts:      draftService,
	}, sessionStore, log)

	corsHandler := cors.New(corsOptions(cfg.CORSOrigins))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newSessionStore uses Redis when REDIS_HOST is set and signed cookies otherwise
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// createSuperuser handles "createsuperuser -email ... -password ...". The
// SUPERUSER_EMAIL and SUPERUSER_PASSWORD variables fill in missing flags.
func createSuperuser(users *services.UserService, args []string) error {
	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	email := fs.String("email", os.Getenv("SUPERUSER_EMAIL"), "superuser email")
	password := fs.String("password", os.Getenv("SUPERUSER_PASSWORD"), "superuser password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, err := users.CreateSuperuser(*email, *password)
	return err
}
