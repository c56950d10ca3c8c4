package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/LJablon/EduRent/internal/cache"
	"github.com/LJablon/EduRent/internal/config"
	"github.com/LJablon/EduRent/internal/handler"
	appLog "github.com/LJablon/EduRent/internal/log"
	"github.com/LJablon/EduRent/internal/mail"
	appMongo "github.com/LJablon/EduRent/internal/mongo"
	"github.com/LJablon/EduRent/internal/pricing"
	"github.com/LJablon/EduRent/internal/repository"
	"github.com/LJablon/EduRent/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		appLog.Error("config load failed", err)
		os.Exit(1)
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		appLog.Error("db connect failed", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := repository.EnsureSchema(ctx, db); err != nil {
		appLog.Error("schema bootstrap failed", err)
		os.Exit(1)
	}

	listingRepo := repository.NewListingRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)

	availabilityCache := newAvailabilityCache(ctx, cfg)

	var emailClient mail.EmailClient = mail.LogClient{}
	if cfg.Mail.SendGridAPIKey != "" {
		emailClient = mail.NewSendGridClient(cfg.Mail.SendGridAPIKey)
	}
	mailer := mail.NewContactMailer(emailClient, cfg.Mail.From)

	listingSvc := service.NewListingService(listingRepo, reservationRepo, userRepo, availabilityCache)
	reservationSvc := service.NewReservationService(listingRepo, reservationRepo, availabilityCache, pricing.NightlyEstimator{})
	contactSvc := service.NewContactService(listingRepo, userRepo, contactRepo, mailer)
	homeSvc := service.NewHomeService(listingRepo, cfg.MapOptions())
	if cfg.GoogleMapsKey == "" {
		appLog.Info("GOOGLE_MAPS_EMBED_KEY not set, map endpoints will report it")
	}

	hs := handler.Handlers{
		Listings:     handler.NewListingHandler(listingSvc),
		Reservations: handler.NewReservationHandler(reservationSvc),
		Contact:      handler.NewContactHandler(contactSvc),
		Home:         handler.NewHomeHandler(homeSvc),
	}

	if cfg.MongoURI != "" {
		mongoClient, err := appMongo.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			appLog.Error("mongo unavailable, photo routes disabled", err)
		} else {
			defer mongoClient.Disconnect(context.Background())
			hs.Photos = &handler.PhotoHandler{
				Repo:        repository.NewPhotoRepository(mongoClient, cfg.MongoDB),
				ListingRepo: listingRepo,
			}
		}
	}

	r := gin.Default()
	hs.Mount(r, cfg.JWTSecret)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("listing service running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("graceful shutdown failed", err)
	}
}

// newAvailabilityCache returns the Redis cache when REDIS_ADDR is set and
// reachable, and a no-op cache otherwise.
func newAvailabilityCache(ctx context.Context, cfg *config.Config) service.AvailabilityCache {
	if cfg.RedisAddr == "" {
		return cache.Noop{}
	}
	rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		appLog.Error("redis unavailable, availability cache disabled", err, "addr", cfg.RedisAddr)
		_ = rdb.Close()
		return cache.Noop{}
	}
	appLog.Info("connected to Redis", "addr", cfg.RedisAddr)
	return cache.NewAvailabilityCache(rdb, cfg.CacheTTL)
}
