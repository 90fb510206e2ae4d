package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campusevents/internal/activity"
	"campusevents/internal/attendance"
	"campusevents/internal/auth"
	"campusevents/internal/config"
	"campusevents/internal/events"
	"campusevents/internal/feedback"
	"campusevents/internal/handler"
	"campusevents/internal/httpmiddleware"
	"campusevents/internal/identity"
	"campusevents/internal/monitoring"
	"campusevents/internal/queue"
	"campusevents/internal/registration"
	"campusevents/internal/report"
	"campusevents/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(context.Background()); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, cfg.ActivityQueue)
	}

	identitySvc := identity.NewService(identity.NewRepository(db.Client))
	eventsSvc := events.NewService(events.NewRepository(db.Client), identitySvc)
	regSvc := registration.NewService(registration.NewRepository(db.Client), eventsSvc)
	attSvc := attendance.NewService(attendance.NewRepository(db.Client), eventsSvc, identitySvc)
	fbSvc := feedback.NewService(feedback.NewRepository(db.Client), eventsSvc)
	reportSvc := report.NewService(eventsSvc, regSvc, attSvc, fbSvc, identitySvc)
	activityRepo := activity.NewRepository(db.Client)

	gate := auth.NewGate(cfg.JWTSigningKey, cfg.JWTIssuer, identitySvc)

	h := handler.New(handler.Deps{
		Identity:      identitySvc,
		Events:        eventsSvc,
		Registrations: regSvc,
		Attendance:    attSvc,
		Feedback:      fbSvc,
		Reports:       reportSvc,
		Activity:      activityRepo,
		Queue:         q,
		DB:            db,
		Redis:         redisClient,
		JWTIssuer:     cfg.JWTIssuer,
		JWTKey:        cfg.JWTSigningKey,
		TokenTTL:      cfg.TokenTTL,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/health", "/metrics"},
	}))
	r.Use(corsMiddleware(cfg.CORSOrigins))
	r.Use(securityHeaders())
	r.Use(monitoring.GinMiddleware())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.Routes(r, gate)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

func corsMiddleware(origins string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if origins == "" || origins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(origins, ",")
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	return cors.New(corsCfg)
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
