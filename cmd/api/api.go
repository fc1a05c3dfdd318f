package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"folio/docs" //this is required to generate swagger docs
	"folio/internal/mailer"
	"folio/internal/moderation"
	"folio/internal/ratelimiter"
	"folio/internal/realtime"
	"folio/internal/store"
	"folio/internal/store/cache"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/speps/go-hashids/v2"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config       config
	store        store.Storage
	cacheStorage cache.Storage
	logger       *zap.SugaredLogger
	avatars      avatarUploader
	captcha      captchaVerifier
	mailer       mailer.Client
	relay        relayNotifier
	events       realtime.Broadcaster
	hub          *realtime.Hub
	policy       moderation.Policy
	rateLimiter  *ratelimiter.FixedWindowRateLimiter
	refEncoder   *hashids.HashID

	wg sync.WaitGroup

	// Single reporting hook for best-effort failures; overridable in tests.
	onBestEffortFailure func(task string, err error)
}

type config struct {
	addr        string
	env         string
	apiURL      string
	frontendURL string
	db          dbConfig
	mail        mailConfig
	auth        basicConfig
	redis       redisConfig
	turnstile   turnstileConfig
	relay       relayConfig
	rateLimiter ratelimiter.Config
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type mailConfig struct {
	fromEmail  string
	adminEmail string
	smtp       smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type basicConfig struct {
	user string
	pass string
}

type redisConfig struct {
	addr    string
	pw      string
	db      int
	ttl     time.Duration
	enabled bool
}

type turnstileConfig struct {
	secretKey        string
	verifyURL        string
	expectedHostname string
}

type relayConfig struct {
	endpoint string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", app.getReviewsHandler)
			r.With(app.RateLimitMiddleware).Post("/", app.createReviewHandler)

			r.Route("/{reviewID}", func(r chi.Router) {
				r.With(app.RateLimitMiddleware).Post("/like", app.likeReviewHandler)
				r.With(app.RateLimitMiddleware).Post("/replies", app.createReplyHandler)
			})
		})

		r.With(app.RateLimitMiddleware).Post("/enquiries", app.createEnquiryHandler)

		r.Get("/ws", app.websocketHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.BasicAuthMiddleware())
			r.Get("/reviews/pending", app.getPendingReviewsHandler)
			r.Patch("/reviews/{reviewID}/approve", app.approveReviewHandler)
			r.Get("/replies/pending", app.getPendingRepliesHandler)
			r.Patch("/replies/{replyID}/approve", app.approveReplyHandler)
			r.Get("/enquiries", app.getEnquiriesHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	// Let in-flight best-effort notifications finish before exiting.
	app.wg.Wait()

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
