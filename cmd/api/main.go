package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"folio/internal/db"
	"folio/internal/mailer"
	"folio/internal/moderation"
	"folio/internal/notify"
	"folio/internal/ratelimiter"
	"folio/internal/realtime"
	"folio/internal/store"
	"folio/internal/store/cache"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/speps/go-hashids/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "1.0.0"

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 20
	defaultEnabled := true

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            time.Minute,
		Enabled:              enabled,
	}
}

//	@title			Folio API
//	@description	Reviews, likes, replies and enquiries backend for the Folio portfolio site.

//	@BasePath					/v1
//	@securityDefinitions.basic	BasicAuth

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on the environment")
	}

	maxConns := int64(30)
	if val := os.Getenv("DB_MAX_CONNS"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 32)
		if err != nil {
			log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
		}
		maxConns = parsed
	}

	smtpPort := 587
	if val := os.Getenv("SMTP_PORT"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("Invalid value for SMTP_PORT: %v", err)
		}
		smtpPort = parsed
	}

	redisDB := 0
	if val := os.Getenv("REDIS_DB"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("Invalid value for REDIS_DB: %v", err)
		}
		redisDB = parsed
	}
	redisEnabled, _ := strconv.ParseBool(os.Getenv("REDIS_ENABLED"))

	cfg := config{
		addr:        os.Getenv("ADDR"),
		env:         os.Getenv("ENV"),
		apiURL:      os.Getenv("EXTERNAL_URL"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(maxConns),
			maxIdleTime: envOr("DB_MAX_IDLE_TIME", "15m"),
		},
		mail: mailConfig{
			fromEmail:  os.Getenv("MAIL_FROM_EMAIL"),
			adminEmail: os.Getenv("MAIL_ADMIN_EMAIL"),
			smtp: smtpConfig{
				host:     os.Getenv("SMTP_HOST"),
				port:     smtpPort,
				username: os.Getenv("SMTP_USERNAME"),
				password: os.Getenv("SMTP_PASSWORD"),
			},
		},
		auth: basicConfig{
			user: os.Getenv("AUTH_BASIC_USER"),
			pass: os.Getenv("AUTH_BASIC_PASS"),
		},
		redis: redisConfig{
			addr:    envOr("REDIS_ADDR", "localhost:6379"),
			pw:      os.Getenv("REDIS_PASSWORD"),
			db:      redisDB,
			ttl:     time.Minute,
			enabled: redisEnabled,
		},
		turnstile: turnstileConfig{
			secretKey:        os.Getenv("TURNSTILE_SECRET_KEY"),
			verifyURL:        envOr("TURNSTILE_VERIFY_URL", "https://challenges.cloudflare.com/turnstile/v0/siteverify"),
			expectedHostname: os.Getenv("TURNSTILE_EXPECTED_HOSTNAME"),
		},
		relay: relayConfig{
			endpoint: os.Getenv("RELAY_ENDPOINT"),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Error reporting, enabled only when a DSN is configured
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Environment: cfg.env}); err != nil {
			logger.Fatal(err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Database
	pool, err := db.New(cfg.db.addr, cfg.db.maxConns, cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	storage := store.NewStorage(pool)

	// Listing cache
	var cacheStorage cache.Storage
	if cfg.redis.enabled {
		rdb := cache.NewRedisClient(cfg.redis.addr, cfg.redis.pw, cfg.redis.db)
		defer rdb.Close()
		cacheStorage = cache.NewRedisStorage(rdb, cfg.redis.ttl)
		logger.Info("redis listing cache enabled")
	}

	// Cloudinary, avatar storage
	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		logger.Fatal(err)
	}

	// Auto-reply / acknowledgement mail
	smtp, err := mailer.NewSMTPClient(
		cfg.mail.smtp.host,
		cfg.mail.smtp.port,
		cfg.mail.smtp.username,
		cfg.mail.smtp.password,
		cfg.mail.fromEmail,
	)
	if err != nil {
		logger.Fatal(err)
	}

	// Realtime feed
	hub := realtime.NewHub(logger)
	go hub.Run()

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	// Enquiry ticket references
	hd := hashids.NewData()
	hd.Salt = envOr("HASHID_SALT", "folio")
	hd.MinLength = 8
	refEncoder, err := hashids.NewWithData(hd)
	if err != nil {
		logger.Fatal(err)
	}

	app := &application{
		config:       cfg,
		store:        storage,
		cacheStorage: cacheStorage,
		logger:       logger,
		avatars:      &cloudinaryAvatars{cld: cld},
		captcha:      newTurnstileVerifier(cfg.turnstile),
		mailer:       smtp,
		relay:        notify.NewRelayClient(cfg.relay.endpoint),
		events:       hub,
		hub:          hub,
		policy:       moderation.FromEnv(),
		rateLimiter:  rateLimiter,
		refEncoder:   refEncoder,
	}
	app.onBestEffortFailure = app.logBestEffortFailure

	//Metrics collected at /v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("realtime_clients", expvar.Func(func() any {
		return hub.ClientCount()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
