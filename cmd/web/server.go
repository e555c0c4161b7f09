package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	mw "github.com/openshelf/elibrary/internal/api/middlewares"
	"github.com/openshelf/elibrary/internal/api/render"
	"github.com/openshelf/elibrary/internal/api/router"
	"github.com/openshelf/elibrary/internal/auth"
	"github.com/openshelf/elibrary/internal/catalog"
	"github.com/openshelf/elibrary/internal/logger"
	"github.com/openshelf/elibrary/internal/migrations"
	"github.com/openshelf/elibrary/internal/repository/sqlconnect"
	"github.com/openshelf/elibrary/internal/session"
	storage "github.com/openshelf/elibrary/internal/storage/s3"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	defer log.Sync()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	db, err := sqlconnect.Open(context.Background())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Up(db, log); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	rdb, err := connectRedis()
	if err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	log.Info("connected to redis")

	docs, err := storage.NewClient(context.Background())
	if err != nil {
		log.Fatal("object storage init failed", zap.Error(err))
	}

	renderer, err := render.New(log)
	if err != nil {
		log.Fatal("template parsing failed", zap.Error(err))
	}

	sessions := session.NewManager(rdb)
	authH := auth.New(auth.NewSQLStore(db), sessions, renderer, log)
	cat := catalog.New(db, docs, renderer, log)

	handler := mw.Apply(
		router.New(authH, cat),
		mw.RequestID,
		mw.Recovery(log),
		mw.RequestLogger(log),
		mw.SecurityHeaders,
		mw.BodySizeLimit,
		func(next http.Handler) http.Handler { return mw.LoadSession(sessions, next) },
		mw.CSRF,
	)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	cert := os.Getenv("TLS_CERT")
	key := os.Getenv("TLS_KEY")

	log.Info("server starting", zap.String("addr", addr), zap.Bool("tls", cert != ""))
	if cert != "" && key != "" {
		server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// connectRedis accepts either a full REDIS_URL or split REDIS_ADDR /
// REDIS_USER / REDIS_PASSWORD fields, and fails fast when unreachable.
func connectRedis() (*redis.Client, error) {
	var rdb *redis.Client

	if url := os.Getenv("REDIS_URL"); url != "" {
		opt, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		rdb = redis.NewClient(opt)
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:         envOr("REDIS_ADDR", "localhost:6379"),
			Username:     os.Getenv("REDIS_USER"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           0,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
	}

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
