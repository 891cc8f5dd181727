// Package main is the entry point for the movies-api service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"movies-api/internal/app/service"
	"movies-api/internal/config"
	"movies-api/internal/domain"
	"movies-api/internal/infra/elastic"
	"movies-api/internal/infra/memory"
	rediscache "movies-api/internal/infra/redis"
	"movies-api/internal/job"
	"movies-api/internal/logger"
	"movies-api/internal/metrics"
	"movies-api/internal/transport/httpserver"
	"movies-api/internal/transport/httpserver/middleware"
	"movies-api/internal/validator"
	"movies-api/pkg/locker"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(
		logger.Config{
			Service: cfg.App.Name,
			Level:   cfg.Logger.Level,
			Format:  cfg.Logger.Format,
			Output:  cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting movies-api",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	backends := map[string]middleware.Pinger{}

	// Elasticsearch
	es := elastic.New(
		elastic.ClientConfig{
			BaseURL:  cfg.Elastic.BaseURL,
			Username: cfg.Elastic.Username,
			Password: cfg.Elastic.Password,
			Timeout:  cfg.Elastic.Timeout,
			Retry: elastic.RetryConfig{
				MaxAttempts: cfg.Elastic.Retry.MaxAttempts,
				WaitTime:    cfg.Elastic.Retry.WaitTime,
				MaxWaitTime: cfg.Elastic.Retry.MaxWaitTime,
			},
			CB: elastic.CBConfig{
				MaxRequests:  cfg.Elastic.CB.MaxRequests,
				Interval:     cfg.Elastic.CB.Interval,
				Timeout:      cfg.Elastic.CB.Timeout,
				FailureRatio: cfg.Elastic.CB.FailureRatio,
			},
		},
		log.Logger,
	)
	backends["elasticsearch"] = es

	filmIndex := elastic.NewIndex[domain.Film](es, elastic.IndexConfig{
		Name: cfg.Elastic.Indices.Films, TextField: "title", CategoryPath: "genres",
	})
	genreIndex := elastic.NewIndex[domain.Genre](es, elastic.IndexConfig{
		Name: cfg.Elastic.Indices.Genres, TextField: "name",
	})
	personIndex := elastic.NewIndex[domain.Person](es, elastic.IndexConfig{
		Name: cfg.Elastic.Indices.Persons, TextField: "full_name",
	})

	// Redis backs the cache (redis driver) and the warm-up lock.
	var redisClient *redis.Client
	if (cfg.Cache.Enabled && cfg.Cache.Driver == config.CacheDriverRedis) || cfg.Warmup.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		defer func() { _ = redisClient.Close() }()

		// Not fatal: the read path degrades to search-only while Redis is down.
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis not reachable at startup", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		} else {
			log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	var cache domain.Cache
	switch {
	case !cfg.Cache.Enabled:
		log.Info("cache disabled")
	case cfg.Cache.Driver == config.CacheDriverMemory:
		mem, err := memory.NewCache(memory.Config{
			Capacity:           cfg.Cache.Memory.Capacity,
			NumShards:          cfg.Cache.Memory.NumShards,
			TTL:                cfg.Cache.TTL,
			EvictionPercentage: cfg.Cache.Memory.EvictionPercentage,
		}, log.Logger)
		if err != nil {
			log.Fatal("failed to create memory cache", zap.Error(err))
		}
		cache = mem
	default:
		redisCache := rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		backends["redis"] = redisCache
		cache = redisCache
	}
	if cache != nil {
		log.Info("cache enabled",
			zap.String("driver", cfg.Cache.Driver),
			zap.Duration("ttl", cfg.Cache.TTL),
		)
	}

	cacheOpts := service.CacheOptions{TTL: cfg.Cache.TTL, WriteTimeout: cfg.Cache.WriteTimeout}
	filmsRT := service.NewReadThrough[domain.Film]("film", filmIndex, cache, cacheOpts, m, log.Logger)
	genresRT := service.NewReadThrough[domain.Genre]("genre", genreIndex, cache, cacheOpts, m, log.Logger)
	personsRT := service.NewReadThrough[domain.Person]("person", personIndex, cache, cacheOpts, m, log.Logger)

	filmSvc := service.NewFilmService(filmsRT, log.Logger)
	genreSvc := service.NewGenreService(genresRT, log.Logger)
	personSvc := service.NewPersonService(personsRT, filmsRT, log.Logger)

	warmer := service.NewCacheWarmer([]service.WarmTarget{
		service.FilmListingTarget(filmsRT, cfg.Warmup.PageSize),
		service.GenreListingTarget(genresRT, cfg.Warmup.PageSize),
	}, log.Logger)

	svcs := httpserver.Services{Films: filmSvc, Genres: genreSvc, Persons: personSvc}
	if cache != nil {
		svcs.Warmer = warmer
	}

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:           cfg.App.Port,
			RequestTimeout: cfg.Elastic.Timeout * 2,
		},
		svcs,
		backends,
		reg,
		m,
		validator.New(),
		log.Logger,
	)

	var scheduler *job.WarmupScheduler
	if cfg.Warmup.Enabled && cache != nil {
		scheduler = job.NewWarmupScheduler(
			warmer,
			job.WarmupConfig{
				Interval: cfg.Warmup.Interval,
				Timeout:  cfg.Warmup.Timeout,
			},
			log.Logger,
			locker.NewRedisLocker(redisClient, cfg.Cache.KeyPrefix, log.Logger),
		)
		scheduler.Start()
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		if err := server.Shutdown(cfg.App.ShutdownTimeout); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}

	// Let background cache writes land before closing Redis.
	filmSvc.Wait()
	genreSvc.Wait()
	personSvc.Wait()

	log.Info("movies-api stopped")
}
