package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/docsum/internal/domain/auth"
	"github.com/yanqian/docsum/internal/domain/documents"
	"github.com/yanqian/docsum/internal/domain/summarizer"
	"github.com/yanqian/docsum/internal/infra/config"
	"github.com/yanqian/docsum/internal/infra/extract"
	"github.com/yanqian/docsum/internal/infra/inbox"
	"github.com/yanqian/docsum/internal/infra/language"
	"github.com/yanqian/docsum/internal/infra/queue"
	"github.com/yanqian/docsum/internal/infra/repo"
	"github.com/yanqian/docsum/internal/infra/storage"
)

type repositories struct {
	docs    documents.DocumentRepository
	records documents.RecordRepository
}

func provideSummaryConfig(cfg *config.Config) (summarizer.Config, error) {
	stop := summarizer.DefaultStopWords()
	if path := strings.TrimSpace(cfg.Summary.StopWordsFile); path != "" {
		loaded, err := loadStopWordsFile(path)
		if err != nil {
			return summarizer.Config{}, err
		}
		stop = loaded
	}
	stop = stop.Merge(summarizer.NewStopWords(cfg.Summary.ExtraStopWords...))

	perLanguage := make(map[string]summarizer.StopWords, len(cfg.Summary.LanguageStopWords))
	for lang, path := range cfg.Summary.LanguageStopWords {
		loaded, err := loadStopWordsFile(path)
		if err != nil {
			return summarizer.Config{}, err
		}
		perLanguage[strings.ToLower(lang)] = loaded
	}

	return summarizer.Config{
		DefaultSentences:  cfg.Summary.NumSentences,
		MaxSentences:      cfg.Summary.MaxSentences,
		MaxKeywords:       cfg.Summary.MaxKeywords,
		Budget:            cfg.Summary.Budget,
		StopWords:         stop,
		LanguageStopWords: perLanguage,
		DetectLanguage:    cfg.Summary.DetectLanguage,
	}, nil
}

func loadStopWordsFile(path string) (summarizer.StopWords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stop words %s: %w", path, err)
	}
	defer f.Close()
	return summarizer.LoadStopWords(f)
}

// provideLanguageDetector returns a nil interface when detection is off so the
// service skips it.
func provideLanguageDetector(cfg *config.Config, logger *slog.Logger) summarizer.LanguageDetector {
	if !cfg.Summary.DetectLanguage {
		return nil
	}
	detector, err := language.NewDetector(cfg.Summary.Languages)
	if err != nil {
		logger.Error("language detector unavailable, detection disabled", "error", err)
		return nil
	}
	logger.Info("language detection enabled", "languages", detector.Languages())
	return detector
}

func provideRepositories(cfg *config.Config, logger *slog.Logger) (repositories, func(), error) {
	memory := repositories{docs: repo.NewMemoryDocumentRepository(), records: repo.NewMemoryRecordRepository()}
	noop := func() {}

	switch cfg.Database.Driver {
	case "postgres":
		pool, err := openPostgres(cfg, logger)
		if err != nil {
			logger.Error("postgres unavailable, using memory repositories", "error", err)
			return memory, noop, nil
		}
		logger.Info("postgres repositories enabled")
		return repositories{
			docs:    repo.NewPostgresDocumentRepository(pool),
			records: repo.NewPostgresRecordRepository(pool),
		}, pool.Close, nil
	case "sqlite":
		db, err := repo.OpenSQLite(cfg.Database.SQLitePath)
		if err != nil {
			return repositories{}, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.EnsureSQLiteSchema(ctx, db); err != nil {
			db.Close()
			return repositories{}, nil, err
		}
		logger.Info("sqlite repositories enabled", "path", cfg.Database.SQLitePath)
		return repositories{
			docs:    repo.NewSQLiteDocumentRepository(db),
			records: repo.NewSQLiteRecordRepository(db),
		}, func() { db.Close() }, nil
	default:
		logger.Info("using memory repositories")
		return memory, noop, nil
	}
}

func openPostgres(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.Database.DSN))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Database.MaxConns
	}
	if cfg.Database.MinConns > 0 {
		poolConfig.MinConns = cfg.Database.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := repo.EnsurePostgresSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Debug("postgres schema ensured")
	return pool, nil
}

func provideDocumentRepository(r repositories) documents.DocumentRepository {
	return r.docs
}

func provideRecordRepository(r repositories) documents.RecordRepository {
	return r.records
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) (documents.ObjectStorage, error) {
	switch cfg.Storage.Driver {
	case "r2":
		r2cfg := cfg.Storage.R2
		store, err := storage.NewR2Storage(storage.R2Config{
			Endpoint:  r2cfg.Endpoint,
			AccessKey: r2cfg.AccessKey,
			SecretKey: r2cfg.SecretKey,
			Bucket:    r2cfg.Bucket,
			Region:    r2cfg.Region,
		}, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("r2 storage enabled", "bucket", r2cfg.Bucket)
		return store, nil
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		store, err := storage.NewLocalStorage(cfg.Upload.Folder)
		if err != nil {
			return nil, err
		}
		logger.Info("local storage enabled", "folder", cfg.Upload.Folder)
		return store, nil
	}
}

func provideJobQueue(cfg *config.Config, logger *slog.Logger) (queue.HandlerQueue, func(), error) {
	if cfg.Queue.Driver == "valkey" {
		opt, err := buildValkeyOptions(cfg.Queue.ValkeyAddr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to immediate queue", "error", err)
			return immediateQueue()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to immediate queue", "error", err)
			return immediateQueue()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to immediate queue", "error", err)
			client.Close()
			return immediateQueue()
		}
		logger.Info("valkey job queue enabled", "addr", cfg.Queue.ValkeyAddr, "key", cfg.Queue.Key)
		q := queue.NewValkeyQueue(client, cfg.Queue.Key, logger)
		return q, func() {
			_ = q.Close()
			client.Close()
		}, nil
	}
	return immediateQueue()
}

func immediateQueue() (queue.HandlerQueue, func(), error) {
	q := queue.NewImmediateQueue(nil)
	return q, func() { _ = q.Close() }, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideExtractor() *extract.Registry {
	return extract.NewDefaultRegistry(nil)
}

func provideDocumentsConfig(cfg *config.Config) documents.Config {
	return documents.Config{
		MaxFileBytes:      cfg.HTTP.MaxUploadBytes,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		MaxPreviewChars:   cfg.Summary.MaxPreviewChars,
		DefaultListLimit:  cfg.Summary.DefaultListLimit,
	}
}

// provideDocumentService builds the service and registers it as the queue's
// job handler.
func provideDocumentService(
	cfg documents.Config,
	docs documents.DocumentRepository,
	records documents.RecordRepository,
	store documents.ObjectStorage,
	extractor documents.Extractor,
	summarySvc summarizer.Service,
	jobs queue.HandlerQueue,
	logger *slog.Logger,
) *documents.Service {
	svc := documents.NewService(cfg, docs, records, store, extractor, summarySvc, jobs, logger)
	jobs.SetHandler(svc.HandleJob)
	return svc
}

func provideAuthService(cfg *config.Config, logger *slog.Logger) (auth.Service, error) {
	if !cfg.Auth.Enabled {
		return nil, nil
	}
	return auth.NewService(auth.Config{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		TokenTTL: cfg.Auth.TokenTTL,
	}, logger)
}

func provideInboxWatcher(cfg *config.Config, svc *documents.Service, logger *slog.Logger) (*inbox.Watcher, error) {
	if !cfg.Inbox.Enabled {
		return nil, nil
	}
	return inbox.NewWatcher(inbox.Config{
		Dir:          cfg.Inbox.Dir,
		NumSentences: cfg.Inbox.NumSentences,
		Debounce:     cfg.Inbox.Debounce,
	}, svc, logger)
}
