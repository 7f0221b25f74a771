package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghulammurtaza27/debugmaster/internal/ai"
	"github.com/ghulammurtaza27/debugmaster/internal/assembler"
	"github.com/ghulammurtaza27/debugmaster/internal/cache"
	"github.com/ghulammurtaza27/debugmaster/internal/github"
	"github.com/ghulammurtaza27/debugmaster/internal/graph"
	"github.com/ghulammurtaza27/debugmaster/internal/ingestion"
	"github.com/ghulammurtaza27/debugmaster/internal/service"
	"github.com/ghulammurtaza27/debugmaster/internal/storage"
)

// buildService wires the full dependency graph for a command invocation.
// Optional backends (graph index, redis, openai) degrade to their null
// implementations; the relational store and source client are required.
func buildService(ctx context.Context) (*service.Service, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	index := graph.Connect(ctx, cfg.Neo4j, logger)

	var contentCache cache.ContentCache = cache.NullCache{}
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, logger)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, continuing without content cache")
		} else {
			contentCache = redisCache
		}
	}

	var mentions ai.MentionExtractor = ai.NullExtractor{}
	if cfg.OpenAI.APIKey != "" {
		mentions = ai.NewOpenAIMentionExtractor(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	}

	client := github.NewClient(cfg.GitHub.Token, cfg.GitHub.RateLimit, logger)
	graphSvc := graph.NewService(store, index, logger)
	walker := ingestion.NewWalker(client, cfg.Analysis, logger)
	analyzer := ingestion.NewAnalyzer(client, walker, graphSvc, cfg.Analysis, logger)
	asm := assembler.NewAssembler(client, graphSvc, mentions, contentCache, cfg.Context, logger)

	svc := service.New(analyzer, graphSvc, asm, client, logger)

	cleanup := func() {
		contentCache.Close()
		index.Close(context.Background())
		store.Close()
	}
	return svc, cleanup, nil
}

func openStore() (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		return storage.NewPostgresStore(cfg.Storage.PostgresDSN, logger)
	case "sqlite":
		return storage.NewSQLiteStore(cfg.Storage.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}

// parseRepoArg splits an "owner/repo" argument into a repository reference
func parseRepoArg(arg string) (github.RepositoryRef, error) {
	parts := strings.SplitN(arg, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return github.RepositoryRef{}, fmt.Errorf("expected owner/repo, got %q", arg)
	}
	return github.RepositoryRef{
		Owner: parts[0],
		Name:  parts[1],
		Ref:   cfg.GitHub.Ref,
	}, nil
}
