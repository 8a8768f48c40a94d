package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/ai"
	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/config/file"
	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/extractor"
	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/storage/memory"
	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/storage/sqlite"
	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driving/cli"
	"github.com/Vitor-VarelAI/threadsift/internal/connectors/reddit"
	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driving"
	"github.com/Vitor-VarelAI/threadsift/internal/core/services"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

// bootstrap builds every adapter and service from the stored settings.
// Parts that cannot be built (no LLM, bad Reddit credentials) are left nil
// so commands that do not need them still work.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	dir := opts.ConfigDir
	if dir == "" {
		d, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("locating config directory: %w", err)
		}
		dir = d
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	svc := &cli.Services{Settings: settingsService}
	var closers []func() error

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("loading prompts: %w", err)
	}
	watchCtx, stopWatch := context.WithCancel(ctx)
	closers = append(closers, func() error { stopWatch(); return nil })
	go func() {
		if err := prompts.Watch(watchCtx); err != nil {
			logger.Debug("prompt watcher stopped: %v", err)
		}
	}()

	aiResult := ai.Init(ctx, &settings.LLM, prompts)
	for _, w := range aiResult.Warnings {
		logger.Debug("%s", w)
	}
	closers = append(closers, func() error { aiResult.Close(); return nil })
	llm := aiResult.LLMService

	var history driven.HistoryStore = memory.NewHistoryStore()
	if settings.History.Persist {
		store, err := sqlite.NewStore(filepath.Join(dir, "data"))
		if err != nil {
			logger.Warn("History database unavailable, keeping history in memory: %v", err)
		} else {
			history = store
			closers = append(closers, store.Close)
		}
	}
	svc.History = services.NewHistoryService(history, settings.History.Limit)

	source, err := reddit.NewSource(settings.Reddit)
	if err != nil {
		logger.Warn("Reddit source unavailable: %v", err)
	} else {
		fetcher := services.NewPostFetcher(source)
		var classifier services.PostClassifier
		if llm != nil {
			classifier = services.NewIntentClassifier(llm, memory.NewClassificationCache(), prompts, settings.Classifier)
		}
		pipeline := settings.Pipeline
		svc.Pipeline = func(concurrency int, progress func(done, total int)) driving.PipelineService {
			ps := pipeline
			if concurrency > 0 {
				ps.Concurrency = concurrency
			}
			o := services.NewPipelineOrchestrator(fetcher, classifier, ps)
			if progress != nil {
				o.SetProgress(progress)
			}
			return o
		}
	}

	ext, err := extractor.New(settings.Extractor, settings.Reddit.UserAgent)
	if err != nil {
		logger.Warn("Content extractor unavailable: %v", err)
	}
	summarizer := services.NewThreadSummarizer(ext, llm, settings.Summarizer)
	summarizer.SetCallTimeout(settings.Pipeline.CallTimeout)
	svc.Summary = summarizer
	svc.Profile = services.NewProfiler(llm, prompts, settings.Classifier.MaxInputChars)

	svc.Close = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	logger.Debug("bootstrap: reddit=%s llm=%s extractor=%s history_persist=%t",
		settings.Reddit.Mode, providerName(settings.LLM.Provider), settings.Extractor.Provider, settings.History.Persist)
	return svc, nil
}

func providerName(p domain.AIProvider) string {
	if p == "" {
		return "none"
	}
	return p.String()
}
