package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/askdoc-labs/askdoc-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/askdoc-labs/askdoc-cli/internal/adapters/driven/embedding/ollama"
	llmollama "github.com/askdoc-labs/askdoc-cli/internal/adapters/driven/llm/ollama"
	"github.com/askdoc-labs/askdoc-cli/internal/adapters/driven/vector/memory"
	"github.com/askdoc-labs/askdoc-cli/internal/adapters/driven/vector/sqlite"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc-cli/internal/core/services"
	"github.com/askdoc-labs/askdoc-cli/internal/logger"
	"github.com/askdoc-labs/askdoc-cli/internal/normalisers"
	"github.com/askdoc-labs/askdoc-cli/internal/normalisers/docx"
	"github.com/askdoc-labs/askdoc-cli/internal/normalisers/html"
	"github.com/askdoc-labs/askdoc-cli/internal/normalisers/markdown"
	"github.com/askdoc-labs/askdoc-cli/internal/normalisers/pdf"
	"github.com/askdoc-labs/askdoc-cli/internal/normalisers/plaintext"
	"github.com/askdoc-labs/askdoc-cli/internal/postprocessors"
)

// app holds the wired application, built once per process.
type app struct {
	session   *services.Session
	config    driven.ConfigStore
	prompts   *file.PromptStore
	catalog   *llmollama.Catalog
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	vectorDB  driven.VectorStore
	closeFunc func()
}

// wired is the process-wide app instance built by ensureSession.
var wired *app

// ensureSession builds the production session on first use and injects
// it as the sessionService. Tests bypass this via SetSessionService.
func ensureSession() error {
	if sessionService != nil {
		return nil
	}

	a, err := buildApp()
	if err != nil {
		return err
	}

	wired = a
	sessionService = a.session
	return nil
}

// buildApp constructs the adapters and core services.
func buildApp() (*app, error) {
	configStore, err := file.NewConfigStore(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("initialising config: %w", err)
	}

	promptDir := ""
	if flagConfigDir != "" {
		promptDir = filepath.Join(flagConfigDir, "prompts")
	}
	promptStore, err := file.NewPromptStore(promptDir)
	if err != nil {
		return nil, fmt.Errorf("initialising prompts: %w", err)
	}

	var vectorDB driven.VectorStore
	if flagEphemeral {
		vectorDB = memory.NewStore()
	} else {
		store, err := sqlite.NewStore(flagDataDir)
		if err != nil {
			return nil, fmt.Errorf("opening vector store: %w", err)
		}
		vectorDB = store
	}

	ollamaURL := flagOllamaURL
	if ollamaURL == "" {
		ollamaURL = configStore.GetString("ollama.url")
	}

	embedder := embeddingollama.NewEmbeddingService(embeddingollama.Config{
		BaseURL:           ollamaURL,
		Model:             configStore.GetString("embedding.model"),
		Dimensions:        configStore.GetInt("embedding.dimensions"),
		RequestsPerSecond: configStore.GetFloat("embedding.requests_per_second"),
	})

	llm := llmollama.NewLLMService(llmollama.LLMConfig{
		BaseURL: ollamaURL,
		Model:   configStore.GetString("llm.model"),
	})

	catalog := llmollama.NewCatalog(ollamaURL, 10*time.Second)

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	registry.Register(html.New())
	registry.Register(docx.New())
	registry.Register(pdf.New())

	chunkProcessor, err := buildChunkProcessor(configStore)
	if err != nil {
		return nil, err
	}
	pipeline := postprocessors.NewPipeline(chunkProcessor)

	expander := services.NewExpander(llm, promptStore, configStore.GetInt("expansion.variants"))
	retriever := services.NewRetriever(vectorDB, embedder, configStore.GetInt("retrieval.top_k"))
	synthesizer := services.NewSynthesizer(llm, promptStore)

	session := services.NewSession(
		registry,
		pipeline,
		embedder,
		vectorDB,
		expander,
		retriever,
		synthesizer,
		configStore,
		normalisers.DetectMIMEType,
	)

	return &app{
		session:  session,
		config:   configStore,
		prompts:  promptStore,
		catalog:  catalog,
		embedder: embedder,
		llm:      llm,
		vectorDB: vectorDB,
		closeFunc: func() {
			vectorDB.Close()
			embedder.Close()
			llm.Close()
		},
	}, nil
}

// buildChunkProcessor resolves the chunker through the processor
// registry, passing through any chunking settings from user config.
func buildChunkProcessor(config driven.ConfigStore) (driven.PostProcessor, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	cfg := make(map[string]any)
	if size := config.GetInt("chunking.chunk_size"); size > 0 {
		cfg["chunk_size"] = size
	}
	if _, ok := config.Get("chunking.overlap"); ok {
		cfg["overlap"] = config.GetInt("chunking.overlap")
	}
	if lookback := config.GetInt("chunking.lookback"); lookback > 0 {
		cfg["lookback"] = lookback
	}

	processor, err := registry.Build("chunker", cfg)
	if err != nil {
		return nil, fmt.Errorf("configuring chunker: %w", err)
	}
	return processor, nil
}

// startPromptWatcher begins hot-reloading prompt edits for a long-lived
// session. The returned stop function releases the watcher; a watcher
// that cannot start only disables hot reload, it never fails the caller.
func startPromptWatcher(ctx context.Context) func() {
	if wired == nil || wired.prompts == nil {
		return func() {}
	}

	// Materialise the prompt directory before watching it.
	if _, err := wired.prompts.Load(driven.PromptAnswer); err != nil {
		logger.Warn("Prompt hot reload disabled: %v", err)
		return func() {}
	}

	watcher, err := file.NewPromptWatcher(wired.prompts)
	if err != nil {
		logger.Warn("Prompt hot reload disabled: %v", err)
		return func() {}
	}

	go watcher.Start(ctx)
	return func() {
		if err := watcher.Close(); err != nil {
			logger.Debug("Closing prompt watcher: %v", err)
		}
	}
}

// Cleanup releases resources held by the wired app, if one was built.
func Cleanup() {
	if wired != nil && wired.closeFunc != nil {
		wired.closeFunc()
	}
}

// attachPersisted re-binds the session to a collection persisted by a
// previous process, if one exists. A stale attachment (collection gone
// or never finished) is cleared so the session starts empty.
func attachPersisted(ctx context.Context) {
	if wired == nil {
		return
	}

	collection, source := services.PersistedAttachment(wired.config)
	if collection == "" {
		return
	}

	if err := wired.session.Attach(ctx, collection, source); err != nil {
		logger.Warn("Persisted attachment %s is stale, clearing: %v", collection, err)
		services.ClearPersistedAttachment(wired.config)
	}
}
