package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lectern/internal/ai"
	appsvc "lectern/internal/app"
	"lectern/internal/audio"
	"lectern/internal/config"
	"lectern/internal/ingest"
	"lectern/internal/platform/pinecone"
	redisClient "lectern/internal/platform/redis"
	"lectern/internal/session"
)

// App wires configuration, external clients and the service layer together.
type App struct {
	Config     *config.Config
	Redis      *redis.Client // nil when the memory store is selected
	Sessions   session.Store
	AudioCache *audio.Cache

	Ingest     *appsvc.IngestService
	Lectures   *appsvc.LectureService
	Speech     *appsvc.SpeechService
	QA         *appsvc.QAService
	SessionOps *appsvc.SessionService

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig builds the app from an already loaded configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	var (
		redisCli *redis.Client
		store    session.Store
		err      error
	)
	switch cfg.Session.Store {
	case "", "memory":
		store = session.NewMemoryStore()
	case "redis":
		redisCli, err = redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		store = session.NewRedisStore(redisCli, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}

	audioCache, err := audio.NewCache(cfg.Audio.Dir)
	if err != nil {
		return nil, err
	}

	llm := ai.NewOpenAICompatibleClient()
	assistant := ai.NewAssistantClient()
	tts := ai.NewElevenLabsClient()
	vectors := pinecone.NewClient(pinecone.Config{
		IndexHost: cfg.Pinecone.IndexHost,
		APIKey:    cfg.Pinecone.APIKey,
	})

	chatCfg := ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	}
	embCfg := ai.EmbeddingConfig{
		BaseURL:    cfg.LLM.BaseURL,
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	}
	transcribeCfg := ai.TranscribeConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.TranscribeModel,
	}
	asstCfg := ai.AssistantConfig{
		BaseURL:      cfg.Assistant.BaseURL,
		APIKey:       cfg.Assistant.APIKey,
		LLMProvider:  cfg.Assistant.LLMProvider,
		Model:        cfg.Assistant.Model,
		IndexTimeout: time.Duration(cfg.Assistant.IndexTimeoutSeconds) * time.Second,
	}
	ttsCfg := ai.TTSConfig{
		BaseURL:      cfg.TTS.BaseURL,
		APIKey:       cfg.TTS.APIKey,
		VoiceID:      cfg.TTS.VoiceID,
		ModelID:      cfg.TTS.ModelID,
		OutputFormat: cfg.TTS.OutputFormat,
	}

	loader := ingest.NewLoader(ingest.DefaultChunkSize, ingest.DefaultChunkOverlap)
	speech := appsvc.NewSpeechService(tts, ttsCfg, llm, transcribeCfg, audioCache, cfg.PublicBaseURL())

	return &App{
		Config:     cfg,
		Redis:      redisCli,
		Sessions:   store,
		AudioCache: audioCache,
		Ingest:     appsvc.NewIngestService(store, loader, llm, embCfg, vectors, assistant, asstCfg, cfg.Embedding.BatchSize),
		Lectures:   appsvc.NewLectureService(store, llm, chatCfg, embCfg, vectors, cfg.Pinecone.TopK),
		Speech:     speech,
		QA:         appsvc.NewQAService(store, assistant, asstCfg, speech),
		SessionOps: appsvc.NewSessionService(store, vectors),
		StartedAt:  time.Now(),
	}, nil
}

func (a *App) Close() error {
	if a.Redis != nil {
		return a.Redis.Close()
	}
	return nil
}
