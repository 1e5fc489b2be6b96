package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App       AppConfig       `toml:"app"`
	LLM       LLMConfig       `toml:"llm"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Pinecone  PineconeConfig  `toml:"pinecone"`
	Assistant AssistantConfig `toml:"assistant"`
	TTS       TTSConfig       `toml:"tts"`
	Session   SessionConfig   `toml:"session"`
	Redis     RedisConfig     `toml:"redis"`
	Audio     AudioConfig     `toml:"audio"`
	Upload    UploadConfig    `toml:"upload"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
	// BaseURL is the externally visible origin used when building audio URLs.
	BaseURL string `toml:"base_url"`
}

type LLMConfig struct {
	BaseURL         string `toml:"base_url"`
	APIKey          string `toml:"api_key"`
	Model           string `toml:"model"`
	TranscribeModel string `toml:"transcribe_model"`
}

type EmbeddingConfig struct {
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
	BatchSize  int    `toml:"batch_size"`
}

type PineconeConfig struct {
	IndexHost string `toml:"index_host"`
	APIKey    string `toml:"api_key"`
	TopK      int    `toml:"top_k"`
}

type AssistantConfig struct {
	BaseURL             string `toml:"base_url"`
	APIKey              string `toml:"api_key"`
	LLMProvider         string `toml:"llm_provider"`
	Model               string `toml:"model"`
	IndexTimeoutSeconds int    `toml:"index_timeout_seconds"`
}

type TTSConfig struct {
	BaseURL      string `toml:"base_url"`
	APIKey       string `toml:"api_key"`
	VoiceID      string `toml:"voice_id"`
	ModelID      string `toml:"model_id"`
	OutputFormat string `toml:"output_format"`
}

type SessionConfig struct {
	// Store selects the session registry backend: "memory" or "redis".
	Store string `toml:"store"`
}

type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

type AudioConfig struct {
	Dir string `toml:"dir"`
}

type UploadConfig struct {
	MaxUploadMB int    `toml:"max_upload_mb"`
	TmpDir      string `toml:"tmp_dir"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) PublicBaseURL() string {
	if c.App.BaseURL != "" {
		return c.App.BaseURL
	}
	return fmt.Sprintf("http://localhost:%d", c.App.Port)
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxUploadMB) << 20
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "lectern",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
		},
		LLM: LLMConfig{
			BaseURL:         "https://api.openai.com/v1",
			Model:           "gpt-4o",
			TranscribeModel: "whisper-1",
		},
		Embedding: EmbeddingConfig{
			Model:      "text-embedding-3-large",
			Dimensions: 1024,
			BatchSize:  100,
		},
		Pinecone: PineconeConfig{
			TopK: 5,
		},
		Assistant: AssistantConfig{
			BaseURL:             "https://app.backboard.io/api",
			LLMProvider:         "openai",
			Model:               "gpt-4o",
			IndexTimeoutSeconds: 120,
		},
		TTS: TTSConfig{
			BaseURL:      "https://api.elevenlabs.io",
			VoiceID:      "JBFqnCBsd6RMkjVDRZzb",
			ModelID:      "eleven_multilingual_v2",
			OutputFormat: "mp3_44100_128",
		},
		Session: SessionConfig{
			Store: "memory",
		},
		Redis: RedisConfig{
			Addr:       "127.0.0.1:6379",
			Password:   "",
			DB:         0,
			TTLSeconds: 0, // 0 = no expiry
		},
		Audio: AudioConfig{
			Dir: "static/audio",
		},
		Upload: UploadConfig{
			MaxUploadMB: 50,
			TmpDir:      "", // empty = os.TempDir()
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.BaseURL = getEnv("APP_BASE_URL", cfg.App.BaseURL)

	cfg.LLM.BaseURL = getEnv("OPENAI_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("OPENAI_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("OPENAI_MODEL", cfg.LLM.Model)
	cfg.LLM.TranscribeModel = getEnv("OPENAI_MODEL_TRANSCRIBE", cfg.LLM.TranscribeModel)

	cfg.Embedding.Model = getEnv("EMBEDDING_MODEL", cfg.Embedding.Model)
	cfg.Embedding.Dimensions = getEnvAsInt("EMBEDDING_DIMENSIONS", cfg.Embedding.Dimensions)
	cfg.Embedding.BatchSize = getEnvAsInt("EMBEDDING_BATCH_SIZE", cfg.Embedding.BatchSize)

	cfg.Pinecone.IndexHost = getEnv("PINECONE_INDEX_HOST", cfg.Pinecone.IndexHost)
	cfg.Pinecone.APIKey = getEnv("PINECONE_API_KEY", cfg.Pinecone.APIKey)
	cfg.Pinecone.TopK = getEnvAsInt("PINECONE_TOP_K", cfg.Pinecone.TopK)

	cfg.Assistant.BaseURL = getEnv("BACKBOARD_BASE_URL", cfg.Assistant.BaseURL)
	cfg.Assistant.APIKey = getEnv("BACKBOARD_API_KEY", cfg.Assistant.APIKey)
	cfg.Assistant.LLMProvider = getEnv("BACKBOARD_LLM_PROVIDER", cfg.Assistant.LLMProvider)
	cfg.Assistant.Model = getEnv("BACKBOARD_MODEL", cfg.Assistant.Model)
	cfg.Assistant.IndexTimeoutSeconds = getEnvAsInt("BACKBOARD_INDEX_TIMEOUT_SECONDS", cfg.Assistant.IndexTimeoutSeconds)

	cfg.TTS.BaseURL = getEnv("ELEVEN_BASE_URL", cfg.TTS.BaseURL)
	cfg.TTS.APIKey = getEnv("ELEVEN_API_KEY", cfg.TTS.APIKey)
	cfg.TTS.VoiceID = getEnv("ELEVEN_VOICE_ID", cfg.TTS.VoiceID)
	cfg.TTS.ModelID = getEnv("ELEVEN_MODEL_ID", cfg.TTS.ModelID)
	cfg.TTS.OutputFormat = getEnv("ELEVEN_OUTPUT_FORMAT", cfg.TTS.OutputFormat)

	cfg.Session.Store = getEnv("SESSION_STORE", cfg.Session.Store)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.TTLSeconds = getEnvAsInt("REDIS_SESSION_TTL_SECONDS", cfg.Redis.TTLSeconds)

	cfg.Audio.Dir = getEnv("AUDIO_DIR", cfg.Audio.Dir)

	cfg.Upload.MaxUploadMB = getEnvAsInt("MAX_UPLOAD_MB", cfg.Upload.MaxUploadMB)
	cfg.Upload.TmpDir = getEnv("UPLOAD_TMP_DIR", cfg.Upload.TmpDir)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
