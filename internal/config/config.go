package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Config stores runtime configuration for one session.
type Config struct {
	Session  SessionConfig
	Deepgram DeepgramConfig
	OpenAI   OpenAIConfig
	Audio    AudioConfig
}

type SessionConfig struct {
	SourceLang     string
	TargetLang     string
	ChunkSize      int
	StreamingGrace time.Duration
	SpeechRate     float64
}

type DeepgramConfig struct {
	APIKey      string
	APIBaseURL  string
	Model       string
	SmartFormat bool
}

type OpenAIConfig struct {
	APIKey         string
	TranslateModel string
	SpeechModel    string
	SpeechVoice    string
}

type AudioConfig struct {
	CaptureCommand  string
	PlaybackCommand string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
}

// Load resolves configuration from environment variables and defaults.
// Language tags are normalized through BCP 47 parsing; source and
// target are independent and may be equal.
func Load() (Config, error) {
	sourceLang, err := normalizeLang(os.Getenv("VOXLATE_SOURCE_LANG"), "en")
	if err != nil {
		return Config{}, err
	}
	targetLang, err := normalizeLang(os.Getenv("VOXLATE_TARGET_LANG"), "es")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Session: SessionConfig{
			SourceLang:     sourceLang,
			TargetLang:     targetLang,
			ChunkSize:      envOrDefaultInt("VOXLATE_AUDIO_CHUNK_SIZE", 4096),
			StreamingGrace: time.Duration(envOrDefaultInt("VOXLATE_STREAMING_GRACE_MS", 1000)) * time.Millisecond,
			SpeechRate:     envOrDefaultFloat("VOXLATE_SPEECH_RATE", 0.85),
		},
		Deepgram: DeepgramConfig{
			APIKey:      strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")),
			APIBaseURL:  envOrDefault("DEEPGRAM_API_BASE", "https://api.deepgram.com/v1"),
			Model:       envOrDefault("DEEPGRAM_MODEL", "nova-2"),
			SmartFormat: envOrDefaultBool("DEEPGRAM_SMART_FORMAT", true),
		},
		OpenAI: OpenAIConfig{
			APIKey:         strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			TranslateModel: envOrDefault("VOXLATE_TRANSLATE_MODEL", "gpt-4o-mini"),
			SpeechModel:    envOrDefault("VOXLATE_SPEECH_MODEL", "tts-1"),
			SpeechVoice:    envOrDefault("VOXLATE_SPEECH_VOICE", "alloy"),
		},
		Audio: AudioConfig{
			CaptureCommand:  envOrDefault("VOXLATE_FFMPEG_COMMAND", "ffmpeg"),
			PlaybackCommand: envOrDefault("VOXLATE_FFPLAY_COMMAND", "ffplay"),
			InputFormat:     envOrDefault("VOXLATE_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice:     envOrDefault("VOXLATE_AUDIO_INPUT_DEVICE", "default"),
			SampleRate:      envOrDefaultInt("VOXLATE_SAMPLE_RATE", 16000),
			Channels:        envOrDefaultInt("VOXLATE_CHANNELS", 1),
		},
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Session.ChunkSize < 256 {
		cfg.Session.ChunkSize = 4096
	}
	if cfg.Session.StreamingGrace < 0 {
		cfg.Session.StreamingGrace = time.Second
	}
	if cfg.Session.SpeechRate <= 0 || cfg.Session.SpeechRate > 4 {
		cfg.Session.SpeechRate = 0.85
	}

	return cfg, nil
}

func normalizeLang(value string, fallback string) (string, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		raw = fallback
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid language tag %q: %w", raw, err)
	}
	return tag.String(), nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
