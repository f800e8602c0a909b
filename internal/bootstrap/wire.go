package bootstrap

import (
	"go.uber.org/zap"

	"voxlate/internal/audio"
	"voxlate/internal/config"
	"voxlate/internal/ports"
	"voxlate/internal/providers/deepgram"
	"voxlate/internal/providers/openai"
	"voxlate/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Session *usecase.Session
	Config  config.Config
}

// Build wires all backend dependencies for the current runtime.
func Build(events ports.EventSink, logger *zap.Logger) (Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	session := usecase.NewSession(
		audio.NewMicrophone(cfg.Audio.CaptureCommand),
		deepgram.NewProvider(deepgram.Config{
			APIKey:      cfg.Deepgram.APIKey,
			APIBaseURL:  cfg.Deepgram.APIBaseURL,
			Model:       cfg.Deepgram.Model,
			SmartFormat: cfg.Deepgram.SmartFormat,
		}, logger),
		openai.NewTranslator(openai.TranslatorConfig{
			APIKey: cfg.OpenAI.APIKey,
			Model:  cfg.OpenAI.TranslateModel,
		}, logger),
		openai.NewSynthesizer(openai.SynthesizerConfig{
			APIKey: cfg.OpenAI.APIKey,
			Model:  cfg.OpenAI.SpeechModel,
			Voice:  cfg.OpenAI.SpeechVoice,
		}, audio.NewPlayer(cfg.Audio.PlaybackCommand), logger),
		events,
		usecase.SessionConfig{
			SourceLang: cfg.Session.SourceLang,
			TargetLang: cfg.Session.TargetLang,
			SpeechRate: cfg.Session.SpeechRate,
			Capture: usecase.CaptureConfig{
				Audio: ports.AudioConfig{
					SampleRate:  cfg.Audio.SampleRate,
					Channels:    cfg.Audio.Channels,
					InputFormat: cfg.Audio.InputFormat,
					InputDevice: cfg.Audio.InputDevice,
				},
				Stream: ports.StreamConfig{
					SampleRate:     cfg.Audio.SampleRate,
					Channels:       cfg.Audio.Channels,
					Encoding:       "linear16",
					InterimResults: true,
				},
				ChunkSize:      cfg.Session.ChunkSize,
				StreamingGrace: cfg.Session.StreamingGrace,
			},
		},
	)

	return Services{Session: session, Config: cfg}, nil
}
