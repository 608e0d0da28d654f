package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/imbecility/dj-audio-gateway/pkg/api"
	"github.com/imbecility/dj-audio-gateway/pkg/config"
	"github.com/imbecility/dj-audio-gateway/pkg/gateway"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "dj-audio-gateway",
		Usage:   "Resolve URLs to playable audio and proxy the audio track of YouTube videos",
		Version: version,
		Flags:   flags(),
		Action:  run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("Server crashed", "err", err)
		os.Exit(1)
	}
}

func flags() []cli.Flag {
	d := config.Default()
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to a TOML config file", Sources: cli.EnvVars("CONFIG_FILE")},
		&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port for the HTTP server", Value: d.Port, Sources: cli.EnvVars("PORT")},
		&cli.StringFlag{Name: "api-key", Usage: "Shared secret required on /resolve (empty disables the check)", Sources: cli.EnvVars("API_KEY")},
		&cli.StringFlag{Name: "public-base-url", Usage: "Base URL used when building /stream links", Sources: cli.EnvVars("PUBLIC_BASE_URL")},
		&cli.BoolFlag{Name: "stream-auth", Usage: "Require the API key on /stream too", Sources: cli.EnvVars("STREAM_AUTH")},
		&cli.StringFlag{Name: "backend", Usage: "Media backend: youtube or providers", Value: d.Backend, Sources: cli.EnvVars("MEDIA_BACKEND")},
		&cli.StringFlag{Name: "proxy", Usage: "Upstream HTTP/SOCKS proxy URL", Sources: cli.EnvVars("UPSTREAM_PROXY")},
		&cli.DurationFlag{Name: "provider-timeout", Usage: "Max time for one provider race", Value: d.ProviderTimeout, Sources: cli.EnvVars("PROVIDER_TIMEOUT")},
		&cli.DurationFlag{Name: "upstream-timeout", Usage: "Max time for a whole upstream request (0 = none)", Sources: cli.EnvVars("UPSTREAM_TIMEOUT")},
		&cli.IntFlag{Name: "read-ahead", Usage: "Relay buffer size in bytes", Value: d.ReadAheadBytes, Sources: cli.EnvVars("READ_AHEAD_BYTES")},
		&cli.BoolFlag{Name: "web", Usage: "Serve a simple web UI on /ui", Sources: cli.EnvVars("WEB_UI")},
		&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("DEBUG")},
		&cli.StringFlag{Name: "log-format", Usage: "text, json or pretty", Value: d.LogFormat, Sources: cli.EnvVars("LOG_FORMAT")},
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	src, err := gateway.New(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	return api.NewServer(cfg, src).Start(ctx)
}

// loadConfig layers defaults, the optional TOML file, then env vars and
// flags (urfave/cli reports both as "set").
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cmd.IsSet("api-key") {
		cfg.APIKey = cmd.String("api-key")
	}
	if cmd.IsSet("public-base-url") {
		cfg.PublicBaseURL = cmd.String("public-base-url")
	}
	if cmd.IsSet("stream-auth") {
		cfg.StreamAuth = cmd.Bool("stream-auth")
	}
	if cmd.IsSet("backend") {
		cfg.Backend = cmd.String("backend")
	}
	if cmd.IsSet("proxy") {
		cfg.ProxyURL = cmd.String("proxy")
	}
	if cmd.IsSet("provider-timeout") {
		cfg.ProviderTimeout = cmd.Duration("provider-timeout")
	}
	if cmd.IsSet("upstream-timeout") {
		cfg.UpstreamTimeout = cmd.Duration("upstream-timeout")
	}
	if cmd.IsSet("read-ahead") {
		cfg.ReadAheadBytes = cmd.Int("read-ahead")
	}
	if cmd.IsSet("web") {
		cfg.WebUI = cmd.Bool("web")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("log-format") {
		cfg.LogFormat = cmd.String("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
