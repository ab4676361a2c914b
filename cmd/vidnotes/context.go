package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vidnotes/internal/config"
	"vidnotes/internal/gemini"
	"vidnotes/internal/generator"
	"vidnotes/internal/mediajob"
	"vidnotes/internal/remote"
	"vidnotes/internal/remote/dropbox"
	"vidnotes/internal/remote/s3store"
)

// mediaBackend is the media service that also generates documents.
type mediaBackend interface {
	mediajob.Service
	generator.Model
	Close() error
}

type backends struct {
	remote func(cfg *config.Config, logger *slog.Logger) (remote.Store, error)
	media  func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (mediaBackend, error)
}

func defaultBackends() backends {
	return backends{remote: openRemote, media: openMedia}
}

func openRemote(cfg *config.Config, logger *slog.Logger) (remote.Store, error) {
	switch cfg.Remote.Backend {
	case "dropbox":
		store, err := dropbox.New(cfg.Remote.Dropbox.AccessToken, dropbox.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := s3store.New(s3store.Config{
			Endpoint:  cfg.Remote.S3.Endpoint,
			Bucket:    cfg.Remote.S3.Bucket,
			AccessKey: cfg.Remote.S3.AccessKey,
			SecretKey: cfg.Remote.S3.SecretKey,
			UseSSL:    cfg.Remote.S3.UseSSL,
			Region:    cfg.Remote.S3.Region,
		}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported remote backend %q", cfg.Remote.Backend)
	}
}

func openMedia(ctx context.Context, cfg *config.Config, logger *slog.Logger) (mediaBackend, error) {
	client, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, gemini.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return client, nil
}

type commandContext struct {
	configFlag *string
	backends   backends

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, b backends) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		backends:   b,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := config.LoadDotEnv(".env"); err != nil {
			c.configErr = err
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
