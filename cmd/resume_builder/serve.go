package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/summarize"
	"github.com/jonathan/resume-builder/internal/wizard"
)

var (
	serveAddr string
	servePDF  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local preview server",
	Long:  `Start an HTTP server for one editing session: edits, navigation, a live preview stream, export, and summarization. A bearer token for the session is printed at startup.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default from config)")
	serveCmd.Flags().BoolVar(&servePDF, "pdf", false, "Enable PDF export (needs Chrome or Chromium)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveAddr != "" {
		a.cfg.Server.Addr = serveAddr
	}
	if a.cfg.Auth.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return err
		}
		a.cfg.Auth.JWTSecret = secret
		a.logger.Warn("no JWT secret configured; tokens are valid for this run only")
	}
	jwtConfig, err := config.NewJWTConfig(a.cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}

	manager, err := a.manager(ctx)
	if err != nil {
		return err
	}
	exporter, err := a.exporter(ctx, servePDF, a.cfg.Export.Upload)
	if err != nil {
		return err
	}
	summarizer, err := summarize.New(ctx, a.cfg.Summarize)
	if err != nil {
		return err
	}
	if c, ok := summarizer.(io.Closer); ok {
		defer c.Close()
	}

	hub := server.NewHub()
	ctrl := wizard.New(wizard.Options{Saver: manager, Logger: a.logger, OnPreview: hub.Publish})
	if err := ctrl.Start(ctx); err != nil {
		a.logger.Warn("starting with an empty document", slog.Any("error", err))
	}

	srv, err := server.New(server.Options{
		Config:      a.cfg.Server,
		JWT:         jwtConfig,
		Controller:  ctrl,
		Exporter:    exporter,
		Summarizer:  summarizer,
		Persistence: manager,
		Hub:         hub,
		Logger:      a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	token, err := srv.Token()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Session %s\nAuthorization: Bearer %s\n", srv.SessionID(), token)

	return srv.Run(ctx)
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate JWT secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
