package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"leadportal/internal/leads/client"
	"leadportal/internal/leads/listing"
	"leadportal/internal/notification"
	"leadportal/internal/tui"
	"leadportal/platform/config"
	"leadportal/platform/locale"
	"leadportal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log, closeLog, err := openLog(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open log file:", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	// The dashboard asks y/n itself before dispatching a delete.
	status := &notification.Latest{}
	ctl := listing.New(client.New(cfg, log), status, listing.AlwaysConfirm, cfg.GetPageLimit(), log)

	tag := locale.Negotiate(langFromEnv(os.Getenv("LANG")))
	model := tui.New(ctx, ctl, status, tui.Options{
		PhoneRegion: cfg.GetPhoneRegion(),
		DateLayout:  locale.DateLayout(tag),
	})

	log.Info("starting dashboard", "backend", cfg.BackendURL, "limit", cfg.GetPageLimit())
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		log.Error("dashboard exited with error", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openLog writes logs to LOG_FILE, or drops them when unset.
func openLog(cfg *config.Config) (*logger.Logger, func(), error) {
	if cfg.LogFile == "" {
		return logger.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return logger.NewWithWriter(cfg.Env, f), func() { _ = f.Close() }, nil
}

// langFromEnv turns a POSIX locale such as en_GB.UTF-8 into a BCP 47 tag.
func langFromEnv(lang string) string {
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "C" || lang == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(lang, "_", "-")
}
