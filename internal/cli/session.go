package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/ahluxe/internal/app"
	"github.com/roach88/ahluxe/internal/catalog"
	"github.com/roach88/ahluxe/internal/config"
	"github.com/roach88/ahluxe/internal/kv"
	"github.com/roach88/ahluxe/internal/messaging"
	"github.com/roach88/ahluxe/internal/ui"
)

// session is one opened storefront: config, store and controller. JSON mode
// records presenter output instead of printing it.
type session struct {
	ctx       context.Context
	cancel    context.CancelFunc
	formatter *OutputFormatter
	logger    *slog.Logger
	store     *kv.SQLite
	ctrl      *app.Controller

	recorder *ui.Recorder
	outbox   *messaging.Outbox
}

// Event is the JSON payload of a storefront command.
type Event struct {
	Data          any                 `json:"data,omitempty"`
	Notifications []ui.Notification   `json:"notifications,omitempty"`
	Messages      []messaging.Message `json:"messages,omitempty"`
}

func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, commandError(formatter, ErrCodeConfig, "failed to load config", err)
	}
	cfg.ApplyEnv(os.Getenv)
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if err := cfg.Validate(); err != nil {
		return nil, commandError(formatter, ErrCodeConfig, "invalid config", err)
	}

	cat := catalog.Default()
	if cfg.Catalog != "" {
		cat, err = catalog.Load(cfg.Catalog)
		if err != nil {
			return nil, commandError(formatter, ErrCodeCatalog, "failed to load catalog", err)
		}
	}
	formatter.VerboseLog("Catalog has %d product(s)", cat.Len())

	logger.Debug("opening database", "path", cfg.Database)
	st, err := kv.Open(cfg.Database, kv.WithQuota(cfg.Storage.QuotaBytes))
	if err != nil {
		return nil, commandError(formatter, ErrCodeStore, "failed to open database", err)
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)

	s := &session{
		ctx:       ctx,
		cancel:    cancel,
		formatter: formatter,
		logger:    logger,
		store:     st,
	}

	var presenter ui.Presenter = ui.Text{W: formatter.Writer}
	var sender messaging.Sender = messaging.Printer{W: formatter.Writer}
	if formatter.JSON() {
		s.recorder = &ui.Recorder{}
		s.outbox = messaging.NewOutbox()
		presenter, sender = s.recorder, s.outbox
	}

	s.ctrl = app.New(ctx, app.Options{
		Store:     st,
		Catalog:   cat,
		Presenter: presenter,
		Sender:    sender,
		Channel: messaging.Channel{
			BaseURL:   cfg.Messaging.BaseURL,
			Recipient: cfg.Messaging.Recipient,
		},
		Logger:          logger,
		SeedPolicy:      cfg.Reviews.Seed,
		ProcessingDelay: cfg.Checkout.ProcessingDelay,
		AutoOpenDelay:   cfg.Cart.AutoOpenDelay,
	})
	return s, nil
}

// Close waits for scheduled views, then releases the store.
func (s *session) Close() {
	s.ctrl.Wait()
	s.ctrl.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
	s.cancel()
}

// done reports a handled event. Text mode has already rendered through the
// presenter, so only JSON mode writes here.
func (s *session) done(data any) error {
	if !s.formatter.JSON() {
		return nil
	}
	s.ctrl.Wait()
	return s.formatter.Success(s.event(data))
}

// fail reports a rejected event and returns its ExitError.
func (s *session) fail(err error) error {
	code, exit := classify(err)
	if s.formatter.JSON() {
		_ = s.formatter.Error(code, err.Error(), s.event(nil))
	} else {
		_ = s.formatter.Error(code, err.Error(), nil)
	}
	return WrapExitError(exit, fmt.Sprintf("%s: %s", code, err.Error()), nil)
}

func (s *session) event(data any) Event {
	ev := Event{Data: data}
	if s.recorder != nil {
		ev.Notifications = s.recorder.Notified()
	}
	if s.outbox != nil {
		ev.Messages = s.outbox.Sent()
	}
	return ev
}

// commandError reports a failure to set up the storefront (exit code 2).
func commandError(formatter *OutputFormatter, code, message string, err error) error {
	_ = formatter.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), err)
}

// usageError reports a bad argument (exit code 2).
func usageError(formatter *OutputFormatter, message string) error {
	_ = formatter.Error(ErrCodeUsage, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", ErrCodeUsage, message))
}
