package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/selfreview/internal/cache"
	"github.com/dshills/selfreview/internal/config"
	"github.com/dshills/selfreview/internal/gitctx"
	"github.com/dshills/selfreview/internal/output"
	"github.com/dshills/selfreview/internal/review"
	"github.com/dshills/selfreview/internal/store"
)

// session holds what a review command needs: config, the open database and
// a manager over it.
type session struct {
	cfg    config.Config
	db     *store.DB
	mgr    *review.Manager
	writer output.Writer
	logger *slog.Logger
}

// git opens the repository at path with the configured diff options.
func (s *session) git(path string) *gitctx.Repo {
	return gitctx.Open(path, gitctx.DiffOptions{ContextLines: s.cfg.ContextLines})
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagDB != "" {
		m["database"] = flagDB
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagVerbose {
		m["logLevel"] = "debug"
	}
	return m
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func openSession(cmd *cobra.Command, cfg config.Config) (*session, error) {
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	writer, err := output.GetWriter(cfg.Format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := store.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", "error", err)
		c, _ = cache.New(false, "", 0)
	}

	s := &session{cfg: cfg, db: db, writer: writer, logger: logger}
	s.mgr = review.NewManager(db, func(path string) review.Git {
		return s.git(path)
	}, review.Options{
		Include: cfg.Include,
		Exclude: cfg.Exclude,
		Cache:   c,
		Logger:  logger,
	})
	logger.Debug("session opened", "database", cfg.Database, "format", cfg.Format)

	return s, nil
}

func (s *session) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("closing database", "error", err)
	}
}

// withSession opens a session for a command and closes it afterwards.
// Configuration errors are usage errors; everything after goes through fail.
func withSession(fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		s, err := openSession(cmd, cfg)
		if err != nil {
			fail(cmd, err)
			return nil
		}
		defer s.Close()
		if err := fn(cmd, s, args); err != nil {
			fail(cmd, err)
		}
		return nil
	}
}

// absRepo resolves a --repo value to an absolute path.
func absRepo(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving repository path: %w", err)
	}
	return abs, nil
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
