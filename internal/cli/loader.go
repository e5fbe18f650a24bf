package cli

import (
	"log/slog"
	"os"

	"github.com/mmcheck/mmcheck/internal/database"
)

// configureLogging sets the global slog handler per the verbose flag.
func configureLogging(opts *RootOptions) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// loadFile reads and loads a .mm database, mapping failures to exit codes.
func loadFile(path string) (*database.Database, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read database", err)
	}
	slog.Debug("loading database", "path", path, "bytes", len(src))
	db, err := database.Load(path, src)
	if err != nil {
		// Structural errors already carry file:line:col context.
		return nil, WrapExitError(ExitCommandError, "failed to load database", err)
	}
	slog.Info("database loaded", "path", path,
		"statements", len(db.Statements), "theorems", len(db.Theorems()))
	return db, nil
}
