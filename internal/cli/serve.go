package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/popis/internal/api"
	"github.com/erazemk/popis/internal/auth"
	"github.com/erazemk/popis/internal/db"
	"github.com/erazemk/popis/internal/inventory"
	"github.com/erazemk/popis/internal/logging"
	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Errorw("failed to open database", "driver", cfg.DBDriver, "error", err)
		return err
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		log.Errorw("failed to migrate database", "error", err)
		return err
	}
	log.Infow("database ready", "driver", database.Driver)

	st := store.New(database)

	if err := ensureAdmin(ctx, st, cfg.AdminUsername, cmd.OutOrStdout()); err != nil {
		log.Errorw("failed to create admin user", "error", err)
		return err
	}

	secret := cfg.AuthSecret
	if secret == "" {
		if secret, err = st.GetJWTSecret(ctx); err != nil {
			log.Errorw("failed to get JWT secret", "error", err)
			return err
		}
	}

	service := inventory.NewService(st,
		inventory.WithAssetTagPrefix(cfg.AssetTagPrefix),
		inventory.WithLogger(log),
	)

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.Options{
			Inventory:    service,
			Users:        st,
			Health:       st,
			Logger:       log,
			JWTSecret:    secret,
			AuthRequired: cfg.AuthRequired,
			Development:  cfg.Development(),
			CORSOrigins:  cfg.CORSOrigins,
			Version:      Version,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          zap.NewStdLog(log.Desugar()),
	}

	return serve(ctx, server, cfg.ShutdownTimeout, log, cfg.AuthRequired)
}

// serve runs server until ctx is cancelled and then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, timeout time.Duration, log *zap.SugaredLogger, authRequired bool) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		log.Errorw("failed to listen", "addr", server.Addr, "error", err)
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()
	log.Infow("server started", "addr", ln.Addr().String(), "auth_required", authRequired, "version", Version)

	select {
	case err := <-errCh:
		log.Errorw("server error", "error", err)
		return err
	case <-ctx.Done():
	}

	log.Infow("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Infow("server stopped, closing database")
	return nil
}

// adminPasswordLength is the length of the generated first-run password.
const adminPasswordLength = 16

// ensureAdmin creates the admin account when no users exist and prints its
// generated password to out. The password is not stored anywhere else.
func ensureAdmin(ctx context.Context, st *store.Store, username string, out io.Writer) error {
	n, err := st.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	password, err := auth.RandomPassword(adminPasswordLength)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := st.CreateUser(ctx, username, "Administrator", "", hash, model.RoleAdmin); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	fmt.Fprintln(out, "Admin account created:")
	fmt.Fprintf(out, "  Username: %s\n", username)
	fmt.Fprintf(out, "  Password: %s\n", password)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Save this password, it cannot be recovered.")
	fmt.Fprintln(out, "The admin can change it after logging in.")
	return nil
}
