package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/baxromumarov/resume-screener/internal/api"
	"github.com/baxromumarov/resume-screener/internal/core"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(load func() (*env, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load()
			if err != nil {
				return err
			}
			defer e.logger.Sync()
			ctx := cmd.Context()

			svc, err := e.newScreeningService(ctx)
			if err != nil {
				return err
			}

			var records api.RecordStore
			db, err := e.openStore(ctx)
			switch {
			case err != nil:
				return err
			case db == nil:
				e.logger.Info("no database configured; screenings will not be stored")
			default:
				defer db.Close()
				records = db
				if e.cfg.Database.Retention > 0 {
					core.NewRetentionService(db, e.cfg.Database.Retention, e.cfg.Database.RetentionInterval, e.logger).Start(ctx)
				}
			}

			srv := &http.Server{
				Addr:              ":" + e.cfg.Server.Port,
				Handler:           api.NewServer(svc, records, e.logger).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				e.logger.Info("starting server", zap.String("port", e.cfg.Server.Port))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			e.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newMigrateCommand(load func() (*env, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			if e.cfg.Database.URL == "" {
				return errors.New("database.url (or DATABASE_URL) is required")
			}
			db, err := e.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			e.logger.Info("migrations executed successfully")
			return nil
		},
	}
}
