// Command stub-server runs a local storefront API over an embedded
// product fixture, so the client can exercise a full checkout without any
// external services.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront-challenge/pkg/httpmiddleware"
)

// Config holds the stub server configuration, loadable from environment
// variables (SHOP_STUB_ prefix) or flags.
type Config struct {
	Addr            string        `default:"0.0.0.0:8080" usage:"listen address"`
	ShutdownTimeout time.Duration `default:"5s" usage:"maximum shutdown duration" flag:"shutdown-timeout"`
}

func loadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP_STUB",
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if port := os.Getenv("PORT"); port != "" && cfg.Addr == "0.0.0.0:8080" {
		cfg.Addr = "0.0.0.0:" + port
	}
	return &cfg, nil
}

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		srv, err := newServer()
		if err != nil {
			return err
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/api/product", srv.handleProducts)
		mux.HandleFunc("/api/order", srv.handleOrder)

		httpServer := &http.Server{
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       5 * time.Second,
			WriteTimeout:      10 * time.Second,
			Addr:              cfg.Addr,
			Handler: httpmiddleware.Wrap(mux,
				httpmiddleware.Recovery(),
				httpmiddleware.CORS(),
				httpmiddleware.RequestID(),
				httpmiddleware.InjectLogger(zctx.From(ctx)),
				httpmiddleware.LogRequests(),
			),
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			lg.Info("stub server listening", zap.String("addr", cfg.Addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "serve")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			lg.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
			return httpServer.Shutdown(shutdownCtx)
		})
		return g.Wait()
	})
}
