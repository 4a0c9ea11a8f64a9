package main

import (
	"context"
	"os"

	sdkapp "github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/xenking/storefront-challenge/internal/app"
	"github.com/xenking/storefront-challenge/internal/view/console"
)

func main() {
	sdkapp.Run(func(ctx context.Context, lg *zap.Logger, _ *sdkapp.Telemetry) error {
		cfg, err := appkg.LoadConfig()
		if err != nil {
			return err
		}

		view := console.New(os.Stdout, cfg.CDNBaseURL)
		a := appkg.New(ctx, lg, cfg, view)
		a.Start(ctx)

		return runSession(ctx, a, os.Stdin, os.Stdout)
	})
}
