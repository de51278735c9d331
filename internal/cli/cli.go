// Package cli implements the skinctl operator commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"skincare-tracker/config"
	"skincare-tracker/internal/app"
	"skincare-tracker/internal/service"
	"skincare-tracker/pkg/util"
)

type Context struct {
	Config *config.Config
	Logger *zap.Logger
	Out    io.Writer
}

type ServeCmd struct {
	Worker bool `help:"Run the activity worker instead of the API."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if c.Worker {
		return app.RunWorker(sigCtx, ctx.Config, ctx.Logger)
	}
	return app.RunAPI(sigCtx, ctx.Config, ctx.Logger)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	if ctx.Config.Store.Driver != "postgres" {
		return fmt.Errorf("migrate needs the postgres store, configured driver is %q", ctx.Config.Store.Driver)
	}
	storage, err := app.OpenStorage(context.Background(), ctx.Config, true, ctx.Logger)
	if err != nil {
		return err
	}
	storage.Close()
	fmt.Fprintln(ctx.Out, "Schema is up to date")
	return nil
}

type SeedCmd struct {
	User string `help:"Owner of the demo records." required:""`
}

func (c *SeedCmd) Run(ctx *Context) error {
	bg := context.Background()
	storage, err := app.OpenStorage(bg, ctx.Config, true, ctx.Logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	svc, err := app.NewServices(ctx.Config, storage.Stores, service.NopEmitter{}, ctx.Logger)
	if err != nil {
		return err
	}
	counts, err := app.Seed(bg, svc, c.User, ctx.Logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Seeded %d products, %d routines, %d tasks, %d reviews for %s\n",
		counts.Products, counts.Routines, counts.Tasks, counts.Reviews, c.User)
	return nil
}

type TokenCmd struct {
	User string        `help:"User id to put in the token." required:""`
	TTL  time.Duration `help:"Token lifetime." default:"24h"`
}

func (c *TokenCmd) Run(ctx *Context) error {
	token, err := util.GenerateJWT(c.User, ctx.Config.JWT.Secret, ctx.Config.JWT.Issuer, c.TTL)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Fprintln(ctx.Out, token)
	return nil
}
