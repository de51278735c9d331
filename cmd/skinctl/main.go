package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"skincare-tracker/config"
	"skincare-tracker/internal/cli"
	"skincare-tracker/pkg/logger"
)

var CLI struct {
	Env       string `help:"Config environment (base.yaml is layered with <env>.yaml)." env:"CONFIG_ENV" default:"local"`
	ConfigDir string `help:"Directory holding the YAML config files." env:"CONFIG_DIR" default:"config" type:"path"`

	Serve   cli.ServeCmd   `cmd:"" help:"Run the HTTP API (or the worker with --worker)."`
	Migrate cli.MigrateCmd `cmd:"" help:"Apply the database schema."`
	Seed    cli.SeedCmd    `cmd:"" help:"Insert demo products, routines, tasks and reviews."`
	Token   cli.TokenCmd   `cmd:"" help:"Mint a development bearer token."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("skinctl"),
		kong.Description("Skincare tracker operator tool"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(CLI.Env, CLI.ConfigDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogger(cfg.Log)
	defer log.Sync()

	if err := ctx.Run(&cli.Context{Config: cfg, Logger: log, Out: os.Stdout}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
