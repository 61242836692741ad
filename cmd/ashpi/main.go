package main

import (
	"context"
	"flag"
	"github.com/Borislavv/go-ash-pi/internal/cli"
	"github.com/rs/zerolog/log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := cli.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("parse config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = cli.Run(ctx, cfg, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
