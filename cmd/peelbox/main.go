package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/peelbox/peelbox/internal/cli"
)

// Statically-populated build metadata, set by the release build via
// -ldflags.
var date, vers, hash string

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
		<-sigs // a second interrupt is treated as an immediate kill
		os.Exit(137)
	}()

	cli.Execute(ctx, cli.RootCommandConfig{
		Name:    "peelbox",
		Version: cli.Version{Date: date, Vers: vers, Hash: hash},
	})
}
