// Command enigma enciphers and deciphers text on configurable rotor machines.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/enigma/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
