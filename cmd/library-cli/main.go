// Command library-cli manages a library catalog from the terminal.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	app := NewApp()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Execute(ctx, os.Args[1:]); err != nil {
		var rejected *resultError
		if !errors.As(err, &rejected) {
			_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		}
		cancel()
		os.Exit(1)
	}
}
