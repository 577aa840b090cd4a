package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version is set via ldflags at build time: -ldflags "-X main.version=x.y.z"
var version = "dev"

// backendStrategy picks the default compression backend lookup for this
// build: "bundled" for portable builds shipping 7z next to the binary,
// "installed" otherwise. -ldflags "-X main.backendStrategy=bundled"
var backendStrategy = "installed"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
