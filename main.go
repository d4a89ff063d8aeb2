package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/verdict/cli"
	"github.com/ardnew/verdict/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// slog renders errors through their LogValue.
		log.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
