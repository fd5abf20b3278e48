// Command journal is the operator CLI: migrations, sign-in tokens, reports
// and maintenance.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/templui/golfjournal/internal/config"
	"github.com/templui/golfjournal/internal/logger"
)

func main() {
	cfg := config.Load()
	// stdout carries command output
	slog.SetDefault(logger.New(os.Stderr, cfg.IsDevelopment(), ""))

	err := newCLI(cfg, os.Stdout).Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
