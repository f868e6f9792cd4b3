// surveygen-mcp serves the survey generation tools over MCP stdio.
//
// Usage:
//
//	surveygen-mcp             # serve on stdin/stdout
//	surveygen-mcp --version
//
// Configuration comes from the environment (and .env) exactly as for the
// HTTP server. Logs go to stderr so they never mix with the protocol stream.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"surveygen/internal/config"
	"surveygen/internal/container"
	"surveygen/internal/mcptools"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("surveygen-mcp v%s\n", mcptools.Version)
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown argument: %s\n", os.Args[1])
			os.Exit(1)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating container: %w", err)
	}
	defer c.Shutdown()

	s := mcptools.NewServer(mcptools.Version, c.Orchestrator, c.Frontend, c.Templates)
	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("serving stdio: %w", err)
	}
	return nil
}
