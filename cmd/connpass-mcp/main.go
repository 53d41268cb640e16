package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"connpass-mcp/internal/config"
	"connpass-mcp/internal/connpass"
	"connpass-mcp/internal/logger"
	"connpass-mcp/pkg/mcp"
	"connpass-mcp/pkg/protocol"
)

var version = "dev"

func main() {
	configFile := flag.String("config", "", "Path to a YAML config file")
	envFile := flag.String("env-file", "", "Path to a .env file (existing environment variables win)")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.Options{File: *configFile, EnvFile: *envFile}, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("connpass-mcp: %v", err)
	}
}

func run(ctx context.Context, opts config.Options, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load(ctx, opts)
	if err != nil {
		return err
	}

	// stdout carries the protocol on stdio, so logs move to stderr.
	logOut, colors := io.Writer(os.Stdout), true
	if cfg.Server.Transport == config.TransportStdio {
		logOut, colors = os.Stderr, false
	}
	if err := logger.Setup(cfg.Log.Level, logOut, colors); err != nil {
		return err
	}

	client, err := connpass.NewClient(cfg.Connpass.BaseURL, cfg.Credentials(), connpass.WithTimeout(cfg.Connpass.Timeout))
	if err != nil {
		return fmt.Errorf("create connpass client: %w", err)
	}

	server := mcp.NewServer("connpass-mcp", version, protocol.ServerCapabilities{
		Tools: &protocol.ServerToolCapabilities{},
	})
	if err := server.RegisterTools(connpass.Tools(client)); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}

	if cfg.Server.Transport == config.TransportHTTP {
		return server.ListenAndServe(ctx, cfg.Server.Addr)
	}
	return server.ServeStdio(ctx, stdin, stdout)
}
