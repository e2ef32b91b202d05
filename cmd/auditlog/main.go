// Command auditlog consumes document lifecycle events from RabbitMQ and
// appends one line per event to the audit log file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/mikey2020/docs-cabinet-cp2/internal/config"
	"github.com/mikey2020/docs-cabinet-cp2/internal/logging"
	"github.com/mikey2020/docs-cabinet-cp2/internal/queue"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var envFile, output, logLevel string

	flagSet := pflag.NewFlagSet("auditlog", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "load environment variables from this file if it exists")
	flagSet.StringVarP(&output, "output", "o", "", "audit log path (default: AUDIT_LOG_PATH)")
	flagSet.StringVar(&logLevel, "log-level", "info", "zerolog level")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	amqpCfg := config.LoadAMQPConfig()
	if amqpCfg.URL == "" {
		return errors.New("AMQP_URL (or RABBITMQ_URL) is required")
	}
	if output == "" {
		output = amqpCfg.AuditLogPath
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	w, closer, err := logging.AppendFile(output)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer closer.Close()

	log := logging.New(os.Stderr, logLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := &queue.AuditConsumer{
		URL:   amqpCfg.URL,
		Queue: amqpCfg.Queue,
		Out:   w,
		Log:   log,
	}
	log.Info().Str("queue", amqpCfg.Queue).Str("output", output).Msg("audit consumer started")
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
