package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rangevfs/httpvfs/internal/config"
	"github.com/rangevfs/httpvfs/internal/observability"
	"github.com/rangevfs/httpvfs/pkg/httpvfs"
)

var (
	cfgFile string
	verbose bool
	offset  int64
	length  int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "httpvfs",
		Short: "httpvfs — seekable HTTP/HTTPS byte streams as a virtual filesystem",
		Long: `httpvfs exposes remote HTTP/HTTPS resources as read-only, randomly-seekable
byte streams, the way a local-file API would: query size, seek to an
arbitrary offset, and read bytes, without downloading the whole object.

This binary is a thin debugging/demo harness around the embedding API in
pkg/httpvfs — it is not a product surface in its own right.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(statCmd())
	rootCmd.AddCommand(catCmd())
	rootCmd.AddCommand(existsCmd())
	rootCmd.AddCommand(serveMetricsCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// statCmd creates the "stat" subcommand: HEAD a URI and print its size.
func statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat [uri]",
		Short: "Print the size of a remote resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()
			fsset, err := buildFileSystemSet(logger)
			if err != nil {
				return err
			}

			ctx, cancel := contextWithSignal()
			defer cancel()

			ch, err := fsset.Open(ctx, args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer ch.Close()

			size, err := ch.Size(ctx)
			if err != nil {
				return fmt.Errorf("stat %s: %w", args[0], err)
			}
			fmt.Printf("%s\t%d bytes\n", args[0], size)
			return nil
		},
	}
}

// catCmd creates the "cat" subcommand: read a byte range and write it to
// stdout.
func catCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat [uri]",
		Short: "Read a byte range from a remote resource to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()
			fsset, err := buildFileSystemSet(logger)
			if err != nil {
				return err
			}

			ctx, cancel := contextWithSignal()
			defer cancel()

			ch, err := fsset.OpenAt(ctx, args[0], offset)
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer ch.Close()

			return catRange(ctx, ch, length, os.Stdout)
		},
	}
	cmd.Flags().Int64VarP(&offset, "offset", "o", 0, "starting byte offset")
	cmd.Flags().Int64VarP(&length, "length", "n", 0, "number of bytes to read (0 = until EOF)")
	return cmd
}

func catRange(ctx context.Context, ch interface {
	Read(ctx context.Context, dst []byte) (int, error)
}, length int64, w io.Writer) error {
	buf := make([]byte, 32*1024)
	var read int64
	for length <= 0 || read < length {
		chunk := buf
		if length > 0 {
			if remaining := length - read; remaining < int64(len(chunk)) {
				chunk = buf[:remaining]
			}
		}
		n, err := ch.Read(ctx, chunk)
		if n > 0 {
			if _, werr := w.Write(chunk[:n]); werr != nil {
				return werr
			}
			read += int64(n)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// existsCmd creates the "exists" subcommand.
func existsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists [uri]",
		Short: "Probe whether a remote resource exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()
			fsset, err := buildFileSystemSet(logger)
			if err != nil {
				return err
			}

			ctx, cancel := contextWithSignal()
			defer cancel()

			exists, err := fsset.Exists(ctx, args[0])
			if err != nil {
				return fmt.Errorf("exists %s: %w", args[0], err)
			}
			fmt.Printf("%s\t%v\n", args[0], exists)
			if !exists {
				os.Exit(1)
			}
			return nil
		},
	}
}

// serveMetricsCmd creates the "serve-metrics" subcommand: start the
// Prometheus metrics endpoint and block until signaled.
func serveMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve the Prometheus metrics endpoint until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			metrics := observability.NewMetrics(logger)
			if err := metrics.StartServer(cfg.Metrics.Addr, cfg.Metrics.Path); err != nil {
				return fmt.Errorf("start metrics server: %w", err)
			}
			logger.Info("metrics server running", "addr", cfg.Metrics.Addr, "path", cfg.Metrics.Path)

			ctx, cancel := contextWithSignal()
			defer cancel()
			<-ctx.Done()
			logger.Info("received signal, shutting down")
			return nil
		},
	}
	return cmd
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("httpvfs %s\n", config.Version)
		},
	}
}

// buildFileSystemSet loads Settings via viper and constructs a
// httpvfs.FileSystemSet configured from them.
func buildFileSystemSet(logger *slog.Logger) (*httpvfs.FileSystemSet, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return httpvfs.New(httpvfs.WithLogger(logger), httpvfs.WithSettings(cfg)), nil
}

// setupLogger creates a structured logger, following the teacher's
// cmd/webstalk/main.go setupLogger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// contextWithSignal returns a context canceled on SIGINT/SIGTERM.
func contextWithSignal() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
