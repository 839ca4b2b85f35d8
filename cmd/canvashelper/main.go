// canvashelper serves a student's Canvas coursework as read-only MCP
// tools: upcoming deadlines, recent announcements, recently graded work,
// and composed daily/weekly summaries.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"canvashelper/internal/agg"
	"canvashelper/internal/canvas"
	"canvashelper/internal/config"
	"canvashelper/internal/mcp"
	"canvashelper/internal/tools"
)

const version = "0.1.0"

var (
	// Global flags
	configPath string
	verbose    bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "canvashelper",
	Short: "Read-only Canvas coursework tools over MCP",
	Long: `canvashelper answers questions about a student's coursework by
querying the Canvas LMS API and serving condensed, normalized views as
MCP tools: deadlines, announcements, recent grades, and summaries.

Configuration comes from a YAML file plus CANVAS_BASE_URL,
CANVAS_ACCESS_TOKEN, and CANVAS_TERM_PREFIX environment overrides
(a .env file is honored).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// buildRegistry wires config -> client -> engine -> tool registry.
func buildRegistry() (*config.Config, *tools.Registry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	client := canvas.New(cfg.Canvas.BaseURL, cfg.Canvas.AccessToken, cfg.CanvasTimeout(), logger.Named("canvas"))
	engine := agg.New(client, agg.Options{
		TermPrefix:           cfg.Canvas.TermPrefix,
		SummaryWindowHours:   cfg.Aggregation.SummaryWindowHours,
		MaxConcurrentFetches: cfg.Aggregation.MaxConcurrentFetches,
	}, logger.Named("agg"))

	registry := tools.NewRegistry()
	if err := tools.NewBinder(engine, logger.Named("tools")).RegisterAll(registry); err != nil {
		return nil, nil, err
	}
	return cfg, registry, nil
}

// serveCmd runs the MCP HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the coursework tools over MCP HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, registry, err := buildRegistry()
		if err != nil {
			return err
		}

		server := mcp.NewServer(registry, "canvashelper", version, logger.Named("mcp"))
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("mcp server listening",
				zap.String("addr", addr),
				zap.Int("tools", registry.Count()))
			errCh <- httpServer.ListenAndServe()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case sig := <-sigCh:
			logger.Info("shutting down", zap.String("signal", sig.String()))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return err
			}
		}
		return nil
	},
}

// toolsCmd prints the tool catalog.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, registry, err := buildRegistry()
		if err != nil {
			return err
		}
		for _, tool := range registry.All() {
			fmt.Printf("%-28s %-16s %s\n", tool.Name, tool.Category, tool.Description)
		}
		return nil
	},
}

// callCmd invokes one tool locally, for debugging against live Canvas.
var callCmd = &cobra.Command{
	Use:   "call <tool> [args-json]",
	Short: "Invoke one tool and print its JSON result",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, registry, err := buildRegistry()
		if err != nil {
			return err
		}

		tool := registry.Get(args[0])
		if tool == nil {
			return fmt.Errorf("%w: %s", tools.ErrToolNotFound, args[0])
		}

		toolArgs := map[string]any{}
		if len(args) == 2 {
			if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
				return fmt.Errorf("args must be a JSON object: %w", err)
			}
		}

		out, err := tool.Execute(cmd.Context(), toolArgs)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "canvashelper.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(callCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
