package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"whattocook/internal/api"
	"whattocook/internal/config"
	"whattocook/internal/platform/spoonacular"
	"whattocook/internal/recipe"
	"whattocook/internal/thumbnail"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "whattocook",
	Short:        "Find recipes for the ingredients you have",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to a JSON or YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.KeyFunc()() == "" {
		log.Warnf("%s is not set; recipe lookups will fail until it is", config.EnvAPIKey)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", cfg.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// newLogger builds the application logger from the configured level and format.
func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

func newFinder(cfg *config.Config) *recipe.Finder {
	client := spoonacular.NewClient(
		spoonacular.WithBaseURL(cfg.SpoonacularBaseURL),
		spoonacular.WithTimeout(cfg.UpstreamTimeout()),
	)
	return recipe.NewFinder(client, cfg.KeyFunc(), recipe.SearchOptions{
		Number:       cfg.ResultCount,
		Ranking:      cfg.Ranking,
		IgnorePantry: cfg.IgnorePantry,
	})
}

func newRouter(cfg *config.Config, log *logrus.Logger) *gin.Engine {
	resizer := thumbnail.NewResizer(cfg.ImageHosts, cfg.UpstreamTimeout())
	handler := api.NewHandler(newFinder(cfg), resizer)
	return api.NewRouter(handler, log, cfg.CORSAllowedOrigins)
}
