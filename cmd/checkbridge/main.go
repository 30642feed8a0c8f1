// Command checkbridge serves the Gerrit checks plugin fetch endpoint,
// bridging fetch requests to the configured CI providers.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/checkbridge/internal/adapter/driven/registry"
	httphandler "github.com/ericfisherdev/checkbridge/internal/adapter/driving/http"
	"github.com/ericfisherdev/checkbridge/internal/application"
	"github.com/ericfisherdev/checkbridge/internal/config"
	"github.com/ericfisherdev/checkbridge/internal/logging"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "checkbridge",
		Short:         "Gerrit checks plugin fetch endpoint",
		Long:          "checkbridge answers checks plugin fetch requests by querying configured CI providers and normalizing their results into the checks schema.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().String("config", "", "Configuration file (default checkbridge.yaml in . or /etc/checkbridge)")
	cmd.Flags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().String("log-file", "", "Log file to use, default is stderr")
	cmd.Flags().String("bind-address", "", "Bind address")
	cmd.Flags().Int("bind-port", 0, "Bind port")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	// 1. Load configuration (flags override file and environment).
	v := config.NewViper()
	if err := bindFlags(cmd, v); err != nil {
		return err
	}
	if err := readConfigFile(cmd, v); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	// 2. Set up logging per config.
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	logger.Info().
		Str("version", version).
		Str("listen_addr", cfg.ListenAddr()).
		Strs("drivers", cfg.Drivers).
		Msg("startup")

	// 3. Build the configured drivers and wire the service and transport.
	drivers, err := registry.Build(cfg, logger)
	if err != nil {
		return err
	}
	fetchSvc := application.NewFetchService(drivers, logger)
	handler := httphandler.NewHandler(fetchSvc, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           httphandler.NewServeMux(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 4. Serve until SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	}

	// 5. Graceful shutdown with a 10s drain timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	logger.Info().Msg("shutdown complete")
	return nil
}

// bindFlags maps CLI flags onto their config keys so explicit flags win over
// the file and environment.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for flag, key := range map[string]string{
		"log-level":    "log_level",
		"log-file":     "log_file",
		"bind-address": "bind_address",
		"bind-port":    "bind_port",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %q: %w", flag, err)
		}
	}
	return nil
}

// readConfigFile points viper at the --config file when given, or at the
// default search path otherwise. A missing default file is not an error;
// a missing explicit file is.
func readConfigFile(cmd *cobra.Command, v *viper.Viper) error {
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
		return nil
	}

	v.SetConfigName("checkbridge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/checkbridge")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}
