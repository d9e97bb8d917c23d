package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ankproject/ank-api/app/auth"
	"github.com/ankproject/ank-api/apps/ankapi"
	"github.com/ankproject/ank-api/internal/monitor"
	"github.com/ankproject/ank-api/pkg/configng"
	"github.com/ankproject/ank-api/pkg/logging"
	"github.com/ankproject/ank-api/pkg/logging/zapadapter"
	"github.com/ankproject/ank-api/pkg/objstore"
	"github.com/ankproject/ank-api/version"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
)

var cli struct {
	Serve      struct{} `cmd:"" help:"Start account provisioning service"`
	Version    struct{} `cmd:"" help:"Print version and exit"`
	Debug      bool     `help:"Enable verbose logging"`
	ConfigPath string   `help:"Directory containing ankapi.yml" default:"./config"`
}

func main() {
	ctx := kong.Parse(&cli, kong.Name("ankapi"), kong.Description("Account provisioning API"))

	opts := logging.NewLoggingOpts(logging.LevelInfo, logging.FormatJSON)
	if cli.Debug {
		opts = logging.NewLoggingOpts(logging.LevelDebug, logging.FormatConsole)
	}
	logger := zapadapter.NewNamedKV("ankapi", opts)

	switch ctx.Command() {
	case "serve":
		serve(logger)
	case "version":
		fmt.Println(version.GetFullBuildName())
	default:
		logger.Fatal("unknown command", "name", ctx.Command())
	}
}

func readConfig(logger logging.KVLogger) *configng.Config {
	cfg, err := configng.Read(cli.ConfigPath, "ankapi", "yaml")
	if err == nil {
		return cfg
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		logger.Warn("config file not found, using defaults and environment", "path", cli.ConfigPath)
		return configng.New()
	}
	logger.Fatal("config reading failed", "err", err)
	return nil
}

func newStorage(s3cfg configng.S3Config) (objstore.Storage, error) {
	if s3cfg.Flavor == configng.FlavorMemory {
		return objstore.NewMemoryStorage(), nil
	}
	client, err := configng.NewS3ClientV2(s3cfg)
	if err != nil {
		return nil, err
	}
	return objstore.NewS3Storage(client), nil
}

func serve(logger logging.KVLogger) {
	cfg := readConfig(logger)

	monitor.SetupLogging(cfg.IsProduction())
	monitor.ConfigureSentry(cfg.V.GetString("SentryDSN"), version.GetDevVersion(), cfg.V.GetString("Environment"))

	s3cfg, err := cfg.ReadS3Config("Storage")
	if err != nil {
		logger.Fatal("storage config failed", "err", err)
	}
	storage, err := newStorage(s3cfg)
	if err != nil {
		logger.Fatal("storage client failed", "flavor", s3cfg.Flavor, "err", err)
	}

	acfg, err := cfg.ReadAuthConfig("Auth")
	if err != nil {
		logger.Fatal("auth config failed", "err", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())

	authenticator, err := auth.NewFirebaseAuthenticator(runCtx, acfg.FirebaseProjectID)
	if err != nil {
		logger.Fatal("authenticator setup failed", "err", err)
	}

	launcher := ankapi.NewLauncher(
		ankapi.WithStorage(storage),
		ankapi.WithBucket(s3cfg.Bucket),
		ankapi.WithAuthenticator(authenticator),
		ankapi.WithAuthRateLimit(acfg.FailedAttemptsPerMinute),
		ankapi.WithLogger(logger),
		ankapi.WithHTTPAddress(cfg.V.GetString("Address")),
		ankapi.WithCORSDomains(cfg.V.GetStringSlice("CORSDomains")),
	)

	go func() {
		trap := make(chan os.Signal, 1)
		signal.Notify(trap, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		<-trap

		launcher.StartShutdown()
		// Wait for the readiness probe to detect the failure
		<-time.After(cfg.V.GetDuration("GracefulShutdown"))
		launcher.CompleteShutdown()
		runCancel()
	}()

	_, err = launcher.Build()
	if err != nil {
		logger.Fatal(err.Error())
	}
	if err := launcher.Launch(); err != nil {
		runCancel()
		logger.Fatal("http server failed", "address", cfg.V.GetString("Address"), "err", err)
	}
	<-runCtx.Done()
}
