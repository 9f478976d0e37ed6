package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/opsfix/netbox-fixjson/cmd"
	"github.com/opsfix/netbox-fixjson/utils"
	"github.com/opsfix/netbox-fixjson/version"
)

func main() {
	// Load environment variables before anything reads them.
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, continuing without it")
	}

	opts, err := cmd.ParseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "netbox-fixjson: %v\n", err)
		os.Exit(2)
	}

	if opts.Version {
		fmt.Println(version.GetCurrentVersion())
		os.Exit(0)
	}

	if opts.Debug {
		os.Setenv("LOG_LEVEL", "debug")
	}

	logger, err := utils.InitializeLogger()
	if err != nil {
		panic(fmt.Sprintf("Unable to initialize logger: %v", err))
	}
	defer logger.Sync()

	// One run id per invocation, for correlating a run's diagnostics.
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	if err := cmd.Run(context.Background(), opts, logger); err != nil {
		logger.Error("Run failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "netbox-fixjson: %v\n", err)
		os.Exit(1)
	}
}
