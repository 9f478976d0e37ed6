package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/opsfix/netbox-fixjson/config"
	"github.com/opsfix/netbox-fixjson/fixjson"
	"github.com/opsfix/netbox-fixjson/metrics"
	"github.com/opsfix/netbox-fixjson/netbox"
)

// Options holds the command-line flags for a repair run.
type Options struct {
	URL       string // NetBox base URL
	Token     string // NetBox API token
	Module    string // functional module such as "ipam"
	Type      string // object type such as "prefixes"
	FieldName string // custom field to assess/update

	Verbose     bool // list affected records instead of printing counts
	Debug       bool // enable debug logging
	MakeChanges bool // apply updates; default is dry run

	MaxIterations     int    // nested encodings to try and unwrap
	CAFile            string // CA cert bundle for TLS verification
	EmptyStringAsNull bool   // replace empty string (bad value) with null
	AttemptRepair     bool   // run jsonrepair on values that fail to decode

	MetricsPort int    // serve /metrics on this port while running (0 = off)
	JobsFile    string // YAML file with multiple repair jobs
	Version     bool   // print version and exit
}

// ParseOptions parses command-line arguments into Options.
func ParseOptions(args []string) (*Options, error) {
	opts := &Options{}
	fs := flag.NewFlagSet("netbox-fixjson", flag.ContinueOnError)

	fs.StringVar(&opts.URL, "url", "", "NetBox base URL (or NETBOX_URL)")
	fs.StringVar(&opts.Token, "apitoken", "", "NetBox API token (or NETBOX_TOKEN)")
	fs.StringVar(&opts.Module, "module", "", "NetBox functional module such as 'ipam'")
	fs.StringVar(&opts.Type, "type", "", "NetBox object type such as 'prefixes'")
	fs.StringVar(&opts.FieldName, "field-name", "", "Custom field name to assess/update")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Show details of changes, default is to print counts only")
	fs.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.MakeChanges, "make-changes", false, "Make changes, default behavior is dry run only")
	fs.IntVar(&opts.MaxIterations, "max-iterations", config.DefaultMaxIterations, "Number of nested JSON string encodings to try and unwrap")
	fs.StringVar(&opts.CAFile, "cafile", "", "CA cert list to use for SSL verification (or NETBOX_CAFILE)")
	fs.BoolVar(&opts.EmptyStringAsNull, "replace-empty-string-with-null", false, "Replace empty string (bad value) with null. Reasonable but not default out of an abundance of caution")
	fs.BoolVar(&opts.AttemptRepair, "attempt-repair", false, "Run jsonrepair on values that fail to decode before giving up on them")
	fs.IntVar(&opts.MetricsPort, "metrics-port", 0, "Serve Prometheus metrics on this port during the run (or METRICS_PORT, 0 disables)")
	fs.StringVar(&opts.JobsFile, "jobs", "", "YAML file listing multiple repair jobs (replaces --module/--type/--field-name)")
	fs.BoolVar(&opts.Version, "version", false, "Print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// Run executes the repair workflow described by opts.
func Run(ctx context.Context, opts *Options, logger *zap.Logger) error {
	cfg := config.New(logger)
	cfg.Load()

	if opts.URL == "" {
		opts.URL = cfg.GetString("NETBOX_URL", "")
	}
	if opts.Token == "" {
		opts.Token = cfg.GetString("NETBOX_TOKEN", "")
	}
	if opts.CAFile == "" {
		opts.CAFile = cfg.GetString("NETBOX_CAFILE", "")
	}
	if opts.MetricsPort == 0 {
		opts.MetricsPort = cfg.GetInt("METRICS_PORT", 0)
	}

	if opts.URL == "" || opts.Token == "" {
		return fmt.Errorf("--url and --apitoken are required (or NETBOX_URL/NETBOX_TOKEN)")
	}

	jobs, err := resolveJobs(opts)
	if err != nil {
		return err
	}

	client, err := netbox.NewClient(netbox.Config{
		URL:            opts.URL,
		Token:          opts.Token,
		CAFile:         opts.CAFile,
		Timeout:        config.DefaultRequestTimeout,
		PageSize:       cfg.GetInt("PAGE_SIZE", config.DefaultPageSize),
		MaxRetries:     cfg.GetInt("MAX_RETRIES", config.DefaultMaxRetries),
		InitialBackoff: config.DefaultInitialBackoff,
	}, logger)
	if err != nil {
		return err
	}

	var repairMetrics *metrics.RepairMetrics
	if opts.MetricsPort > 0 {
		repairMetrics = metrics.NewRepairMetrics(metrics.Registry)
		srv := metrics.NewServer(opts.MetricsPort, logger)
		srv.Start()
		defer srv.Stop()
	}

	if opts.MakeChanges {
		logger.Info("Changes will be made and summarized at the end of the run")
	} else {
		logger.Info("Operating in dry-run mode, updates listed at the end of the run are simulated")
	}

	fixer := fixjson.NewFixer(logger, repairMetrics)
	for _, job := range jobs {
		if err := runJob(ctx, client, fixer, job, opts, logger); err != nil {
			return err
		}
	}
	return nil
}

func resolveJobs(opts *Options) ([]config.Job, error) {
	if opts.JobsFile != "" {
		if opts.Module != "" || opts.Type != "" || opts.FieldName != "" {
			return nil, fmt.Errorf("--jobs cannot be combined with --module/--type/--field-name")
		}
		return config.LoadJobs(opts.JobsFile)
	}

	if opts.Module == "" || opts.Type == "" || opts.FieldName == "" {
		return nil, fmt.Errorf("--module, --type and --field-name are required unless --jobs is given")
	}
	return []config.Job{{
		Module:            opts.Module,
		Type:              opts.Type,
		Field:             opts.FieldName,
		MaxIterations:     opts.MaxIterations,
		EmptyStringAsNull: opts.EmptyStringAsNull,
		AttemptRepair:     opts.AttemptRepair,
	}}, nil
}

func runJob(ctx context.Context, client *netbox.Client, fixer *fixjson.Fixer, job config.Job, opts *Options, logger *zap.Logger) error {
	endpoint, err := client.Endpoint(job.Module, job.Type)
	if err != nil {
		return err
	}
	logger.Info("Will be evaluating objects",
		zap.String("module", job.Module),
		zap.String("type", job.Type),
		zap.String("field", job.Field))

	start := time.Now()
	nbRecords, err := endpoint.All(ctx)
	if err != nil {
		// Store unreachable; nothing per-record about this, halt the run.
		return err
	}

	records := make([]fixjson.Record, len(nbRecords))
	for i, rec := range nbRecords {
		records[i] = rec
	}

	result, err := fixer.Repair(ctx, records, fixjson.Options{
		Field:             job.Field,
		MaxIterations:     job.MaxIterations,
		Apply:             opts.MakeChanges,
		EmptyStringAsNull: job.EmptyStringAsNull,
		AttemptRepair:     job.AttemptRepair,
	})
	if err != nil {
		return err
	}

	logger.Info("Job finished",
		zap.String("module", job.Module),
		zap.String("type", job.Type),
		zap.String("field", job.Field),
		zap.Duration("duration", time.Since(start)))

	// Batch mode gets a per-job header so the counts stay attributable.
	printReport(result, job, opts.Verbose, opts.JobsFile != "")
	return nil
}

func printReport(result *fixjson.Result, job config.Job, verbose, withHeader bool) {
	if withHeader {
		fmt.Printf("== %s.%s %s ==\n", job.Module, job.Type, job.Field)
	}
	if verbose {
		fmt.Println("Objects Updated:")
		for _, rec := range result.Updated {
			fmt.Printf("  %s\n", rec)
		}
		fmt.Println("Objects Not Updated:")
		for _, rec := range result.NotUpdated {
			fmt.Printf("  %s\n", rec)
		}
		return
	}
	fmt.Printf("Object Count Updated: %d\n", len(result.Updated))
	fmt.Printf("Object Count Not Updated: %d\n", len(result.NotUpdated))
}
