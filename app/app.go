// Package app implements the lshmodel command line tool.
package app

import (
	"github.com/gasparian/lsh-model-go/common"
	"github.com/gasparian/lsh-model-go/config"
	"github.com/gasparian/lsh-model-go/lsh"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Tool holds state shared by the commands of a single run
type Tool struct {
	Config   config.Config
	Logger   *logrus.Logger
	Registry *prometheus.Registry
	Metrics  *lsh.Metrics
}

// New builds the cli application with train, hash, eval and inspect commands
func New() *cli.App {
	tool := &Tool{}
	return &cli.App{
		Name:  "lshmodel",
		Usage: "train random-hyperplane lsh models and hash vectors with them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML config `FILE`",
				EnvVars: []string{"LSH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "logrus level: debug, info, warn, error",
				EnvVars: []string{"LSH_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "text or json",
				EnvVars: []string{"LSH_LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "store",
				Usage:   "where model blobs live: file, bolt or purekv",
				EnvVars: []string{"LSH_STORE"},
			},
			&cli.StringFlag{
				Name:    "store-path",
				Usage:   "root dir of the file store or db file of the bolt store",
				EnvVars: []string{"LSH_STORE_PATH"},
			},
			&cli.StringFlag{
				Name:    "store-address",
				Usage:   "pure-kv server address",
				EnvVars: []string{"LSH_STORE_ADDRESS"},
			},
			&cli.StringFlag{
				Name:    "store-bucket",
				Usage:   "bucket name of bolt and purekv stores",
				EnvVars: []string{"LSH_STORE_BUCKET"},
			},
			&cli.IntFlag{
				Name:    "tables",
				Usage:   "number of hash tables",
				EnvVars: []string{"LSH_TABLES"},
			},
			&cli.IntFlag{
				Name:    "bits",
				Usage:   "hyperplanes per table",
				EnvVars: []string{"LSH_BITS_PER_TABLE"},
			},
			&cli.IntFlag{
				Name:    "dims",
				Usage:   "vectors dimensionality",
				EnvVars: []string{"LSH_DIMENSIONS"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "hashing goroutines, 0 means GOMAXPROCS",
				EnvVars: []string{"LSH_WORKERS"},
			},
			&cli.BoolFlag{
				Name:    "no-compress",
				Usage:   "save blobs without zstd compression",
				EnvVars: []string{"LSH_NO_COMPRESS"},
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "write prometheus metrics in text format to `FILE` on exit",
				EnvVars: []string{"LSH_METRICS_FILE"},
			},
		},
		Before: tool.setup,
		After:  tool.flushMetrics,
		Commands: []*cli.Command{
			trainCommand(tool),
			hashCommand(tool),
			evalCommand(tool),
			inspectCommand(tool),
		},
	}
}

// setup loads the config file and applies flag and env overrides on top of it
func (t *Tool) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	if c.IsSet("store") {
		cfg.Store.Kind = c.String("store")
	}
	if c.IsSet("store-path") {
		cfg.Store.Path = c.String("store-path")
	}
	if c.IsSet("store-address") {
		cfg.Store.Address = c.String("store-address")
	}
	if c.IsSet("store-bucket") {
		cfg.Store.Bucket = c.String("store-bucket")
	}
	if c.IsSet("tables") {
		cfg.Model.Tables = c.Int("tables")
	}
	if c.IsSet("bits") {
		cfg.Model.BitsPerTable = c.Int("bits")
	}
	if c.IsSet("dims") {
		cfg.Model.Dimensions = c.Int("dims")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.Bool("no-compress") {
		cfg.Compress = false
	}

	logger, err := common.NewLogger(c.App.ErrWriter, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	t.Config = cfg
	t.Logger = logger
	t.Registry = prometheus.NewRegistry()
	t.Metrics = lsh.NewMetrics(t.Registry)
	return nil
}

func (t *Tool) flushMetrics(c *cli.Context) error {
	path := c.String("metrics-file")
	if path == "" || t.Registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, t.Registry); err != nil {
		return errors.Wrapf(err, "write metrics to %q", path)
	}
	return nil
}
