// Package main is the entry point for the pdfdesk CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/local/pdfdesk/internal/config"
	"github.com/local/pdfdesk/internal/converter"
	"github.com/local/pdfdesk/internal/fetch"
	"github.com/local/pdfdesk/internal/logger"
	"github.com/local/pdfdesk/internal/ops"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg and svc are built in the root PersistentPreRunE, once the env file
// and verbosity flags are known.
var (
	cfg config.Config
	svc *ops.Service
)

var rootCmd = &cobra.Command{
	Use:   "pdfdesk",
	Short: "Split, merge, convert and rasterize PDF files",
	Long: `pdfdesk runs the common PDF desk operations from one binary: split a
document by page ranges, merge documents, convert a document to Word,
rasterize pages to images and dump page text. Sources may be local
paths, file:// paths, http(s):// URLs or s3://bucket/key references.

Run an operation directly, or start the browser dashboard with serve.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env")
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("loading env file %s: %w", envFile, err)
			}
		} else {
			_ = godotenv.Load()
		}

		cfg = config.FromEnv()
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			cfg.Logging.Level = "debug"
		}

		if err := logger.Init(logger.Options{
			Level:        cfg.Logging.Level,
			Pretty:       cfg.Logging.Pretty,
			File:         cfg.Logging.File,
			MaxSizeMB:    cfg.Logging.MaxSizeMB,
			MaxBackups:   cfg.Logging.MaxBackups,
			MaxAgeDays:   cfg.Logging.MaxAgeDays,
			Compress:     cfg.Logging.Compress,
			SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.Token != "",
			AxiomToken:   cfg.Axiom.Token,
			AxiomOrgID:   cfg.Axiom.OrgID,
			AxiomDataset: cfg.Axiom.Dataset,
			AxiomFlush:   cfg.Axiom.FlushInterval,
		}); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}

		svc = newService(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func newService(cfg config.Config) *ops.Service {
	resolver := fetch.New(fetch.Options{
		TempDir:     cfg.Fetch.TempDir,
		Passphrase:  cfg.Fetch.Passphrase,
		S3Region:    cfg.Fetch.S3Region,
		S3AccessKey: cfg.Fetch.S3AccessKey,
		S3SecretKey: cfg.Fetch.S3SecretKey,
	})
	conv := converter.New(cfg.Convert.SofficePath, cfg.Convert.Timeout)
	return ops.New(ops.Dependencies{
		Resolver: resolver,
		Word:     conv.ConvertToWord,
	})
}

// printArtifacts writes artifact paths to stdout, one per line, so they
// stay machine-readable next to stderr logging.
func printArtifacts(res ops.Result) {
	for _, p := range res.Artifacts {
		fmt.Println(p)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().String("env", "", "path to a dotenv file (default: ./.env if present)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		logger.Close()
		os.Exit(1)
	}
}
