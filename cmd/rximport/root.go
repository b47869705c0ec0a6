package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/rximport/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "rximport",
	Short: "Pharmacy export → medicine tracker importer",
	Long:  "Reads pharmacy prescription exports (Walgreens CSV/XLSX or generic tables) and reconciles them into family-member, medicine, and medication-log records.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("RXIMPORT_DB_URL"), "Postgres connection string (or set RXIMPORT_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
