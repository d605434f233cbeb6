// Package main is the fastqx command-line front end: load and print a CSV
// file, fetch from a SQL connection, or fetch from an HTTP endpoint.
// Not part of the core contract — it exists so the external adapters
// have an exercised entry point, in the shape of the teacher's cobra
// command trees (main.go / cli/main.go).
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fastqx/internal/config"
	"fastqx/internal/csvio"
	"fastqx/internal/fastqx"
	"fastqx/internal/httpconn"
	"fastqx/internal/logging"
	"fastqx/internal/sqlconn"
	"fastqx/internal/value"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fastqx",
		Short: "In-memory tabular data engine",
	}

	var cfgPath string
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "fastqx.toml", "Path to configuration file")

	rootCmd.AddCommand(loadCmd(&cfgPath))
	rootCmd.AddCommand(sqlCmd(&cfgPath))
	rootCmd.AddCommand(httpCmd(&cfgPath))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(path string) config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		cfg = config.Default()
	}
	logging.Init(cfg.Log.Level)
	return cfg
}

func printData(d *fastqx.Data) {
	fmt.Println(strings.Join(d.Columns(), "\t"))
	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			continue
		}
		fields := make([]string, r.Len())
		for j, cell := range r {
			fields[j] = cell.String()
		}
		fmt.Println(strings.Join(fields, "\t"))
	}
}

func loadCmd(cfgPath *string) *cobra.Command {
	var typeHints []string
	cmd := &cobra.Command{
		Use:   "load <file.csv>",
		Short: "Load a CSV file and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			loadConfig(*cfgPath)
			hints := make([]value.ValueType, len(typeHints))
			for i, h := range typeHints {
				hints[i] = parseTypeHint(h)
			}
			d, err := csvio.ReadFile(args[0], hints)
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}
			printData(d)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&typeHints, "types", "t", nil, "Per-column type hints (e.g. I32,String,F32)")
	return cmd
}

func sqlCmd(cfgPath *string) *cobra.Command {
	var url, query string
	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Fetch rows from a SQL connection and print them",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := loadConfig(*cfgPath)
			if url == "" {
				url = cfg.SQL.URL
			}
			if url == "" {
				return fmt.Errorf("--url is required (or set [sql].url in fastqx.toml)")
			}
			conn, err := sqlconn.New(url)
			if err != nil {
				return err
			}
			defer conn.Disconnect()
			d, err := conn.Fetch(context.Background(), query)
			if err != nil {
				return fmt.Errorf("fetching: %w", err)
			}
			printData(d)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "SQL connection URL (e.g. sqlite3://./data.db)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "SQL query to run")
	return cmd
}

func httpCmd(cfgPath *string) *cobra.Command {
	var baseURL, path string
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Fetch rows from an HTTP endpoint and print them",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := loadConfig(*cfgPath)
			if baseURL == "" {
				baseURL = cfg.HTTP.BaseURL
			}
			if baseURL == "" {
				return fmt.Errorf("--base-url is required (or set [http].base_url in fastqx.toml)")
			}
			client := httpconn.New(baseURL)
			d, err := client.Get(context.Background(), path)
			if err != nil {
				return fmt.Errorf("fetching: %w", err)
			}
			printData(d)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL of the HTTP endpoint")
	cmd.Flags().StringVarP(&path, "path", "p", "/", "Request path")
	return cmd
}

func parseTypeHint(name string) value.ValueType {
	switch strings.TrimSpace(name) {
	case "Bool":
		return value.Bool
	case "U8":
		return value.U8
	case "U16":
		return value.U16
	case "U32":
		return value.U32
	case "U64":
		return value.U64
	case "I8":
		return value.I8
	case "I16":
		return value.I16
	case "I32":
		return value.I32
	case "I64":
		return value.I64
	case "F32":
		return value.F32
	case "F64":
		return value.F64
	case "Blob":
		return value.Blob
	case "Timestamp":
		return value.Timestamp
	case "DateTime":
		return value.DateTime
	case "Date":
		return value.Date
	case "Time":
		return value.Time
	default:
		return value.String
	}
}
