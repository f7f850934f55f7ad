package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	json "github.com/goccy/go-json"

	"github.com/yourorg/tassdoc/internal/config"
	"github.com/yourorg/tassdoc/internal/export"
	"github.com/yourorg/tassdoc/internal/fetch"
	"github.com/yourorg/tassdoc/internal/scanner"
	"github.com/yourorg/tassdoc/internal/server"
	"github.com/yourorg/tassdoc/internal/store"
	"github.com/yourorg/tassdoc/internal/tassmd"
)

const defaultConfigContent = `docs:
  root: "./repos"
  ignore_dirs:
    - version
  ignore_files:
    - README.md
  extensions:
    - .md

dialect:
  strict_param_doc: false
  require_v3: false
  strict_nulls: false

fetch:
  base_url: "https://github.com/TheAlphaSchoolSystemPTYLTD/"
  dir: "./repos"
  patches_dir: "./patches"

store:
  path: ""

output:
  dir: "./output"
  formats:
    - json
    - markdown

server:
  host: "127.0.0.1"
  port: 3000

log:
  level: "info"
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var debug bool

	root := &cobra.Command{
		Use:   "tassdoc",
		Short: "TASS API documentation parser and catalog",
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	root.AddCommand(newInitCmd())
	root.AddCommand(newFetchCmd(&cfgPath, &debug))
	root.AddCommand(newScanCmd(&cfgPath, &debug))
	root.AddCommand(newParseCmd(&cfgPath))
	root.AddCommand(newListCmd(&cfgPath))
	root.AddCommand(newShowCmd(&cfgPath))
	root.AddCommand(newExportCmd(&cfgPath))
	root.AddCommand(newServeCmd(&cfgPath, &debug))
	root.AddCommand(newDeleteCmd(&cfgPath))

	return root
}

func loadConfig(cfgPath string, debug bool) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	if dir := filepath.Dir(cfg.Store.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return store.NewSQLiteStore(cfg.Store.Path)
}

func dialectParser(cfg *config.Config) *tassmd.Parser {
	return tassmd.New(
		tassmd.WithStrictParamDoc(cfg.Dialect.StrictParamDoc),
		tassmd.WithRequireV3(cfg.Dialect.RequireV3),
		tassmd.WithStrictNulls(cfg.Dialect.StrictNulls),
	)
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize ~/.tassdoc directory and default config",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			baseDir := filepath.Join(home, ".tassdoc")
			if err := os.MkdirAll(baseDir, 0o755); err != nil {
				return err
			}

			cfgFile := filepath.Join(baseDir, "config.yaml")
			if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
				if err := os.WriteFile(cfgFile, []byte(defaultConfigContent), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "created", cfgFile)
			} else if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "exists", cfgFile)
			} else {
				return err
			}

			dbPath := filepath.Join(baseDir, "tassdoc.db")
			s, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "database ready", dbPath)
			fmt.Fprintln(cmd.OutOrStdout(), "run 'tassdoc fetch' to clone the documentation repos")
			return nil
		},
	}
}

func newFetchCmd(cfgPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Clone the vendor documentation repos and apply patches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath, *debug)
			if err != nil {
				return err
			}
			if err := cfg.ValidateFetch(); err != nil {
				return err
			}
			f := &fetch.Fetcher{Config: cfg.Fetch, Logger: newLogger(cfg.Log.Level)}
			if err := f.Fetch(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fetched %d repos into %s\n", len(cfg.Fetch.Repos), cfg.Fetch.Dir)
			return nil
		},
	}
}

func newScanCmd(cfgPath *string, debug *bool) *cobra.Command {
	var failFast bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Parse the documentation tree into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath, *debug)
			if err != nil {
				return err
			}
			if err := cfg.ValidateScan(); err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			scan, err := scanner.Run(cfg, st, newLogger(cfg.Log.Level), failFast)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d requests, %d failures (%s)\n",
				scan.ID, scan.RequestCount, scan.FailureCount, scan.Status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "abort the scan on the first parse error")
	return cmd
}

func newParseCmd(cfgPath *string) *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse one document and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath, false)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if scope == "" {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				scope = filepath.Base(filepath.Dir(abs))
			}
			req, err := dialectParser(cfg).Parse(string(data), scope)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(req, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "scope to attach (defaults to the containing directory)")
	return cmd
}

func newListCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath, false)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			scans, err := st.ListScans()
			if err != nil {
				return err
			}
			for _, s := range scans {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s  %4d requests  %3d failures  %s\n",
					s.ID, s.Status, s.RequestCount, s.FailureCount, s.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newShowCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <scan>",
		Short: "Show scan details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath, false)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			scan, err := st.GetScan(args[0])
			if err != nil {
				return fmt.Errorf("scan %s not found", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  %d requests  %d failures\n", scan.ID, scan.Status, scan.RequestCount, scan.FailureCount)
			fmt.Fprintf(out, "root: %s\n", scan.Root)
			fmt.Fprintf(out, "created: %s\n", scan.CreatedAt.Format(time.RFC3339))

			entries, err := st.GetRequests(scan.ID, "")
			if err != nil {
				return err
			}
			if len(entries) > 0 {
				fmt.Fprintln(out, "\nrequests by scope:")
				counts := make(map[string]int)
				var scopes []string
				for _, e := range entries {
					if _, ok := counts[e.Request.Scope]; !ok {
						scopes = append(scopes, e.Request.Scope)
					}
					counts[e.Request.Scope]++
				}
				for _, scope := range scopes {
					fmt.Fprintf(out, "  %-32s %4d\n", scope, counts[scope])
				}
			}

			failures, err := st.GetFailures(scan.ID)
			if err != nil {
				return err
			}
			if len(failures) > 0 {
				fmt.Fprintln(out, "\nfailures:")
				for _, f := range failures {
					fmt.Fprintf(out, "  %s  %s  %s\n", f.Path, f.Code, f.Message)
				}
			}
			return nil
		},
	}
}

func newExportCmd(cfgPath *string) *cobra.Command {
	var formats []string
	cmd := &cobra.Command{
		Use:   "export <scan>",
		Short: "Export a scan's catalog to the output directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath, false)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			scan, err := st.GetScan(args[0])
			if err != nil {
				return fmt.Errorf("scan %s not found", args[0])
			}
			entries, err := st.GetRequests(scan.ID, "")
			if err != nil {
				return err
			}
			failures, err := st.GetFailures(scan.ID)
			if err != nil {
				return err
			}

			if len(formats) == 0 {
				formats = cfg.Output.Formats
			}
			catalog := &export.Catalog{Scan: *scan, Requests: entries, Failures: failures}
			if err := export.Render(catalog, cfg.Output.Dir, formats); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s (%s)\n", scan.ID, cfg.Output.Dir, strings.Join(formats, ", "))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&formats, "format", nil, "export formats (json, yaml, markdown)")
	return cmd
}

func newServeCmd(cfgPath *string, debug *bool) *cobra.Command {
	var host string
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over a read-only JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath, *debug)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			srv, err := server.New(cfg, st)
			if err != nil {
				return err
			}
			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			newLogger(cfg.Log.Level).Info("serving catalog api", "addr", addr)
			return srv.ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "server host (defaults to config)")
	cmd.Flags().IntVar(&port, "port", 0, "server port (defaults to config)")
	return cmd
}

func newDeleteCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <scan>",
		Short: "Delete a scan and its catalog entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath, false)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := st.GetScan(args[0]); err != nil {
				return fmt.Errorf("scan %s not found", args[0])
			}
			if err := st.DeleteScan(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
			return nil
		},
	}
}
