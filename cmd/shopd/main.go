// Package main provides the shopd binary: the demo shop API server plus the
// tooling that publishes its schema catalog as OpenAPI, contracts and Go
// types.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	v "github.com/Gobd/apicontract"
	"github.com/Gobd/apicontract/internal/config"
	"github.com/Gobd/apicontract/internal/httpapi"
	"github.com/Gobd/apicontract/internal/logging"
	"github.com/Gobd/apicontract/internal/metrics"
	"github.com/Gobd/apicontract/internal/pricing"
	"github.com/Gobd/apicontract/internal/schemas"
	"github.com/Gobd/apicontract/internal/service"
	"github.com/Gobd/apicontract/internal/store"
	"github.com/Gobd/apicontract/internal/types"
	"github.com/Gobd/apicontract/openapi"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Set with -ldflags at release time.
var (
	version   = "0.1.0"
	buildTime = "dev"
)

const appName = "shopd"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Demo shop API built on a shared schema catalog",
		Long: `shopd serves the users, products and orders API. Every request and
response is checked against the same schema catalog that the openapi,
contract and gen-types commands publish.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")

	cmd.AddCommand(
		serveCmd(opts),
		openapiCmd(),
		contractCmd(),
		genTypesCmd(),
		schemasCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, version, buildTime)
			},
		},
	)
	return cmd
}

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts)
		},
	}
}

func serve(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath, os.Getenv)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	policy, err := pricingPolicy(cfg, st)
	if err != nil {
		return err
	}
	h, err := httpapi.NewRouter(httpapi.Deps{
		Users:       service.NewUsers(st.Users(), service.SystemClock),
		Products:    service.NewProducts(st.Products(), service.SystemClock),
		Orders:      service.NewOrders(st.Orders(), policy, service.SystemClock),
		Logger:      logger,
		Metrics:     metrics.New(),
		CORSOrigins: cfg.CORSOrigins,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	logger.Info("store ready", zap.String("driver", cfg.DB.Driver))
	return httpapi.Serve(ctx, ln, h, cfg.Shutdown(), logger)
}

func pricingPolicy(cfg config.Config, st store.Store) (pricing.Policy, error) {
	var discounter pricing.Discounter = pricing.NoDiscount{}
	if len(cfg.Coupons) > 0 {
		percents := make(map[string]decimal.Decimal, len(cfg.Coupons))
		for code, pct := range cfg.Coupons {
			percents[code] = decimal.NewFromFloat(pct)
		}
		coupons, err := pricing.NewPercentCoupons(percents)
		if err != nil {
			return pricing.Policy{}, fmt.Errorf("config coupons: %w", err)
		}
		discounter = coupons
	}
	return pricing.Policy{
		Catalog:    service.NewCatalog(st.Products()),
		Discounter: discounter,
		TaxRate:    decimal.NewFromFloat(cfg.TaxRate),
	}, nil
}

func openapiCmd() *cobra.Command {
	var (
		out    string
		format string
	)
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print or write the OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := httpapi.Document(version)
			if err != nil {
				return err
			}
			if out != "" {
				return openapi.WriteFile(doc, out)
			}
			b, err := openapi.Marshal(doc, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(b, '\n'))
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to this file; the extension picks JSON or YAML")
	cmd.Flags().StringVar(&format, "format", "json", "Format when printing (json, yaml)")
	return cmd
}

func contractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contract NAME...",
		Short: "Print the contract of catalog schemas as YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contracts := make([]v.Contract, 0, len(args))
			for _, name := range args {
				c, err := schemas.Registry().Contract(name)
				if err != nil {
					return err
				}
				contracts = append(contracts, c)
			}
			return writeYAML(cmd.OutOrStdout(), contracts)
		},
	}
}

func writeYAML(w io.Writer, val any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(val); err != nil {
		return err
	}
	return enc.Close()
}

func genTypesCmd() *cobra.Command {
	var pkg string
	cmd := &cobra.Command{
		Use:   "gen-types [NAME...]",
		Short: "Generate Go types for catalog schemas",
		Long:  "Generate Go types for the named catalog schemas, or for all of them when no name is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = schemas.Registry().Names()
			}
			nodes := make(map[string]*v.Node, len(names))
			for _, name := range names {
				n, err := schemas.Registry().Get(name)
				if err != nil {
					return err
				}
				nodes[name] = n
			}
			src, err := types.Generate(pkg, names, nodes)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(src)
			return err
		},
	}
	cmd.Flags().StringVar(&pkg, "package", "types", "Package name of the generated file")
	return cmd
}

func schemasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the schema catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range schemas.Registry().Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
