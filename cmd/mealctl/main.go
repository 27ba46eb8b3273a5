// mealctl queries the meal service from the command line, using the same
// configuration as the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Lixing-Zhang/meal-service/internal/app"
	"github.com/Lixing-Zhang/meal-service/internal/config"
	"github.com/Lixing-Zhang/meal-service/internal/handlers"
	"github.com/Lixing-Zhang/meal-service/internal/service"
	"github.com/Lixing-Zhang/meal-service/pkg/logger"
)

var (
	outputFormat string
	logLevel     string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mealctl",
		Short: "Look up TheMealDB recipes translated into the configured language",
		Long: `mealctl runs the meal pipeline once and prints the result.

Configuration is read from the environment (and a .env file when present),
exactly like the server: MEALDB_BASE_URL, TRANSLATOR_PROVIDER,
TRANSLATOR_TARGET_LANGUAGE and friends.`,
		Version:       handlers.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json or yaml")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level written to stderr")

	root.AddCommand(newRandomCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newDetailCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRandomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Print one random meal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ctx, cancel, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			meal, err := svc.Random(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), outputFormat, meal)
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "search NAME",
		Short:   "Search meals by name (the name may be in the output language)",
		Example: "  mealctl search pollo\n  mealctl search \"beef stew\" -o yaml",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ctx, cancel, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			meals, err := svc.SearchByName(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), outputFormat, meals)
		},
	}
}

func newDetailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detail ID",
		Short: "Print the full meal with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ctx, cancel, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			meal, err := svc.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), outputFormat, meal)
		},
	}
}

// setup loads configuration and builds the service. The returned context is
// cancelled on Ctrl-C.
func setup(cmd *cobra.Command) (*service.MealService, context.Context, context.CancelFunc, error) {
	if outputFormat != "json" && outputFormat != "yaml" {
		return nil, nil, nil, fmt.Errorf("unsupported output format %q (use json or yaml)", outputFormat)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), logLevel)
	svc, err := app.BuildMealService(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	return svc, ctx, cancel, nil
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}
}
