package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "dev"

var errorColor = color.New(color.FgRed, color.Bold)

type rootOptions struct {
	baseURL    string
	jsonOutput bool
	noColor    bool
}

// NewRootCmd arma el árbol de comandos desde cero; los tests lo usan para no
// arrastrar flags entre ejecuciones.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:     "semplan",
		Version: version,
		Short:   "Generate a multi-channel SEM plan from the planning service",
		Long: `semplan collects your brand configuration, submits it once to the SEM
planning service and renders the returned plan: search campaign structure,
Performance Max themes and the shopping bid strategy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Planning service base URL (default $PLANNER_BASE_URL or http://localhost:8000/api/v1)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output the raw plan as JSON")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newPlanCmd(opts))
	root.AddCommand(newFieldsCmd())
	return root
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// PrintError imprime el error a stderr en rojo.
func PrintError(err error) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %v\n", err)
}
