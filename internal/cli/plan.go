package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AngelCh415/sem_planner/internal/config"
	"github.com/AngelCh415/sem_planner/internal/form"
	"github.com/AngelCh415/sem_planner/internal/models"
	"github.com/AngelCh415/sem_planner/internal/planapi"
	"github.com/AngelCh415/sem_planner/internal/render"
	"github.com/AngelCh415/sem_planner/internal/viewstate"
)

// flag -> campo del request
var planFlags = []struct {
	flag  string
	field string
	usage string
}{
	{"brand-url", "brand_url", "Your website URL"},
	{"competitor-url", "competitor_url", "Competitor's website URL"},
	{"locations", "service_locations", "Service locations (free text)"},
	{"search-budget", "search_ads_budget", "Monthly Search Ads budget ($)"},
	{"shopping-budget", "shopping_ads_budget", "Monthly Shopping Ads budget ($)"},
	{"pmax-budget", "pmax_ads_budget", "Monthly Performance Max budget ($)"},
	{"price", "average_product_price", "Average product price ($)"},
	{"roas", "target_roas_percentage", "Target ROAS (%)"},
}

func newPlanCmd(opts *rootOptions) *cobra.Command {
	values := make(map[string]*string, len(planFlags))
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Submit a plan request and render the result",
		Long: `Build a plan request from the defaults plus any flags given, submit it once
to the planning service and print the returned plan.

Sections the service did not return are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := form.NewBuilder()
			for _, pf := range planFlags {
				if cmd.Flags().Changed(pf.flag) {
					if err := b.Set(pf.field, *values[pf.flag]); err != nil {
						return err
					}
				}
			}
			req, err := b.Build()
			if err != nil {
				return err
			}
			return runPlan(cmd, opts, req)
		},
	}

	defaults := form.StringValues(form.Defaults())
	for _, pf := range planFlags {
		values[pf.flag] = cmd.Flags().String(pf.flag, defaults[pf.field], pf.usage)
	}
	return cmd
}

func runPlan(cmd *cobra.Command, opts *rootOptions, req models.PlanRequest) error {
	cfg := config.FromEnv()
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	// en la CLI los logs van a stderr y solo warn+ salvo LOG_LEVEL=debug
	lvl := slog.LevelWarn
	if cfg.LogLevel == slog.LevelDebug {
		lvl = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))

	cl := planapi.NewClient(planapi.NewHTTPClient(cfg.HTTPTimeout), cfg.BaseURL, logger, nil)
	vm := viewstate.NewMachine(cl, logger, nil)

	progress := color.New(color.FgHiBlack)
	if opts.noColor {
		progress.DisableColor()
	}
	vm.OnChange(func(st viewstate.State) {
		if st.Status == viewstate.Submitting && !opts.jsonOutput {
			progress.Fprintln(cmd.ErrOrStderr(), "Generating your strategic plan... this may take a moment.")
		}
	})

	st, err := vm.Submit(cmd.Context(), req)
	if err != nil {
		return err
	}
	if st.Status == viewstate.Failure {
		return errors.New(st.Message)
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st.Response)
	}
	heading := fmt.Sprintf("%s vs %s", form.BrandLabel(req.BrandURL), form.BrandLabel(req.CompetitorURL))
	return render.WriteText(out, render.Sections(st.Response), render.TextOptions{Heading: heading, NoColor: opts.noColor})
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the plan request fields and their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := form.StringValues(form.Defaults())
			out := cmd.OutOrStdout()
			for _, f := range form.Fields {
				kind := "text"
				if f.Numeric {
					kind = "number"
				}
				fmt.Fprintf(out, "%-24s %-7s %-28s %s\n", f.Name, kind, f.Label, defaults[f.Name])
			}
			return nil
		},
	}
}
