package main

import (
	"math"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/couchcryptid/terranova-dashboard/internal/adapter/api"
	"github.com/couchcryptid/terranova-dashboard/internal/domain"
	"github.com/couchcryptid/terranova-dashboard/internal/observability"
)

// newFiresCmd lists the fire catalog, falling back to the bundled list when
// the API is unreachable.
func newFiresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fires",
		Short: "List the fire catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			base := api.ResolveAPIBase(cfg.APIBaseOverride, cfg.PageOrigin)
			client := api.NewClient(base, cfg.FetchTimeout, cfg.Variant, logger, observability.NewMetrics())

			fires, err := client.FetchFires(cmd.Context())
			if err != nil || len(fires) == 0 {
				logger.Warn("fire catalog unavailable, using bundled list", "endpoint", "fires", "error", err)
				fires = domain.FallbackFires()
			}

			p := message.NewPrinter(language.AmericanEnglish)
			for _, f := range fires {
				acres := p.Sprintf("%d ac", int64(math.Round(f.Acres)))
				cmd.Printf("%-20s %-24s %s · %d  %s\n", f.ID, f.Name, f.State, f.Year, acres)
			}
			return nil
		},
	}
}

func newStatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states <query>",
		Short: "Suggest US states matching a code or name prefix",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			matches := domain.SuggestStates(args[0])
			if len(matches) == 0 {
				cmd.Println("No matching states.")
				return
			}
			for _, s := range matches {
				cmd.Printf("%s  %s\n", s.Code, s.Name)
			}
		},
	}
}

func newAskCmd() *cobra.Command {
	var fireID string
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about a fire",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.pipeline.Close()

			cmd.Println(a.pipeline.AskAbout(cmd.Context(), fireID, strings.Join(args, " ")))
			return nil
		},
	}
	cmd.Flags().StringVar(&fireID, "fire", domain.FallbackFires()[0].ID, "Fire id the question is about")
	return cmd
}
