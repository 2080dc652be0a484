package main

import (
	"fmt"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/terranova-dashboard/internal/adapter/http"
)

func newRenderCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Resolve the default scenario once and write a static dashboard page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "dashboard.html", "Output HTML file path")
	return cmd
}

func runRender(cmd *cobra.Command, output string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.pipeline.Close()

	a.pipeline.Start(ctx)

	st := a.pipeline.State()
	view := httpadapter.ViewResponse{
		State:         st,
		SearchEnabled: st.SearchEnabled(),
		Map:           a.mapView.Snapshot(),
		Panel:         a.panel.View(),
	}
	if err := httpadapter.WritePageFile(output, httpadapter.NewPageData(view, a.client.BaseURL())); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	cmd.Printf("Dashboard saved to %s\n", output)
	return nil
}
