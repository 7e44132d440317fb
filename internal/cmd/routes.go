package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/telhawk-relay/internal/endpoint"
	"github.com/telhawk-systems/telhawk-relay/internal/output"
	"github.com/telhawk-systems/telhawk-relay/internal/route"
	"github.com/telhawk-systems/telhawk-relay/internal/timer"
)

type routeView struct {
	ID     string   `json:"id" yaml:"id"`
	From   string   `json:"from" yaml:"from"`
	Period string   `json:"period" yaml:"period"`
	Steps  []string `json:"steps" yaml:"steps"`
}

func newRouteView(def route.Definition) (routeView, error) {
	from, err := endpoint.Parse(def.From)
	if err != nil {
		return routeView{}, err
	}
	tc, err := timer.ParseConfig(from)
	if err != nil {
		return routeView{}, err
	}
	steps := make([]string, len(def.Steps))
	for i, s := range def.Steps {
		steps[i] = s.String()
	}
	return routeView{ID: def.ID, From: def.From, Period: tc.Period.String(), Steps: steps}, nil
}

func newRoutesCmd(load configLoader) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the configured routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defs, err := cfg.Definitions()
			if err != nil {
				return err
			}

			views := make([]routeView, 0, len(defs))
			for _, def := range defs {
				v, err := newRouteView(def)
				if err != nil {
					return err
				}
				views = append(views, v)
			}

			return output.Write(cmd.OutOrStdout(), format, views, func() *output.Table {
				table := output.NewTable([]string{"ID", "FROM", "PERIOD", "STEPS"})
				for _, v := range views {
					table.AddRow([]string{v.ID, v.From, v.Period, strings.Join(v.Steps, " -> ")})
				}
				return table
			})
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", output.FormatTable, "output format: table, json, yaml")
	return cmd
}
