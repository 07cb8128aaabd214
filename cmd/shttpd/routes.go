package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/advdv/shttp"
	"github.com/spf13/cobra"
)

func routesCmd() *cobra.Command {
	var (
		asJSON  bool
		service string
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mux := shttp.NewServeMux()
			routing(mux)
			if service != "" {
				if err := mux.RegisterRouteList(service); err != nil {
					return err
				}
			}

			list := mux.Router().RouteList()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tMETHOD\tNAME\tNEXT\tPATH")
			for _, ri := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", ri.Index, ri.Method, ri.Name, ri.Next, ri.Path)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	cmd.Flags().StringVar(&service, "service", "", "include the route list route of this service")
	return cmd
}
