package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/sample"
)

func newProtocolsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "protocols [analysis_type]",
		Short: "List the supported assays, or show the protocol of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			protocols := assay.Protocols()
			if len(args) == 1 {
				t, err := assay.ParseType(args[0])
				if err != nil {
					return err
				}
				protocol, _ := assay.LookupProtocol(t)
				protocols = []assay.Protocol{protocol}
			}

			out := cmd.OutOrStdout()
			if v.GetBool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(protocols)
			}

			if len(protocols) == 1 {
				p := protocols[0]
				fmt.Fprintf(out, "%s (%s)\n%s\n\nWavelengths: %s nm\nUnit: %s\n\n", p.Title, p.Type, p.Subtitle, strings.Join(p.Wavelengths, ", "), p.Unit)
				for _, f := range p.Formulas {
					fmt.Fprintf(out, "  %s\n", f)
				}
				for _, ref := range p.References {
					fmt.Fprintf(out, "\n%s\n", ref.Citation)
				}
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ANALYSIS TYPE\tTITLE\tWAVELENGTHS\tUNIT")
			for _, p := range protocols {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Type, p.Title, strings.Join(p.Wavelengths, ","), p.Unit)
			}
			return tw.Flush()
		},
	}
}

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template <analysis_type>",
		Short: "Print the CSV upload template of an assay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := assay.ParseType(args[0])
			if err != nil {
				return err
			}
			return sample.CSVTemplate(cmd.OutOrStdout(), t)
		},
	}
}
