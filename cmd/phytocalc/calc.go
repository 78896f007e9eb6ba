package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timgluz/phytolab/analysis"
	"github.com/timgluz/phytolab/assay"
	"github.com/timgluz/phytolab/calibration"
	"github.com/timgluz/phytolab/sample"
	"github.com/timgluz/phytolab/stats"
)

type calcReport struct {
	AnalysisType assay.Type                `json:"analysis_type"`
	Params       assay.Params              `json:"calibration_parameters"`
	Results      []sample.Computed         `json:"results"`
	Groups       []stats.Group             `json:"groups"`
	Statistics   stats.SelectionStatistics `json:"statistics"`
}

func newCalcCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <analysis_type>",
		Short: "Calculate results and statistics for a file of samples",
		Long: `Reads samples from a JSON file (one sample or an array) or a CSV upload,
applies the calibration parameters and prints per-sample results together
with the statistics per treatment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := assay.ParseType(args[0])
			if err != nil {
				return err
			}

			key, err := stats.ParseGroupingKey(v.GetString("group"))
			if err != nil {
				return err
			}

			report, err := runCalc(cmd.Context(), newEngine(cmd, v), t, v.GetString("samples"), v.GetString("params"), key)
			if err != nil {
				return err
			}

			if v.GetBool("json") {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}

	flags := cmd.Flags()
	flags.StringP("samples", "s", "", "samples file, .json or .csv")
	flags.StringP("params", "p", "", "calibration parameters JSON file")
	flags.String("group", string(stats.GroupByTreatment), `grouping key: "treatment_name" or "" for none`)
	flags.String("language", analysis.DefaultLanguageCode, "language used to order sample names")
	bindFlags(v, flags.Lookup("samples"), flags.Lookup("params"), flags.Lookup("group"), flags.Lookup("language"))

	return cmd
}

func newEngine(cmd *cobra.Command, v *viper.Viper) *analysis.Engine {
	logger := newLogger(cmd, v)
	engine := analysis.NewEngine(sample.NewInMemoryRepository(logger), calibration.NewInMemoryStore(logger), logger)
	return engine.WithLanguage(v.GetString("language"))
}

func runCalc(ctx context.Context, engine *analysis.Engine, t assay.Type, samplesPath, paramsPath string, key stats.GroupingKey) (*calcReport, error) {
	if samplesPath == "" {
		return nil, fmt.Errorf("a samples file is required")
	}

	if err := loadSamples(ctx, engine, t, samplesPath); err != nil {
		return nil, err
	}

	if paramsPath != "" {
		params, err := readParams(paramsPath)
		if err != nil {
			return nil, err
		}
		if err := engine.ApplyParams(ctx, t, params); err != nil {
			return nil, err
		}
	}

	params, err := engine.Params(ctx, t)
	if err != nil {
		return nil, err
	}

	results, err := engine.Results(ctx, t, analysis.ResultOptions{})
	if err != nil {
		return nil, err
	}

	groups, err := engine.Groups(ctx, t, key, nil)
	if err != nil {
		return nil, err
	}

	selection, err := engine.Statistics(ctx, t, nil)
	if err != nil {
		return nil, err
	}

	return &calcReport{
		AnalysisType: t,
		Params:       params,
		Results:      results,
		Groups:       groups,
		Statistics:   selection,
	}, nil
}

func loadSamples(ctx context.Context, engine *analysis.Engine, t assay.Type, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read samples: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		_, err = engine.ImportCSV(ctx, t, bytes.NewReader(data))
		return err
	}

	samples, err := decodeSamples(data)
	if err != nil {
		return fmt.Errorf("failed to decode samples from %s: %w", path, err)
	}
	_, err = engine.AddSamples(ctx, t, samples)
	return err
}

// decodeSamples accepts one JSON sample or an array of them.
func decodeSamples(data []byte) ([]*sample.Sample, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var samples []*sample.Sample
		if err := json.Unmarshal(data, &samples); err != nil {
			return nil, err
		}
		return samples, nil
	}

	var single sample.Sample
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []*sample.Sample{&single}, nil
}

func readParams(path string) (assay.Params, error) {
	var params assay.Params

	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("failed to read calibration parameters: %w", err)
	}
	if err := json.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("failed to decode calibration parameters from %s: %w", path, err)
	}
	return params, nil
}

func writeReport(w io.Writer, report *calcReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)

	if report.AnalysisType == assay.ChlorophyllAB {
		fmt.Fprintln(tw, "TREATMENT\tSAMPLE\tCHL A\tCHL B\tTOTAL CHL\tCAROTENOID\tUNIT\t")
		for _, r := range report.Results {
			p := assay.Pigments{}
			if r.Pigments != nil {
				p = *r.Pigments
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", r.TreatmentName, r.SampleName,
				formatValue(p.ChlA), formatValue(p.ChlB), formatValue(p.Total()), formatValue(p.Carotenoid), r.Unit)
		}
	} else {
		fmt.Fprintln(tw, "TREATMENT\tSAMPLE\tRESULT\tUNIT\tMISSING\t")
		for _, r := range report.Results {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", r.TreatmentName, r.SampleName,
				formatValue(r.Value), r.Unit, strings.Join(r.MissingWavelengths, ","))
		}
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "GROUP\tN\tMEAN\tSD\tSE\tCV %\t")
	for _, g := range report.Groups {
		name := g.Treatment
		if name == "" {
			name = "all"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t\n", name, g.N,
			formatValue(g.Mean), formatValue(g.StandardDeviation), formatValue(g.StandardError), formatValue(g.CoefficientOfVariation))
	}

	if p := report.Statistics.Pigments; p != nil {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "PIGMENT\tN\tMEAN\tSE\t")
		for _, row := range []struct {
			name   string
			series stats.SeriesSummary
		}{
			{"chl a", p.ChlA},
			{"chl b", p.ChlB},
			{"total chl", p.TotalChl},
			{"carotenoid", p.Carotenoid},
		} {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t\n", row.name, p.N, formatValue(row.series.Mean), formatValue(row.series.StandardError))
		}
	}

	return tw.Flush()
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
