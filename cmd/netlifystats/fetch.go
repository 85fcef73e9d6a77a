package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/eringen/netlifystats/dashboard"
	"github.com/eringen/netlifystats/netlify"
)

func newFetchCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch analytics data and print it",
		Long: `Fetch the tracked metrics (pageviews, visitors, bandwidth and
ranking/countries) for the configured site and print the raw payloads, or
the dashboard summary with --shape.`,
		Example: `  # Last 30 days of every tracked metric as JSON
  netlifystats fetch

  # A single metric as YAML
  netlifystats fetch --metric ranking/pages --output yaml

  # Totals and chart series for an explicit window
  netlifystats fetch --shape --from 1700000000000 --to 1700600000000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, v)
		},
	}
	f := cmd.Flags()
	f.String("metric", "", "Fetch only this metric; failures are returned instead of logged")
	f.Int64("from", 0, "Window start in epoch milliseconds (default 30 days ago)")
	f.Int64("to", 0, "Window end in epoch milliseconds (default now)")
	f.StringP("output", "o", "json", "Output format (json, yaml)")
	f.Bool("shape", false, "Print totals and chart series instead of raw payloads")
	return cmd
}

func runFetch(cmd *cobra.Command, v *viper.Viper) error {
	metric, _ := cmd.Flags().GetString("metric")
	from, _ := cmd.Flags().GetInt64("from")
	to, _ := cmd.Flags().GetInt64("to")
	output, _ := cmd.Flags().GetString("output")
	shape, _ := cmd.Flags().GetBool("shape")

	if output != "json" && output != "yaml" {
		return fmt.Errorf("invalid output format: %s (valid: json, yaml)", output)
	}

	cfg := siteConfig(v)
	client, err := netlify.NewClient(netlify.Config{
		BaseURL: cfg.APIBaseURL,
		SiteID:  cfg.SiteID,
		Token:   cfg.Token,
	}, netlify.WithLogger(log.Logger))
	if err != nil {
		return fmt.Errorf("failed to create Netlify client: %w", err)
	}

	w := netlify.TimeWindow{
		From:       from,
		To:         to,
		Timezone:   cfg.Timezone,
		Resolution: cfg.Resolution,
	}

	var result netlify.Result
	if metric != "" {
		r, err := client.FetchMetric(cmd.Context(), netlify.Metric(metric), w)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", metric, err)
		}
		result = netlify.Result{netlify.Metric(metric): r}
	} else {
		result = client.Fetch(cmd.Context(), w)
	}

	var out any = result
	if shape {
		out = dashboard.Shape(result)
	}
	return writeOutput(cmd.OutOrStdout(), output, out)
}

// writeOutput encodes v as indented JSON or as YAML. YAML goes through the
// JSON encoding so both formats share field names.
func writeOutput(w io.Writer, format string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if format == "json" {
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlValue(doc)); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}

// yamlValue converts json.Number leaves to int64 or float64 so they are
// written as YAML numbers rather than quoted strings.
func yamlValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = yamlValue(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = yamlValue(e)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
