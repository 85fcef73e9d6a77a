package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/netlifystats/logger"
)

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "netlifystats",
		Short: "Netlify Analytics dashboard",
		Long: `A small web dashboard and CLI for the Netlify Analytics API.
Credentials come from NETLIFY_PAT and SITE_ID (or NETLIFYSTATS_TOKEN and
NETLIFYSTATS_SITE_ID), a .env file, or a netlifystats.yaml config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cmd); err != nil {
				return err
			}
			logger.Initialize(v.GetString("log_level"), v.GetBool("log_pretty"), cmd.ErrOrStderr())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default ./netlifystats.yaml if present)")
	pf.String("env-file", ".env", "Dotenv file loaded before reading the environment")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.Bool("log-pretty", false, "Human-readable console logs instead of JSON")
	pf.String("site-id", "", "Netlify site id (overrides SITE_ID)")
	pf.String("timezone", "", "Timezone sent to the analytics API")
	pf.String("resolution", "", "Bucket size sent to the analytics API (day, hour)")
	v.BindPFlag("log_level", pf.Lookup("log-level"))
	v.BindPFlag("log_pretty", pf.Lookup("log-pretty"))
	v.BindPFlag("site_id", pf.Lookup("site-id"))
	v.BindPFlag("timezone", pf.Lookup("timezone"))
	v.BindPFlag("resolution", pf.Lookup("resolution"))

	root.AddCommand(newServeCmd(v), newFetchCmd(v), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the netlifystats version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "netlifystats %s\n", version)
			return err
		},
	}
}
