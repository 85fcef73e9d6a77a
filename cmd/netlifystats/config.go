package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/netlifystats"
	"github.com/eringen/netlifystats/netlify"
)

// initConfig loads the dotenv file, binds environment variables and reads
// the optional config file into v. Precedence, highest first: flags,
// environment, config file, defaults.
func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if cmd.Flags().Changed("env-file") || !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
		}
	}

	v.SetEnvPrefix("NETLIFYSTATS")
	v.AutomaticEnv()

	// Unprefixed names used by existing deployments.
	v.BindEnv("token", "NETLIFYSTATS_TOKEN", "NETLIFY_PAT")
	v.BindEnv("site_id", "NETLIFYSTATS_SITE_ID", "SITE_ID")
	v.BindEnv("host", "NETLIFYSTATS_HOST", "HOST")
	v.BindEnv("port", "NETLIFYSTATS_PORT", "PORT")

	v.SetDefault("name", "Netlify Analytics")
	v.SetDefault("host", "")
	v.SetDefault("port", "5000")
	v.SetDefault("api_base_url", netlify.DefaultBaseURL)
	v.SetDefault("timezone", netlify.DefaultTimezone)
	v.SetDefault("resolution", string(netlify.DefaultResolution))
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("refresh_limit", 30)
	v.SetDefault("refresh_window", time.Minute)
	v.SetDefault("shutdown_timeout", 10*time.Second)

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("netlifystats")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// siteConfig builds the dashboard configuration from v. An explicit addr
// wins over host and port.
func siteConfig(v *viper.Viper) netlifystats.SiteConfig {
	addr := v.GetString("addr")
	if addr == "" {
		addr = net.JoinHostPort(v.GetString("host"), v.GetString("port"))
	}
	return netlifystats.SiteConfig{
		Name:           v.GetString("name"),
		Addr:           addr,
		SiteID:         v.GetString("site_id"),
		Token:          v.GetString("token"),
		APIBaseURL:     v.GetString("api_base_url"),
		Timezone:       v.GetString("timezone"),
		Resolution:     netlify.Resolution(v.GetString("resolution")),
		RequestTimeout: v.GetDuration("request_timeout"),
		RefreshLimit:   v.GetInt("refresh_limit"),
		RefreshWindow:  v.GetDuration("refresh_window"),
	}
}
