package main

import (
	"os"

	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}
