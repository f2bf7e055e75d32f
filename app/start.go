package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kajilog/kajilog/internal/config"
	"github.com/kajilog/kajilog/internal/daemon"
	"github.com/kajilog/kajilog/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	configPath string // Path to the configuration directory

	cfg     config.Config
	err     error
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the kajilog web service",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if devMode {
				cfg.DevMode = true
			}

			if err = logger.Init(cfg.Log); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			d := daemon.New(&cfg)

			go func() {
				if errStart := d.Start(fmt.Sprintf(":%d", cfg.Webserver.Port)); errStart != nil {
					panic(errStart)
				}
			}()

			d.WaitShutdown()

			return nil
		},
	}
)
