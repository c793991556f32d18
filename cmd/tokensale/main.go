package main

import (
	"fmt"
	"os"

	"github.com/meverselabs/tokensale/cmd/config"
	"github.com/meverselabs/tokensale/common/rlog"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error :", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configPath string
	var envFile string
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "tokensale",
		Short:         "runs a permissioned token sale on a local state store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath, envFile)
			if err != nil {
				return err
			}
			if _, err := rlog.Configure(c.Log); err != nil {
				return err
			}
			*cfg = *c
			return nil
		},
	}
	cfg = config.Default()
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path of the toml or yaml config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path of the env file")

	rootCmd.AddCommand(initCommand(cfg))
	rootCmd.AddCommand(fundCommand(cfg))
	rootCmd.AddCommand(execCommand(cfg))
	rootCmd.AddCommand(callCommand(cfg))
	rootCmd.AddCommand(stateCommand(cfg))
	rootCmd.AddCommand(dumpCommand(cfg))
	return rootCmd
}
