package main

import (
	"fmt"

	"github.com/meverselabs/tokensale/cmd/config"
	"github.com/meverselabs/tokensale/core/store"
	"github.com/spf13/cobra"
)

func stateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "prints the stored heights and the latest state hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(a *app) error {
				s, err := a.st.Latest()
				if err != nil {
					return err
				}
				heights, err := a.st.Heights()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "height", s.Height)
				fmt.Fprintln(cmd.OutOrStdout(), "timestamp", s.Timestamp)
				fmt.Fprintln(cmd.OutOrStdout(), "hash", s.Hash().String())
				fmt.Fprintln(cmd.OutOrStdout(), "stored", heights)
				return nil
			})
		},
	}
}

func dumpCommand(cfg *config.Config) *cobra.Command {
	var height uint32
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "prints the whole state of the height, the latest when zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(a *app) error {
				var s *store.Snapshot
				var err error
				if height == 0 {
					s, err = a.st.Latest()
				} else {
					s, err = a.st.Snapshot(height)
				}
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), s.Context().Dump())
				return nil
			})
		},
	}
	cmd.Flags().Uint32Var(&height, "height", 0, "height to dump")
	return cmd
}
