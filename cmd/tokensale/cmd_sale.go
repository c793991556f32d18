package main

import (
	"fmt"

	"github.com/meverselabs/tokensale/cmd/config"
	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/spf13/cobra"
)

func withApp(cfg *config.Config, fn func(a *app) error) error {
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func timestampOf(flag uint64) uint64 {
	if flag > 0 {
		return flag
	}
	return now()
}

func toArgs(args []string) []interface{} {
	is := make([]interface{}, len(args))
	for i, v := range args {
		is[i] = v
	}
	return is
}

func printResults(cmd *cobra.Command, is []interface{}) {
	for _, v := range is {
		switch v := v.(type) {
		case []common.Address:
			for _, addr := range v {
				fmt.Fprintln(cmd.OutOrStdout(), addr.String())
			}
		case fmt.Stringer:
			fmt.Fprintln(cmd.OutOrStdout(), v.String())
		default:
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
	}
}

func initCommand(cfg *config.Config) *cobra.Command {
	var timestamp uint64
	cmd := &cobra.Command{
		Use:   "init",
		Short: "deploys the sale and its token with the configured construction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(a *app) error {
				sale, token, err := a.deploySale(timestampOf(timestamp))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "sale", sale.String())
				fmt.Fprintln(cmd.OutOrStdout(), "token", token.String())
				return nil
			})
		},
	}
	cmd.Flags().Uint64Var(&timestamp, "time", 0, "unix time of the operation, now when zero")
	return cmd
}

func fundCommand(cfg *config.Config) *cobra.Command {
	var timestamp uint64
	cmd := &cobra.Command{
		Use:   "fund [address] [amount]",
		Short: "credits native value to the address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := common.ParseAddress(args[0])
			if err != nil {
				return err
			}
			am, err := amount.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return withApp(cfg, func(a *app) error {
				return a.fund(timestampOf(timestamp), addr, am)
			})
		},
	}
	cmd.Flags().Uint64Var(&timestamp, "time", 0, "unix time of the operation, now when zero")
	return cmd
}

func execCommand(cfg *config.Config) *cobra.Command {
	var timestamp uint64
	var value string
	cmd := &cobra.Command{
		Use:   "exec [from] [contract] [method] (args...)",
		Short: "executes the method of the contract and commits the result",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := common.ParseAddress(args[0])
			if err != nil {
				return err
			}
			to, err := common.ParseAddress(args[1])
			if err != nil {
				return err
			}
			var am *amount.Amount
			if len(value) > 0 {
				if am, err = amount.ParseAmount(value); err != nil {
					return err
				}
			}
			return withApp(cfg, func(a *app) error {
				is, err := a.execute(timestampOf(timestamp), from, to, am, args[2], toArgs(args[3:]))
				if err != nil {
					return err
				}
				printResults(cmd, is)
				return nil
			})
		},
	}
	cmd.Flags().Uint64Var(&timestamp, "time", 0, "unix time of the operation, now when zero")
	cmd.Flags().StringVar(&value, "value", "", "native value paid with the call")
	return cmd
}

func callCommand(cfg *config.Config) *cobra.Command {
	var timestamp uint64
	var from string
	cmd := &cobra.Command{
		Use:   "call [contract] [method] (args...)",
		Short: "calls the method of the contract without committing",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := common.ParseAddress(args[0])
			if err != nil {
				return err
			}
			caller, err := optionalAddress(from)
			if err != nil {
				return err
			}
			return withApp(cfg, func(a *app) error {
				is, err := a.call(timestampOf(timestamp), caller, to, args[1], toArgs(args[2:]))
				if err != nil {
					return err
				}
				printResults(cmd, is)
				return nil
			})
		},
	}
	cmd.Flags().Uint64Var(&timestamp, "time", 0, "unix time of the call, now when zero")
	cmd.Flags().StringVar(&from, "from", "", "address of the caller")
	return cmd
}
