package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/palabra/internal/cli"
	"codeberg.org/snonux/palabra/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags, func(cmd *cobra.Command, action cli.Action, args []string) error {
		return runCommand(cmd, action, args, flags)
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Ctrl-C cancels in-flight AI requests and recordings
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, action cli.Action, args []string, flags *cli.Flags) error {
	// Config file values for flags left at their defaults
	cli.ApplyConfig(flags)

	logger, err := cli.NewLogger(flags.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx := cmd.Context()
	proc, err := processor.NewProcessor(ctx, flags, logger)
	if err != nil {
		return err
	}
	defer proc.Close()

	return proc.Run(ctx, action, args)
}
