package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cooldogedev/prism"
	"github.com/spf13/cobra"
)

var statusTimeout time.Duration

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <addr>",
		Short: "Query the status of a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), args[0])
		},
	}
	cmd.Flags().DurationVar(&statusTimeout, "timeout", time.Second*5, "Time allowed for the query")
	return cmd
}

func runStatus(ctx context.Context, addr string) error {
	opts, err := loadOpts()
	if err != nil {
		return err
	}
	p, err := prism.New(opts, newLogger(), nil)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()
	result, err := p.Status(ctx, addr)
	if err != nil {
		return err
	}

	status := result.Status
	fmt.Printf("version: %s (%d)\n", status.Version.Name, status.Version.Protocol)
	fmt.Printf("players: %d/%d\n", status.Players.Online, status.Players.Max)
	for _, player := range status.Players.Sample {
		fmt.Printf("  %s %s\n", player.Name, player.ID)
	}
	fmt.Printf("motd:    %s\n", status.MOTD())
	fmt.Printf("latency: %s\n", result.Latency.Round(time.Millisecond))
	return nil
}
