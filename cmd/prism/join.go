package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cooldogedev/prism"
	"github.com/cooldogedev/prism/packet"
	"github.com/cooldogedev/prism/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	joinUsername string
	metricsAddr  string
)

func joinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join <addr>",
		Short: "Log in to a server and print every message received",
		Long: `Log in to a server in offline mode and print every message received
until the server disconnects or the command is interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(args[0])
		},
	}
	cmd.Flags().StringVarP(&joinUsername, "username", "u", "", "Name to log in with")
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "Serve Prometheus metrics on this address")
	return cmd
}

func runJoin(addr string) error {
	opts, err := loadOpts()
	if err != nil {
		return err
	}
	if joinUsername != "" {
		opts.Username = joinUsername
	}
	logger := newLogger()

	reg := prometheus.NewRegistry()
	if metricsAddr != "" {
		server := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: time.Second * 5,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to serve metrics", "err", err)
			}
		}()
		defer server.Close()
	}

	p, err := prism.New(opts, logger, reg)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := p.Dial(ctx, addr)
	if err != nil {
		return err
	}
	logger.Info("joined server", "addr", addr, "username", opts.Username, "version", s.Version().String())

	for {
		pk, err := s.Receive(ctx)
		if err != nil {
			var disconnect *session.DisconnectError
			switch {
			case errors.As(err, &disconnect):
				logger.Info("disconnected", "reason", disconnect.Reason)
				return nil
			case errors.Is(err, context.Canceled):
				return nil
			}
			return err
		}
		fmt.Printf("%s %v\n", pk.Kind(), packet.Describe(pk, s.Version()))
	}
}
