package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/justin-/privacybadgerfirefox/internal/app"
	"github.com/justin-/privacybadgerfirefox/internal/config"
	"github.com/justin-/privacybadgerfirefox/internal/domain"
	"github.com/justin-/privacybadgerfirefox/internal/psl"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "badger-service",
		Short:         "Third-party request classification service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd(), newCheckCmd(), newBaseDomainCmd(), newParentsCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the classification HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			return app.Run(ctx, cfg)
		},
	}
}

// The one-shot commands run on the embedded suffix list; they are meant for
// scripting and debugging, not for keeping a fresh list.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check REQUEST_URL DOCUMENT_URL",
		Short: "Classify a request/document URL pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := domain.NewClassifier(psl.Embedded{}, domain.DefaultFixtureURLs, nil)
			third, err := c.IsThirdPartyURI(args[0], args[1])
			if err != nil {
				return err
			}
			if third {
				cmd.Println("third-party")
			} else {
				cmd.Println("first-party")
			}
			return nil
		},
	}
}

func newBaseDomainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "base-domain HOST",
		Short: "Print the registrable base domain of a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := domain.NormalizeHost(args[0])
			if err != nil {
				return err
			}
			base, err := domain.NewHierarchy(psl.Embedded{}).BaseDomain(host)
			if err != nil {
				return err
			}
			cmd.Println(base)
			return nil
		},
	}
}

func newParentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parents HOST",
		Short: "Print the ancestor chain of a host down to its base domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := domain.NormalizeHost(args[0])
			if err != nil {
				return err
			}
			chain, err := domain.NewHierarchy(psl.Embedded{}).ParentChain(host)
			if err != nil {
				return err
			}
			for _, c := range chain {
				cmd.Println(c)
			}
			return nil
		},
	}
}
