// cmd/probe.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amagee/webdriver-components/internal/observability"
	"github.com/amagee/webdriver-components/pkg/driver/cdp"
	"github.com/amagee/webdriver-components/pkg/pageobject"
)

var (
	probeURL      string
	probeSelector string
	probeTimeout  time.Duration
	probePoll     time.Duration
)

// probeCmd is an operational smoke tool: navigate to a URL and read the text
// of one selector through the full resolution + retry pipeline. Useful for
// checking a selector against a live page before wiring it into a schema.
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Navigate to a URL and read one selector's text with retry.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if probeURL == "" || probeSelector == "" {
			return fmt.Errorf("both --url and --selector are required")
		}

		logger := observability.GetLogger()
		ctx := cmd.Context()

		session, err := cdp.NewSession(ctx, cfg.Browser, logger)
		if err != nil {
			return fmt.Errorf("starting browser: %w", err)
		}
		defer session.Close()

		if err := session.Navigate(ctx, probeURL); err != nil {
			return err
		}

		registry := pageobject.NewRegistry()
		registry.MustRegister(&pageobject.Schema{
			Name: "probe",
			Slots: map[string]pageobject.Descriptor{
				"target": {Selector: probeSelector},
			},
		})

		policy := pageobject.Policy{Timeout: cfg.Retry.Timeout, PollInterval: cfg.Retry.PollInterval}
		if probeTimeout > 0 {
			policy.Timeout = probeTimeout
		}
		if probePoll > 0 {
			policy.PollInterval = probePoll
		}

		page := pageobject.New(session, registry,
			pageobject.WithPolicy(policy),
			pageobject.WithLogger(logger.Named("pageobject")),
		)

		start := time.Now()
		text, err := page.Component("probe").Element("target").Text(ctx)
		if err != nil {
			return err
		}
		logger.Debug("probe resolved",
			zap.String("selector", probeSelector),
			zap.Duration("elapsed", time.Since(start)))

		fmt.Println(text)
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeURL, "url", "", "page to navigate to")
	probeCmd.Flags().StringVar(&probeSelector, "selector", "", "CSS selector to read")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 0, "overall retry deadline (default from config)")
	probeCmd.Flags().DurationVar(&probePoll, "poll-interval", 0, "delay between attempts (default from config)")
	rootCmd.AddCommand(probeCmd)
}
