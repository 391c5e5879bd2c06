package main

import (
	"fmt"

	"wishbot/internal/logging"
	"wishbot/internal/notify"

	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run a single reminder pass and exit",
	Long: `Plans and sends the reminders due now, the same pass the scheduler
runs every interval. Useful from cron when "run" is not deployed.`,
	RunE: runNotify,
}

func runNotify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	sender, err := a.telegram()
	if err != nil {
		return err
	}

	cfg := a.cfg.Notifications
	gateway := notify.NewTelegramGateway(sender, cfg.SendRPS, cfg.SendRetries, logging.Component(a.logger, "gateway"))
	scheduler := notify.NewScheduler(notify.NewPlanner(a.db, cfg), gateway, nil, cfg, a.logger)

	res, err := scheduler.RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "planned=%d sent=%d failed=%d\n", res.Planned, res.Sent, res.Failed)
	return nil
}
