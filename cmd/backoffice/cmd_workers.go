package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sudeviagro/backoffice/config"
)

var queueWorkersFlag int

// backoffice queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue workers (lead notifications)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, cleanup, err := boot(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = config.QueueWorkers()
		}

		fmt.Printf("Queue worker started (%d workers, %s driver). Press Ctrl+C to stop.\n", workers, config.QueueDriver())
		wg := app.Queue.Start(ctx, workers)
		<-ctx.Done()
		wg.Wait()
		fmt.Println("Queue worker stopped.")
		return nil
	},
}

// backoffice schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the scheduler (merchant auto-sync)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, cleanup, err := boot(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := app.Deps.Merchant.Reschedule(ctx); err != nil {
			return err
		}
		entries := app.Scheduler.Entries()
		if len(entries) == 0 {
			fmt.Println("No scheduled tasks. Enable auto_sync in the merchant settings.")
		} else {
			fmt.Println("Scheduled tasks:")
			for _, e := range entries {
				fmt.Printf("  • %s (%s) next %s\n", e.Name, e.Spec, e.Next.Format("2006-01-02 15:04 MST"))
			}
		}

		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		app.Scheduler.Start()
		<-ctx.Done()
		fmt.Println("Scheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "Number of concurrent workers (default QUEUE_WORKERS)")
}
