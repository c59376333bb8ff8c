package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crewboard/crewboard/internal/trigger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the task-event worker",
	Long:  "Consumes board task events from Kafka and triggers agent runs for TODO tasks assigned to bots.",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.Trigger.Enabled {
		return fmt.Errorf("trigger worker is disabled; set CREWBOARD_TRIGGER_ENABLED=true")
	}

	consumer := trigger.NewKafkaConsumer(
		a.cfg.Trigger.Brokers,
		a.cfg.Trigger.ConsumerGroup,
		a.cfg.Trigger.Topic,
	)
	worker := trigger.NewWorker(a.store, consumer, a.runner)
	worker.SetNotifier(a.notifier)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("worker started",
		"brokers", a.cfg.Trigger.Brokers,
		"topic", a.cfg.Trigger.Topic,
		"group", a.cfg.Trigger.ConsumerGroup)

	// Pick up tasks that became due while no worker was listening.
	worker.Sweep(ctx)
	return worker.Run(ctx)
}
