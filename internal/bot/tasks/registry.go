package tasks

import (
	"context"
)

// ScheduledTaskFunc is the standard signature for all scheduled tasks.
// The context provided by the scheduler should be respected for
// cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// ScheduledTask couples a task function with its cron schedule.
type ScheduledTask struct {
	Schedule string
	Run      ScheduledTaskFunc
}

// RegisterAllTasks initializes and returns a map of all scheduled tasks
// keyed by name. Schedules come from the configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTask {
	tasks := make(map[string]ScheduledTask)

	tasks["sql_maintenance"] = ScheduledTask{
		Schedule: deps.Config.Scheduler.MaintenanceCron,
		Run:      newSQLMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
