package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/studybuddy/studybuddy/internal/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage scheduled tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch and list your tasks",
	RunE:  runTaskList,
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	RunE:  runTaskAdd,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskUndoneCmd = &cobra.Command{
	Use:   "undone [task-id]",
	Short: "Mark a task as incomplete",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskUndone,
}

var taskRmCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRm,
}

var (
	taskDesc   string
	taskStart  string
	taskEnd    string
	taskStatus string
)

func init() {
	taskCmd.AddCommand(taskListCmd, taskAddCmd, taskDoneCmd, taskUndoneCmd, taskRmCmd)

	taskAddCmd.Flags().StringVar(&taskDesc, "desc", "", "Task description (required)")
	taskAddCmd.Flags().StringVar(&taskStart, "start", "", "Start datetime, e.g. 2025-01-01T09:00 (required)")
	taskAddCmd.Flags().StringVar(&taskEnd, "end", "", "End datetime, e.g. 2025-01-01T10:00 (required)")
	taskAddCmd.Flags().StringVar(&taskStatus, "status", "pending", "Initial status (pending, incomplete, completed)")
	taskAddCmd.MarkFlagRequired("desc")
	taskAddCmd.MarkFlagRequired("start")
	taskAddCmd.MarkFlagRequired("end")
}

func runTaskList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.controller.FetchAll(cmd.Context())
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tSTATUS\tSTART\tEND")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			truncate(t.Description, 40),
			t.Status,
			models.FormatWireTime(t.StartsAt),
			models.FormatWireTime(t.EndsAt),
		)
	}
	w.Flush()
	return nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	start, err := models.ParseWireTime(taskStart)
	if err != nil {
		return err
	}
	end, err := models.ParseWireTime(taskEnd)
	if err != nil {
		return err
	}
	status := models.TaskStatus(taskStatus)
	if !models.ValidStatus(status) {
		return fmt.Errorf("invalid status %q (want pending, incomplete, or completed)", taskStatus)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.controller.Add(cmd.Context(), taskDesc, start, end, status)
	if err != nil {
		return err
	}

	fmt.Printf("Created task: %s\n", task.ID)
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	return updateStatus(cmd, args[0], models.TaskStatusCompleted)
}

func runTaskUndone(cmd *cobra.Command, args []string) error {
	return updateStatus(cmd, args[0], models.TaskStatusIncomplete)
}

func updateStatus(cmd *cobra.Command, id string, status models.TaskStatus) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.controller.UpdateStatus(cmd.Context(), id, status); err != nil {
		return err
	}

	fmt.Printf("Task %s marked %s\n", id, status)
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.controller.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted task: %s\n", args[0])
	return nil
}

// truncate shortens a string for table display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
