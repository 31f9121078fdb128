package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"taskboard/internal/config"
	"taskboard/internal/models"
	"taskboard/internal/taskclient"
)

func newTasksCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks on a running server",
	}
	cmd.PersistentFlags().StringVar(&server, "server", "", "server base URL (default $TASKBOARD_URL)")

	client := func() *taskclient.Client {
		cfg := config.Get()
		base := cfg.ServerURL
		if server != "" {
			base = server
		}
		return taskclient.New(base, cfg.APIPrefix)
	}

	var description string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := client().CreateTask(cmd.Context(), models.Task{
				Title:       strings.Join(args, " "),
				Description: description,
			})
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), t)
			return nil
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "task description")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List tasks, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				tasks, err := client().ListTasks(cmd.Context())
				if err != nil {
					return err
				}
				for _, t := range tasks {
					printTask(cmd.OutOrStdout(), t)
				}
				return nil
			},
		},
		add,
		&cobra.Command{
			Use:   "done <id>",
			Short: "Toggle completion of a task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				repo := taskclient.NewRepository(client())
				if err := repo.Load(cmd.Context()); err != nil {
					return err
				}
				t, err := repo.Toggle(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printTask(cmd.OutOrStdout(), t)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return client().DeleteTask(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}

func printTask(w io.Writer, t models.Task) {
	mark := " "
	if t.IsCompleted {
		mark = "x"
	}
	created := ""
	if t.CreatedAt != nil {
		created = time.UnixMilli(*t.CreatedAt).Format(time.DateTime)
	}
	fmt.Fprintf(w, "[%s] %s  %s  %s\n", mark, t.ID, created, t.Title)
}
