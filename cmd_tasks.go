package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"kuchen/catalog"
)

func newTasksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the exam tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), tasksTable(catalog.All()))
			return nil
		},
	}
}

func tasksTable(tasks []catalog.Task) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Aufgabe", "Vorbereitung", "Sprechen", "Register", "Grafik")
	for _, task := range tasks {
		chart := ""
		if task.RequiresChart() {
			chart = "ja"
		}
		t.Row(
			strconv.Itoa(task.ID),
			task.Title,
			fmt.Sprintf("%d s", task.PrepSeconds),
			fmt.Sprintf("%d s", task.SpeakSeconds),
			task.Register,
			chart,
		)
	}
	return t.String()
}
