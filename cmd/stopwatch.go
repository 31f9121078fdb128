package main

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"taskboard/internal/timer"
)

func newStopwatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stopwatch",
		Short: "Run a stopwatch until Enter is pressed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			sw := timer.New()
			sw.Start()

			enter := make(chan struct{})
			go func() {
				_, _ = bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				close(enter)
			}()

			tick := time.NewTicker(time.Second)
			defer tick.Stop()
			for {
				select {
				case <-tick.C:
					fmt.Fprintf(out, "\r%s", sw.Format())
				case <-enter:
					sw.Pause()
					fmt.Fprintf(out, "\r%s %s\n", sw.Format(), sw.Status())
					return nil
				case <-cmd.Context().Done():
					sw.Pause()
					fmt.Fprintf(out, "\r%s %s\n", sw.Format(), sw.Status())
					return nil
				}
			}
		},
	}
}
