// Seed posts demo tasks to a running server. Run from project root: go run ./scripts/seed -n 100
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"taskboard/internal/config"
	"taskboard/internal/models"
	"taskboard/internal/taskclient"
)

func main() {
	_ = godotenv.Load()

	total := flag.Int("n", 100, "number of tasks to create")
	parallel := flag.Int("p", 8, "concurrent requests")
	flag.Parse()

	cfg := config.Get()
	client := taskclient.New(cfg.ServerURL, cfg.APIPrefix)
	ctx := context.Background()
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency(*parallel))
	for i := 1; i <= *total; i++ {
		g.Go(func() error {
			_, err := client.CreateTask(gctx, models.Task{
				Title:       fmt.Sprintf("Task %d", i),
				Description: fmt.Sprintf("Description for task %d", i),
				IsCompleted: i%5 == 0,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, "Seed failed:", err)
		os.Exit(1)
	}

	fmt.Printf("Done: %d tasks in %v against %s%s\n", *total, time.Since(start), cfg.ServerURL, cfg.APIPrefix)
}

// concurrency clamps -p to at least one worker; errgroup blocks forever on a zero limit.
func concurrency(p int) int {
	if p < 1 {
		return 1
	}
	return p
}
