//go:build statum

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eboody/statum"
)

//statum:state
type JobState interface {
	Queued()
	Running(string)
	Failed()
}

//statum:machine
type Job[JobState any] struct {
	Queue string
}

//statum:validators Job
type Entry struct {
	Worker   string
	Delay    time.Duration
	Canceled bool
}

func (e Entry) IsQueued(ctx context.Context) error {
	// Slow entries finish last but keep their position.
	select {
	case <-time.After(e.Delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	if e.Worker != "" {
		return errors.New("picked up")
	}
	if e.Canceled {
		return errors.New("canceled")
	}
	return nil
}

func (e Entry) IsRunning(ctx context.Context, queue string) (string, error) {
	if e.Worker == "" || e.Worker == "crashed" {
		return "", fmt.Errorf("not running on %s", queue)
	}
	return e.Worker, nil
}

func (e Entry) IsFailed() error {
	if e.Worker != "crashed" {
		return errors.New("not failed")
	}
	return nil
}

func main() {
	ctx := context.Background()
	entries := []Entry{
		{Delay: 30 * time.Millisecond},
		{Worker: "w1"},
		{Worker: "crashed", Delay: 10 * time.Millisecond},
		{Canceled: true, Delay: 20 * time.Millisecond},
	}
	for i, res := range JobsFromEntry(ctx, entries, "default") {
		job, err := res.Get()
		if err != nil {
			fmt.Println(i, "error:", err, errors.Is(err, statum.ErrInvalidState))
			continue
		}
		if running, ok := job.(Job[Running]); ok {
			fmt.Println(i, job.StateName(), running.State().Data(), running.Queue)
			continue
		}
		fmt.Println(i, job.StateName())
	}

	_, err := entries[0].TryToRunning(ctx, "default")
	fmt.Println(err)

	// The failed predicate takes no context, so neither does its method.
	failed, _ := entries[2].TryToFailed("default")
	fmt.Println(failed.StateName())
}
