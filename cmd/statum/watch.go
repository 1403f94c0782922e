package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	statuminternal "github.com/eboody/statum/internal/statum"
)

// debounce is how long watch waits for more changes before regenerating.
// Editors often write a file in several steps.
const debounce = 200 * time.Millisecond

// watch generates the packages, then regenerates them whenever a Go file in
// their directories changes, until ctx is done. Statum errors are printed
// and do not stop watching.
func watch(ctx context.Context, wd string, cfg Config, patterns []string, color bool) error {
	log := zerolog.Ctx(ctx)

	dirs, err := statuminternal.PackageDirs(ctx, wd, os.Environ(), cfg.Tags, cfg.Tests, patterns)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(wd, dir)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	log.Info().Strs("dirs", dirs).Msg("watching")

	generate(ctx, wd, cfg, patterns, color)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopped watching")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !triggers(ev, cfg.Output) {
				continue
			}
			log.Debug().Str("file", ev.Name).Stringer("op", ev.Op).Msg("changed")
			fire = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")

		case <-fire:
			fire = nil
			log.Info().Msg("regenerating")
			generate(ctx, wd, cfg, patterns, color)
		}
	}
}

// triggers reports whether an event should regenerate the packages. Changes
// of generated files are ignored, otherwise every generation would trigger
// the next one.
func triggers(ev fsnotify.Event, output string) bool {
	if filepath.Ext(ev.Name) != ".go" || filepath.Base(ev.Name) == output {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
