package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/devicetree-org/dtschema/pkg/console"
	"github.com/devicetree-org/dtschema/pkg/schemas"
	"github.com/devicetree-org/dtschema/pkg/validator"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 300 * time.Millisecond

// WatchDocValidate runs DocValidate on files and again whenever one of them
// changes, until interrupted.
func WatchDocValidate(w io.Writer, files []string, verbose, summary bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver := newResolver(verbose)
	meta, err := validator.LoadMetaSchema(resolver)
	if err != nil {
		return err
	}
	return watchDocValidate(ctx, w, meta, resolver, files, verbose, summary)
}

func watchDocValidate(ctx context.Context, w io.Writer, meta *validator.MetaSchema, resolver *schemas.Resolver, files []string, verbose, summary bool) error {
	watched := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{})
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", file, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("specified file does not exist: %s", file)
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so directories are watched
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	fmt.Fprintf(w, "Watching for changes to %d file(s)...\n", len(watched))
	if verbose {
		fmt.Fprintln(w, "Press Ctrl+C to stop watching.")
	}

	rerun := func(files []string) {
		if err := docValidateFiles(w, meta, resolver, files, verbose, summary); err != nil {
			fmt.Fprintln(w, console.FormatWarningMessage(err.Error()))
		} else {
			fmt.Fprintln(w, console.FormatSuccessMessage(fmt.Sprintf("%d file(s) valid", len(files))))
		}
	}
	rerun(files)

	var debounce <-chan time.Time
	modified := make(map[string]struct{})

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if _, ok := watched[event.Name]; !ok {
				continue
			}
			if verbose {
				fmt.Fprintln(w, console.FormatVerboseMessage(fmt.Sprintf("Detected change: %s (%s)", event.Name, event.Op.String())))
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				modified[event.Name] = struct{}{}
				debounce = time.After(debounceDelay)
			}

		case <-debounce:
			debounce = nil
			changed := make([]string, 0, len(modified))
			for file := range modified {
				if _, err := os.Stat(file); err == nil {
					changed = append(changed, file)
				}
			}
			modified = make(map[string]struct{})
			sort.Strings(changed)
			if len(changed) > 0 {
				rerun(changed)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if verbose {
				fmt.Fprintln(w, console.FormatWarningMessage(fmt.Sprintf("Watcher error: %v", err)))
			}

		case <-ctx.Done():
			if verbose {
				fmt.Fprintln(w, "Stopping watch mode...")
			}
			return nil
		}
	}
}
