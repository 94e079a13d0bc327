package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/devicetree-org/dtschema/pkg/console"
	"github.com/devicetree-org/dtschema/pkg/constants"
	"github.com/devicetree-org/dtschema/pkg/dtyaml"
	"github.com/devicetree-org/dtschema/pkg/schemas"
	"github.com/sourcegraph/conc/pool"
)

// ErrValidationFailed is returned when at least one error was reported
var ErrValidationFailed = errors.New("validation failed")

// Package-level version information
var (
	version = "dev"
)

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v string) {
	version = v
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}

// fileResult is the report for one checked file
type fileResult struct {
	index  int
	file   string
	lines  []string
	errors int
}

func (r *fileResult) add(line string) {
	r.lines = append(r.lines, line)
	r.errors++
}

// fail records an error that stopped the file from being checked. YAML
// errors are reported at their position.
func (r *fileResult) fail(err error) {
	abs, absErr := filepath.Abs(r.file)
	if absErr != nil {
		abs = r.file
	}
	var parseErr *dtyaml.ParseError
	if errors.As(err, &parseErr) && parseErr.Pos != nil {
		r.add(fmt.Sprintf("%s:%s: %s", abs, parseErr.Pos, parseErr.Message))
		return
	}
	r.add(fmt.Sprintf("%s: %v", abs, err))
}

func newResolver(verbose bool) *schemas.Resolver {
	return schemas.NewResolver(schemas.Bundled(), schemas.WithVerbose(verbose))
}

// loadYAMLFile reads and parses a binding or data file
func loadYAMLFile(path string) (*dtyaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return dtyaml.Parse(data)
}

// checkFilesConcurrent runs check over files in parallel and returns the
// results in input order
func checkFilesConcurrent(files []string, verbose bool, check func(file string) fileResult) []fileResult {
	if len(files) == 0 {
		return nil
	}

	var spinner *console.SpinnerWrapper
	if !verbose && len(files) > 1 {
		spinner = console.NewSpinner(fmt.Sprintf("Validating %d files...", len(files)))
		spinner.Start()
	}

	p := pool.NewWithResults[fileResult]().WithMaxGoroutines(constants.MaxConcurrentFiles)
	for i, file := range files {
		p.Go(func() fileResult {
			if verbose {
				fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Checking %s", file)))
			}
			result := check(file)
			result.index = i
			result.file = file
			return result
		})
	}
	results := p.Wait()

	if spinner != nil {
		spinner.Stop()
	}

	sort.Slice(results, func(a, b int) bool {
		return results[a].index < results[b].index
	})
	return results
}

// report prints every result line, the optional summary table, and returns
// ErrValidationFailed when anything was reported
func report(w io.Writer, results []fileResult, verbose, summary bool) error {
	total, failed := 0, 0
	for _, r := range results {
		for _, line := range r.lines {
			fmt.Fprintln(w, console.FormatReportLine(line))
		}
		if r.errors > 0 {
			failed++
		} else if verbose {
			fmt.Fprintln(w, console.FormatSuccessMessage(fmt.Sprintf("%s is valid", console.ToRelativePath(r.file))))
		}
		total += r.errors
	}

	if summary && len(results) > 0 {
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{console.ToRelativePath(r.file), strconv.Itoa(r.errors)})
		}
		fmt.Fprint(w, console.RenderTable(console.TableConfig{
			Title:     "Validation Summary",
			Headers:   []string{"File", "Errors"},
			Rows:      rows,
			ShowTotal: true,
			TotalRow:  []string{"TOTAL", strconv.Itoa(total)},
		}))
	}

	if total > 0 {
		return fmt.Errorf("%w: %d error(s) in %d file(s)", ErrValidationFailed, total, failed)
	}
	return nil
}
