package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/devicetree-org/dtschema/pkg/console"
	"github.com/devicetree-org/dtschema/pkg/dtyaml"
)

// Locate prints the source position of the node addressed by a JSON
// pointer, as file:line:col. verbose also shows the surrounding lines.
func Locate(w io.Writer, file, pointer string, verbose bool) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	tree, err := dtyaml.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	path, err := dtyaml.ParsePointer(pointer)
	if err != nil {
		return err
	}

	lc, ok := dtyaml.LineColOf(tree, path, nil)
	if !ok {
		return fmt.Errorf("%s: no node at %s", file, pointer)
	}

	abs, err := filepath.Abs(file)
	if err != nil {
		abs = file
	}
	fmt.Fprintf(w, "%s:%s\n", abs, lc)

	if verbose {
		source := strings.Split(string(data), "\n")
		fmt.Fprint(w, console.FormatSourceContext(source, lc.Line+1, lc.Col+1, 2))
	}
	return nil
}
