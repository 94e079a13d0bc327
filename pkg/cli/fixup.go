package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/devicetree-org/dtschema/pkg/console"
	"github.com/devicetree-org/dtschema/pkg/dtyaml"
	"github.com/devicetree-org/dtschema/pkg/validator"
)

// FixupSchemas checks each binding and prints its fixed-up form as YAML.
// With write set the files are rewritten in place instead; if any file
// fails, the files already rewritten are restored.
func FixupSchemas(w io.Writer, files []string, write, verbose bool) error {
	meta, err := validator.LoadMetaSchema(newResolver(verbose))
	if err != nil {
		return err
	}

	tracker := NewFileTracker()
	for i, file := range files {
		out, err := fixupFile(meta, file, verbose)
		if err == nil && write {
			tracker.TrackModified(file)
			err = os.WriteFile(file, out, 0644)
		}
		if err != nil {
			if write {
				if rbErr := tracker.RollbackModifiedFiles(verbose); rbErr != nil {
					return errors.Join(err, rbErr)
				}
			}
			return err
		}

		if write {
			if verbose {
				fmt.Fprintln(w, console.FormatSuccessMessage(fmt.Sprintf("Rewrote %s", console.ToRelativePath(file))))
			}
			continue
		}
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(w, "---")
			}
			fmt.Fprintf(w, "# %s\n", file)
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}

func fixupFile(meta *validator.MetaSchema, file string, verbose bool) ([]byte, error) {
	schema, err := loadYAMLFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	fixed, err := meta.CheckSchema(schema)
	if err != nil {
		var schemaErr *validator.SchemaError
		if errors.As(err, &schemaErr) {
			return nil, fmt.Errorf("invalid binding: %s", validator.FormatError(file, schemaErr.Err, verbose))
		}
		return nil, err
	}

	out, err := dtyaml.Marshal(fixed)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to write YAML: %w", file, err)
	}
	return out, nil
}
