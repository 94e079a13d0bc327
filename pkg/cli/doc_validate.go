package cli

import (
	"fmt"
	"io"

	"github.com/devicetree-org/dtschema/pkg/schemas"
	"github.com/devicetree-org/dtschema/pkg/validator"
)

// DocValidate checks binding schemas against the devicetree meta-schema and
// reports every violation. Bindings that pass are fixed up and compiled so
// that broken references are reported too.
func DocValidate(w io.Writer, files []string, verbose, summary bool) error {
	resolver := newResolver(verbose)
	meta, err := validator.LoadMetaSchema(resolver)
	if err != nil {
		return err
	}
	return docValidateFiles(w, meta, resolver, files, verbose, summary)
}

func docValidateFiles(w io.Writer, meta *validator.MetaSchema, resolver *schemas.Resolver, files []string, verbose, summary bool) error {
	results := checkFilesConcurrent(files, verbose, func(file string) fileResult {
		return docValidateFile(meta, resolver, file, verbose)
	})
	return report(w, results, verbose, summary)
}

func docValidateFile(meta *validator.MetaSchema, resolver *schemas.Resolver, file string, verbose bool) fileResult {
	result := fileResult{file: file}

	schema, err := loadYAMLFile(file)
	if err != nil {
		result.fail(err)
		return result
	}

	for e := range meta.IterSchemaErrors(schema) {
		result.add(validator.FormatError(file, e, verbose))
	}
	if result.errors > 0 {
		return result
	}

	if _, err := validator.New(validator.Fixup(schema), validator.WithResolver(resolver)); err != nil {
		result.fail(fmt.Errorf("schema does not compile: %w", err))
	}
	return result
}
