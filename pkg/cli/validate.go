package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/devicetree-org/dtschema/pkg/schemas"
	"github.com/devicetree-org/dtschema/pkg/validator"
)

// Validate checks devicetree data files against one or more bindings. Each
// binding is checked and fixed up once; data files are validated in parallel.
func Validate(w io.Writer, schemaFiles, dataFiles []string, verbose, summary bool) error {
	if len(schemaFiles) == 0 {
		return errors.New("at least one schema is required")
	}

	resolver := newResolver(verbose)
	meta, err := validator.LoadMetaSchema(resolver)
	if err != nil {
		return err
	}

	validators := make([]*validator.Validator, 0, len(schemaFiles))
	for _, file := range schemaFiles {
		v, err := loadBindingValidator(meta, resolver, file, verbose)
		if err != nil {
			return err
		}
		validators = append(validators, v)
	}

	results := checkFilesConcurrent(dataFiles, verbose, func(file string) fileResult {
		return validateDataFile(validators, file, verbose)
	})
	return report(w, results, verbose, summary)
}

// loadBindingValidator loads, checks and compiles one binding
func loadBindingValidator(meta *validator.MetaSchema, resolver *schemas.Resolver, file string, verbose bool) (*validator.Validator, error) {
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
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	v, err := validator.New(fixed, validator.WithResolver(resolver))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return v, nil
}

func validateDataFile(validators []*validator.Validator, file string, verbose bool) fileResult {
	result := fileResult{file: file}

	instance, err := loadYAMLFile(file)
	if err != nil {
		result.fail(err)
		return result
	}

	for _, v := range validators {
		for e := range v.IterErrors(instance) {
			result.add(validator.FormatError(file, e, verbose))
		}
	}
	return result
}
