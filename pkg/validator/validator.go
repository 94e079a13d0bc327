package validator

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/devicetree-org/dtschema/pkg/constants"
	"github.com/devicetree-org/dtschema/pkg/dtyaml"
	"github.com/devicetree-org/dtschema/pkg/schemas"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// MetaSchema is the compiled devicetree binding meta-schema. It is loaded
// once and shared read-only by every check.
type MetaSchema struct {
	schema *jsonschema.Schema
}

// newCompiler returns an engine compiler configured for the devicetree dialect
func newCompiler(resolver *schemas.Resolver) *jsonschema.Compiler {
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft6)
	c.AssertFormat()
	c.UseLoader(resolver.URLLoader())
	return c
}

// LoadMetaSchema compiles the bundled meta-schema, resolving its references
// through resolver.
func LoadMetaSchema(resolver *schemas.Resolver) (*MetaSchema, error) {
	url := constants.SchemaBaseURL + constants.MetaSchemaName
	sch, err := newCompiler(resolver).Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile meta-schema %s: %w", url, err)
	}
	return &MetaSchema{schema: sch}, nil
}

// IterSchemaErrors yields every meta-schema violation in a binding schema,
// located in the schema's source. The schema is not fixed up.
func (m *MetaSchema) IterSchemaErrors(schema *dtyaml.Node) iter.Seq[*Error] {
	return func(yield func(*Error) bool) {
		for e := range validationErrors(m.schema.Validate(schema.Plain()), schema) {
			if !yield(e) {
				return
			}
		}
	}
}

// CheckSchema validates a binding schema against the meta-schema and returns
// its fixed-up form. The first violation is returned as a *SchemaError and
// the input is never modified.
func (m *MetaSchema) CheckSchema(schema *dtyaml.Node) (*dtyaml.Node, error) {
	for e := range m.IterSchemaErrors(schema) {
		return nil, &SchemaError{Err: e}
	}
	return Fixup(schema), nil
}

// Validator checks devicetree data documents against one binding schema
type Validator struct {
	schema *jsonschema.Schema
	url    string
}

type config struct {
	resolver *schemas.Resolver
	baseURL  string
}

// Option configures a Validator
type Option func(*config)

// WithResolver sets the resolver used for schema references. The default
// resolver serves the bundled schema set.
func WithResolver(resolver *schemas.Resolver) Option {
	return func(c *config) {
		c.resolver = resolver
	}
}

// WithBaseURL sets the URL relative references in the schema resolve
// against, overriding the schema's $id.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// New compiles a binding schema, normally the output of CheckSchema
func New(schema *dtyaml.Node, opts ...Option) (*Validator, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.resolver == nil {
		cfg.resolver = schemas.NewResolver(schemas.Bundled())
	}

	url := cfg.baseURL
	if url == "" {
		url = schemaID(schema)
	}
	if url == "" {
		url = constants.AnonymousSchemaURL
	}

	c := newCompiler(cfg.resolver)
	if err := c.AddResource(url, schema.Plain()); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", url, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", url, err)
	}
	return &Validator{schema: sch, url: url}, nil
}

// URL returns the location the schema was compiled under
func (v *Validator) URL() string {
	return v.url
}

// IterErrors yields every violation of the schema by instance, located in
// the instance's source.
func (v *Validator) IterErrors(instance *dtyaml.Node) iter.Seq[*Error] {
	return func(yield func(*Error) bool) {
		for e := range validationErrors(v.schema.Validate(instance.Plain()), instance) {
			if !yield(e) {
				return
			}
		}
	}
}

// Errors collects IterErrors
func (v *Validator) Errors(instance *dtyaml.Node) []*Error {
	return slices.Collect(v.IterErrors(instance))
}

func schemaID(schema *dtyaml.Node) string {
	id, ok := schema.Get("$id")
	if !ok {
		return ""
	}
	s, ok := id.Value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSuffix(s, "#")
}
