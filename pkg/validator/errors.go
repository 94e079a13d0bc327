package validator

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/devicetree-org/dtschema/pkg/dtyaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Error is a single validation failure located in the validated document
type Error struct {
	// Message is the short description of the failure
	Message string
	// Path is the instance path of the offending value
	Path []string
	// Keyword is the schema keyword that failed, e.g. "enum"
	Keyword string
	// LineCol is the 0-indexed source position, nil when unknown
	LineCol *dtyaml.LineCol
	// SchemaURL is the absolute location of the failing keyword
	SchemaURL string
	// Instance is the offending value
	Instance any
	// Context holds the branch failures of an anyOf or oneOf
	Context []*Error
}

func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", dtyaml.FormatPointer(e.Path), e.Message)
}

// Detail renders the error with its schema location, offending value and
// any branch failures, one per line.
func (e *Error) Detail() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.SchemaURL != "" {
		fmt.Fprintf(&b, "\n\tschema: %s", e.SchemaURL)
	}
	if e.Instance != nil {
		fmt.Fprintf(&b, "\n\tinstance: %v", e.Instance)
	}
	for _, c := range e.Context {
		fmt.Fprintf(&b, "\n\t%s", strings.ReplaceAll(c.Error(), "\n", "\n\t"))
	}
	return b.String()
}

// SchemaError reports a binding schema that does not conform to the
// devicetree meta-schema.
type SchemaError struct {
	Err *Error
}

func (e *SchemaError) Error() string {
	return "schema is invalid: " + e.Err.Error()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// validationErrors turns the result of an engine Validate call into located
// errors, resolving positions against tree.
func validationErrors(err error, tree *dtyaml.Node) iter.Seq[*Error] {
	return func(yield func(*Error) bool) {
		if err == nil {
			return
		}
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			yield(&Error{Message: err.Error()})
			return
		}
		walkLeaves(ve, func(leaf *jsonschema.ValidationError) bool {
			return yield(newError(leaf, tree))
		})
	}
}

// walkLeaves visits the failures worth reporting. Wrappers that only group
// their causes ($ref, allOf, subschemas) are skipped; anyOf and oneOf are
// reported as a whole.
func walkLeaves(ve *jsonschema.ValidationError, visit func(*jsonschema.ValidationError) bool) bool {
	kw := keywordOf(ve)
	if len(ve.Causes) == 0 || kw == "anyOf" || kw == "oneOf" {
		return visit(ve)
	}
	for _, cause := range ve.Causes {
		if !walkLeaves(cause, visit) {
			return false
		}
	}
	return true
}

func newError(ve *jsonschema.ValidationError, tree *dtyaml.Node) *Error {
	e := &Error{
		Path:      slices.Clone(ve.InstanceLocation),
		Keyword:   keywordOf(ve),
		SchemaURL: ve.SchemaURL,
	}
	if e.Path == nil {
		e.Path = []string{}
	}
	if ve.ErrorKind != nil {
		e.Message = ve.ErrorKind.LocalizedString(printer)
		if kp := ve.ErrorKind.KeywordPath(); len(kp) > 0 {
			e.SchemaURL = strings.TrimSuffix(ve.SchemaURL, "/") + "/" + strings.Join(kp, "/")
		}
	}

	node, found := dtyaml.Lookup(tree, e.Path)
	if found {
		e.Instance = node.Plain()
	} else {
		node = nil
	}
	if lc, ok := dtyaml.LineColOf(tree, e.Path, node); ok {
		e.LineCol = &lc
	}

	if e.Keyword == "anyOf" || e.Keyword == "oneOf" {
		for _, cause := range ve.Causes {
			walkLeaves(cause, func(leaf *jsonschema.ValidationError) bool {
				e.Context = append(e.Context, newError(leaf, tree))
				return true
			})
		}
	}
	return e
}

// keywordOf returns the failing keyword, falling back to the last component
// of the schema location for kinds without a keyword path (false schemas).
func keywordOf(ve *jsonschema.ValidationError) string {
	if ve.ErrorKind != nil {
		if kp := ve.ErrorKind.KeywordPath(); len(kp) > 0 {
			return kp[len(kp)-1]
		}
	}
	if ve.ErrorKind == nil || len(ve.Causes) > 0 {
		return ""
	}
	_, frag, ok := strings.Cut(ve.SchemaURL, "#")
	if !ok || frag == "" {
		return ""
	}
	return frag[strings.LastIndex(frag, "/")+1:]
}
