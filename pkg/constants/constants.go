package constants

// CLIName is the command name used in user-facing output
const CLIName = "dt-schema"

// SchemaBaseURL is the namespace of every devicetree schema. References under
// it are served from the bundled schema set and never fetched.
const SchemaBaseURL = "http://devicetree.org/"

// MetaSchemaName is the bundled resource holding the binding meta-schema
const MetaSchemaName = "meta-schemas/core.yaml"

// AnonymousSchemaURL is used as the base URL of bindings that carry no $id
const AnonymousSchemaURL = SchemaBaseURL + "schemas/anonymous.yaml"

// SizeKeywords are the array size keywords that stop the fixed-size items rewrite
var SizeKeywords = []string{"minItems", "maxItems", "additionalItems"}

// MaxConcurrentFiles bounds the number of files validated in parallel by the CLI
const MaxConcurrentFiles = 8
