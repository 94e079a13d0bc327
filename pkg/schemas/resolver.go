package schemas

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/devicetree-org/dtschema/pkg/console"
	"github.com/devicetree-org/dtschema/pkg/constants"
	"github.com/devicetree-org/dtschema/pkg/dtyaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Resolver answers schema references for the validation engine. URIs in the
// devicetree namespace are served from the Store; other http URIs are
// fetched and parsed as YAML.
type Resolver struct {
	store   *Store
	client  *http.Client
	verbose bool
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithHTTPClient sets the client used for non-devicetree http references
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithVerbose reports every resolved reference on stderr
func WithVerbose(verbose bool) ResolverOption {
	return func(r *Resolver) {
		r.verbose = verbose
	}
}

// NewResolver returns a resolver backed by store
func NewResolver(store *Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:  store,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the bundle the resolver reads devicetree schemas from
func (r *Resolver) Store() *Store {
	return r.store
}

// Resolve returns the tracked document for an http reference
func (r *Resolver) Resolve(uri string) (*dtyaml.Node, error) {
	if strings.Contains(uri, constants.SchemaBaseURL) {
		name := strings.ReplaceAll(uri, constants.SchemaBaseURL, "")
		name, _, _ = strings.Cut(name, "#")
		if r.verbose {
			fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Resolving %s from bundled %s", uri, name)))
		}
		return r.store.LoadSchema(name)
	}
	return r.fetch(uri)
}

func (r *Resolver) fetch(uri string) (*dtyaml.Node, error) {
	if r.verbose {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Fetching %s", uri)))
	}
	resp, err := r.client.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL %s: HTTP %d", uri, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", uri, err)
	}
	doc, err := dtyaml.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode YAML from %s: %w", uri, err)
	}
	return doc, nil
}

// Load implements jsonschema.URLLoader for the http scheme
func (r *Resolver) Load(uri string) (any, error) {
	doc, err := r.Resolve(uri)
	if err != nil {
		return nil, err
	}
	return doc.Plain(), nil
}

// URLLoader returns the loader to install into a jsonschema.Compiler
func (r *Resolver) URLLoader() jsonschema.URLLoader {
	return jsonschema.SchemeURLLoader{
		"http": r,
		"file": fileLoader{},
	}
}

// fileLoader reads local schema files as YAML. JSON documents are YAML too.
type fileLoader struct{}

func (fileLoader) Load(uri string) (any, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid file URL %s: %w", uri, err)
	}
	f, err := os.Open(u.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := dtyaml.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.Path, err)
	}
	return doc.Plain(), nil
}
