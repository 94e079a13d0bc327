package schemas

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func offlineClient(t *testing.T) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Errorf("unexpected network request to %s", req.URL)
		return nil, errors.New("network disabled")
	})}
}

func TestResolverDevicetreeURLsStayLocal(t *testing.T) {
	store := Bundled()
	r := NewResolver(store, WithHTTPClient(offlineClient(t)))

	want, err := store.LoadSchema("meta-schemas/core.yaml")
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}

	for _, uri := range []string{
		"http://devicetree.org/meta-schemas/core.yaml",
		"http://devicetree.org/meta-schemas/core.yaml#",
		"http://devicetree.org/meta-schemas/core.yaml#/properties/title",
	} {
		t.Run(uri, func(t *testing.T) {
			got, err := r.Resolve(uri)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", uri, err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Resolve(%q) differs from the bundled document", uri)
			}

			plain, err := r.Load(uri)
			if err != nil {
				t.Fatalf("Load(%q) error = %v", uri, err)
			}
			if !reflect.DeepEqual(plain, want.Plain()) {
				t.Errorf("Load(%q) differs from the bundled document", uri)
			}
		})
	}
}

func TestResolverDevicetreeNotFound(t *testing.T) {
	r := NewResolver(Bundled(), WithHTTPClient(offlineClient(t)))

	_, err := r.Resolve("http://devicetree.org/schemas/does-not-exist.yaml#")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestResolverFetchesOtherURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/ok.yaml":
			fmt.Fprint(w, "type: object\nrequired: [reg]\n")
		case "/broken.yaml":
			fmt.Fprint(w, "type: [object\n")
		default:
			http.NotFound(w, req)
		}
	}))
	defer srv.Close()

	r := NewResolver(Bundled(), WithHTTPClient(srv.Client()))

	tests := []struct {
		name    string
		path    string
		want    any
		wantErr bool
	}{
		{
			name: "yaml document",
			path: "/ok.yaml",
			want: map[string]any{"type": "object", "required": []any{"reg"}},
		},
		{name: "invalid yaml", path: "/broken.yaml", wantErr: true},
		{name: "not found", path: "/missing.yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Load(srv.URL + tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Load() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFileLoaderReadsYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "local.yaml")
	if err := os.WriteFile(file, []byte("definitions:\n  cell:\n    type: integer\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := fileLoader{}.Load("file://" + filepath.ToSlash(file))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := map[string]any{"definitions": map[string]any{"cell": map[string]any{"type": "integer"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %#v, want %#v", got, want)
	}
}
