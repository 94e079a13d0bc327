package validator

import (
	"reflect"
	"slices"
	"testing"

	"github.com/devicetree-org/dtschema/pkg/dtyaml"
)

func mustParse(t *testing.T, src string) *dtyaml.Node {
	t.Helper()
	tree, err := dtyaml.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v\n%s", err, src)
	}
	return tree
}

func TestFixupScalarToArray(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		input   string
		want    string
	}{
		{
			name:    "const",
			keyword: "const",
			input:   "const: 3\n",
			want:    "items:\n  - const: 3\n",
		},
		{
			name:    "enum replaces existing items",
			keyword: "enum",
			input:   "items:\n  - maximum: 4\nenum: [1, 2]\n",
			want:    "items:\n  - enum: [1, 2]\n",
		},
		{
			name:    "keyword absent",
			keyword: "const",
			input:   "maxItems: 1\n",
			want:    "maxItems: 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := mustParse(t, tt.input)
			fixupScalarToArray(node, tt.keyword)

			want := mustParse(t, tt.want)
			if !reflect.DeepEqual(node.Plain(), want.Plain()) {
				t.Errorf("fixupScalarToArray() = %#v, want %#v", node.Plain(), want.Plain())
			}
			if node.Has(tt.keyword) {
				t.Errorf("%s still present after rewrite", tt.keyword)
			}
		})
	}
}

func TestFixup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "enum becomes one cell",
			input: "properties:\n  foo:\n    enum: [1, 2]\n",
			want: "properties:\n  foo:\n    additionalItems: false\n    maxItems: 1\n    minItems: 1\n" +
				"    items:\n      - enum: [1, 2]\n",
		},
		{
			name:  "const becomes one cell",
			input: "properties:\n  compatible:\n    const: acme,uart\n",
			want: "properties:\n  compatible:\n    additionalItems: false\n    maxItems: 1\n    minItems: 1\n" +
				"    items:\n      - const: acme,uart\n",
		},
		{
			name:  "tuple items get a fixed size",
			input: "properties:\n  clocks:\n    items:\n      - description: bus\n      - description: baud\n",
			want: "properties:\n  clocks:\n    additionalItems: false\n    maxItems: 2\n    minItems: 2\n" +
				"    items:\n      - description: bus\n      - description: baud\n",
		},
		{
			name:  "explicit size is kept",
			input: "properties:\n  clocks:\n    minItems: 1\n    items:\n      - description: bus\n      - description: baud\n",
			want:  "properties:\n  clocks:\n    minItems: 1\n    items:\n      - description: bus\n      - description: baud\n",
		},
		{
			name:  "single schema items untouched",
			input: "properties:\n  reg:\n    items:\n      maximum: 8\n",
			want:  "properties:\n  reg:\n    items:\n      maximum: 8\n",
		},
		{
			name: "nested tuples",
			input: "properties:\n  reg:\n    items:\n      - items:\n          - description: address\n" +
				"          - description: size\n",
			want: "properties:\n  reg:\n    additionalItems: false\n    maxItems: 1\n    minItems: 1\n" +
				"    items:\n      - additionalItems: false\n        maxItems: 2\n        minItems: 2\n" +
				"        items:\n          - description: address\n          - description: size\n",
		},
		{
			name:  "no properties",
			input: "title: nothing to do\nitems:\n  - const: 1\n",
			want:  "title: nothing to do\nitems:\n  - const: 1\n",
		},
		{
			name:  "nested const is left alone",
			input: "properties:\n  status:\n    allOf:\n      - const: okay\n",
			want:  "properties:\n  status:\n    allOf:\n      - const: okay\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := mustParse(t, tt.input)
			before := input.Plain()

			got := Fixup(input)

			want := mustParse(t, tt.want)
			if !reflect.DeepEqual(got.Plain(), want.Plain()) {
				t.Errorf("Fixup() = %#v, want %#v", got.Plain(), want.Plain())
			}
			if !reflect.DeepEqual(input.Plain(), before) {
				t.Errorf("Fixup() modified its input")
			}
		})
	}
}

func TestFixupKeyOrder(t *testing.T) {
	schema := mustParse(t, "properties:\n  foo:\n    const: 3\n    description: a cell\n")

	fixed := Fixup(schema)
	foo, _ := dtyaml.Lookup(fixed, []string{"properties", "foo"})

	want := []string{"additionalItems", "maxItems", "minItems", "items", "description"}
	if got := foo.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if pos, ok := foo.KeyPos("description"); !ok || pos.Line != 3 {
		t.Errorf("description lost its position: %v, %v", pos, ok)
	}
}

func TestFixupIdempotent(t *testing.T) {
	schema := mustParse(t, `properties:
  compatible:
    const: acme,uart
  interrupts:
    enum: [1, 2, 3]
  clocks:
    items:
      - description: bus
      - description: baud
  reg:
    maxItems: 1
`)

	once := Fixup(schema)
	twice := Fixup(once)

	if !reflect.DeepEqual(once.Plain(), twice.Plain()) {
		t.Errorf("second Fixup changed the schema:\n%#v\n%#v", once.Plain(), twice.Plain())
	}
	for _, prop := range once.Keys() {
		a, _ := once.Get(prop)
		b, _ := twice.Get(prop)
		if !slices.Equal(a.Keys(), b.Keys()) {
			t.Errorf("%s key order changed: %v != %v", prop, a.Keys(), b.Keys())
		}
	}
}
