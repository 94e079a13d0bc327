package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	binding := writeFile(t, dir, "serial.yaml", validBinding)
	good := writeFile(t, dir, "good.yaml", "compatible:\n  - acme,serial\nreg:\n  - 4096\nclocks: !u32 [1, 2]\n")
	bad := writeFile(t, dir, "bad.yaml", "compatible:\n  - acme,uart\nreg:\n  - 4096\n")
	missing := writeFile(t, dir, "missing.yaml", "compatible:\n  - acme,serial\n")

	tests := []struct {
		name     string
		data     []string
		wantErr  bool
		contains []string
	}{
		{
			name: "conforming data",
			data: []string{good},
		},
		{
			name:     "wrong value",
			data:     []string{good, bad},
			wantErr:  true,
			contains: []string{bad + ":2:5: compatible:0: "},
		},
		{
			name:     "missing property",
			data:     []string{missing},
			wantErr:  true,
			contains: []string{missing + ":1:1: ", "reg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Validate(&buf, []string{binding}, tt.data, false, false)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v\n%s", err, tt.wantErr, buf.String())
			}
			if tt.wantErr && !errors.Is(err, ErrValidationFailed) {
				t.Errorf("Validate() error = %v, want ErrValidationFailed", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestValidateRejectsInvalidBinding(t *testing.T) {
	dir := t.TempDir()
	binding := writeFile(t, dir, "bad.yaml", invalidBinding)
	data := writeFile(t, dir, "data.yaml", "clocks: [1]\n")

	var buf bytes.Buffer
	err := Validate(&buf, []string{binding}, []string{data}, false, false)
	if err == nil {
		t.Fatal("Validate() with an invalid binding succeeded")
	}
	if errors.Is(err, ErrValidationFailed) {
		t.Errorf("binding failure reported as a data failure: %v", err)
	}
	if !strings.Contains(err.Error(), binding+":7:15:") {
		t.Errorf("error does not locate the binding problem: %v", err)
	}
}

func TestValidateRequiresSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := Validate(&buf, nil, []string{"data.yaml"}, false, false); err == nil {
		t.Error("Validate() without schemas succeeded")
	}
}
