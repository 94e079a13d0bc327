package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const validBinding = `$id: "http://devicetree.org/schemas/example/serial.yaml#"
$schema: "http://devicetree.org/meta-schemas/core.yaml#"
title: Example serial port

maintainers:
  - Example Maintainer <maintainer@example.com>

properties:
  compatible:
    const: acme,serial
  reg:
    maxItems: 1
  clocks:
    items:
      - description: bus clock
      - description: baud clock

required:
  - compatible
  - reg
`

const invalidBinding = `$id: "http://devicetree.org/schemas/example/bad.yaml#"
$schema: "http://devicetree.org/meta-schemas/core.yaml#"
title: Bad binding

properties:
  clocks:
    maxItems: -1
`

const brokenRefBinding = `$id: "http://devicetree.org/schemas/example/broken.yaml#"
$schema: "http://devicetree.org/meta-schemas/core.yaml#"
title: Broken reference

properties:
  clocks:
    $ref: "/schemas/does-not-exist.yaml#"
`

// writeFile writes content to name inside dir and returns the path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
