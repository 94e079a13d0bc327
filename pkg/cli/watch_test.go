package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devicetree-org/dtschema/pkg/validator"
)

// syncBuffer is a bytes.Buffer safe for one writer and one reader
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, buf *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output:\n%s", want, buf.String())
}

func TestWatchDocValidate(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "serial.yaml", validBinding)

	resolver := newResolver(false)
	meta, err := validator.LoadMetaSchema(resolver)
	if err != nil {
		t.Fatalf("LoadMetaSchema() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- watchDocValidate(ctx, &buf, meta, resolver, []string{file}, false, false)
	}()

	waitFor(t, &buf, "1 file(s) valid")

	if err := os.WriteFile(file, []byte(invalidBinding), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, &buf, file+":7:15:")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchDocValidate() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchDocValidate() did not stop after cancel")
	}
}

func TestWatchDocValidateMissingFile(t *testing.T) {
	resolver := newResolver(false)
	meta, err := validator.LoadMetaSchema(resolver)
	if err != nil {
		t.Fatalf("LoadMetaSchema() error = %v", err)
	}

	var buf syncBuffer
	err = watchDocValidate(context.Background(), &buf, meta, resolver, []string{t.TempDir() + "/missing.yaml"}, false, false)
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("watchDocValidate() error = %v, want missing file error", err)
	}
}
