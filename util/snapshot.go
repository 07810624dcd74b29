package util

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var updateSnapshots = flag.Bool("update-snapshots", false, "update testdata snapshots")

// SnapMarshaller lets a value choose its snapshot text and file extension.
type SnapMarshaller interface {
	MarshalSnap() (string, string, error)
}

// Snapshot compares v against testdata/<test name>.json (or the extension
// chosen by MarshalSnap). Run the tests with -update-snapshots to rewrite
// the files.
func Snapshot[V any](t *testing.T, v V) {
	t.Helper()
	actual, ext, err := marshalSnap(v)
	if err != nil {
		t.Fatalf("failed to marshal snapshot: %s (%v)", err, v)
	}
	p := filepath.Join("testdata", strings.ReplaceAll(t.Name(), "/", "_")+ext)
	if *updateSnapshots {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatalf("failed to create testdata: %s", err)
		} else if err := os.WriteFile(p, []byte(actual), 0644); err != nil {
			t.Fatalf("failed to write snapshot: %s", err)
		}
		return
	}
	bs, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		t.Fatalf("missing snapshot %s, run with -update-snapshots", p)
	} else if err != nil {
		t.Fatalf("failed to read snapshot: %s", err)
	} else if expected := strings.TrimSuffix(string(bs), "\n"); actual != expected {
		t.Fatalf("snapshot %s does not match\ngot: %q\nexpected: %q", p, actual, expected)
	}
}

func marshalSnap(v any) (string, string, error) {
	if m, ok := v.(SnapMarshaller); ok {
		return m.MarshalSnap()
	}
	bs, err := json.MarshalIndent(v, "", "  ")
	return string(bs), ".json", err
}
