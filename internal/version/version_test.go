package version

import "testing"

func TestGetPrefersLinkedVersion(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	version = "v9.9.9"
	if got := Get(); got != "v9.9.9" {
		t.Fatalf("Get() = %q, want v9.9.9", got)
	}
}

func TestGetFallback(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	version = ""
	if got := Get(); got == "" {
		t.Fatal("Get() returned an empty version")
	}
}
