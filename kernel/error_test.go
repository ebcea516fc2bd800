package kernel

import "testing"

func TestKernelError(t *testing.T) {
	err := &Error{
		Module:  "kfmt",
		Message: "unsupported directive",
	}

	if exp, got := "kfmt: unsupported directive", err.Error(); got != exp {
		t.Fatalf("expected err.Error() to return %q; got %q", exp, got)
	}
}
