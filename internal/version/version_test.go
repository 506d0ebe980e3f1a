package version

import "testing"

func TestString(t *testing.T) {
	want := "kickprofile dev (git unknown, built unknown)"
	if got := String("kickprofile"); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
