package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection reset")
	err := Wrap(ErrTransient, "workshop", "download", "container fetch", base)

	if !errors.Is(err, ErrTransient) {
		t.Error("wrapped error should match ErrTransient")
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should preserve the base error")
	}
	want := "transient failure: workshop: download: container fetch: connection reset"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "assembler", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Error("nil marker should default to ErrTransient")
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrSubprocess, "", "", "", nil)
	if err.Error() != "external tool error: service failure" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestIsAssetSkippable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"unresolved identity", Wrap(ErrUnresolvedIdentity, "resolver", "resolve", "id 42", nil), true},
		{"not found", Wrap(ErrNotFound, "workshop", "details", "id 42", nil), true},
		{"marker missing", Wrap(ErrMarkerNotFound, "assembler", "registry", "", nil), false},
		{"subprocess", Wrap(ErrSubprocess, "vpktool", "pack", "", nil), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAssetSkippable(tc.err); got != tc.want {
				t.Errorf("IsAssetSkippable = %v, want %v", got, tc.want)
			}
		})
	}
}
