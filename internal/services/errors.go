package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classify every failure the pipeline can surface. Callers
// use errors.Is against these markers to decide between skip-and-continue,
// abort-the-build, and backup-restore handling.
var (
	// ErrNotFound covers installation and location lookups that can be
	// recovered via a fallback path.
	ErrNotFound = errors.New("not found")

	// ErrUnresolvedIdentity means the resolver exhausted every tier for an
	// asset. The asset is skipped and counted; the batch continues.
	ErrUnresolvedIdentity = errors.New("unresolved identity")

	// ErrMarkerNotFound means a required document boundary is missing.
	// Fatal for that document.
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrSubprocess means an external tool exited non-zero.
	ErrSubprocess = errors.New("external tool error")

	// ErrTransient covers network and file contention failures that are
	// retried up to the bounded retry count before escalating.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsAssetSkippable reports whether a per-asset failure should skip the asset
// and continue the batch rather than abort the build.
func IsAssetSkippable(err error) bool {
	return errors.Is(err, ErrUnresolvedIdentity) || errors.Is(err, ErrNotFound)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
