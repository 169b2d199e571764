// Package auth enforces which caller may act on which package's response data.
package auth

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"
)

// CallerMetadataKey carries the calling package name on every RPC.
const CallerMetadataKey = "x-caller-package"

var (
	// ErrUnauthenticated is returned when the caller did not identify itself.
	ErrUnauthenticated = errors.New("caller package not provided")
	// ErrPermissionDenied is returned when the caller may not act on the target.
	ErrPermissionDenied = errors.New("caller may not access response stats of other packages")
)

// Authorizer decides whether a caller may act on a package. A caller always may act on
// its own package; privileged callers may act on any package, including all packages at once.
type Authorizer struct {
	enforce    bool
	privileged map[string]struct{}
}

// NewAuthorizer constructs an Authorizer. With enforce false every call is allowed.
func NewAuthorizer(enforce bool, privilegedCallers []string) *Authorizer {
	a := &Authorizer{enforce: enforce, privileged: make(map[string]struct{}, len(privilegedCallers))}
	for _, caller := range privilegedCallers {
		if caller = strings.TrimSpace(caller); caller != "" {
			a.privileged[caller] = struct{}{}
		}
	}
	return a
}

// CallerFromContext extracts the caller package from incoming metadata.
func CallerFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(CallerMetadataKey)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// WithCaller attaches the caller package to outgoing metadata.
func WithCaller(ctx context.Context, caller string) context.Context {
	if caller == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, CallerMetadataKey, caller)
}

// AuthorizePackage checks the caller may act on pkg; an empty pkg means every package.
func (a *Authorizer) AuthorizePackage(ctx context.Context, pkg string) error {
	if a == nil || !a.enforce {
		return nil
	}
	caller := CallerFromContext(ctx)
	if caller == "" {
		return ErrUnauthenticated
	}
	if a.isPrivileged(caller) {
		return nil
	}
	if pkg == "" || pkg != caller {
		return ErrPermissionDenied
	}
	return nil
}

// AuthorizePrivileged checks the caller holds the elevated capability.
func (a *Authorizer) AuthorizePrivileged(ctx context.Context) error {
	if a == nil || !a.enforce {
		return nil
	}
	caller := CallerFromContext(ctx)
	if caller == "" {
		return ErrUnauthenticated
	}
	if !a.isPrivileged(caller) {
		return ErrPermissionDenied
	}
	return nil
}

func (a *Authorizer) isPrivileged(caller string) bool {
	_, ok := a.privileged[caller]
	return ok
}
