// Package policy holds the hot-swappable attribution policy read on every dispatch.
package policy

import (
	"sync/atomic"
	"time"

	"github.com/miradorstack/broadcast-response/internal/models"
	"github.com/miradorstack/broadcast-response/internal/utils"
)

const (
	// DefaultWindowDuration is the response window used when nothing is configured.
	DefaultWindowDuration = 2 * time.Minute
	// DefaultForegroundThreshold excludes apps that are already top.
	DefaultForegroundThreshold = models.ImportanceTop
)

// Policy is an immutable snapshot of the attribution policy.
type Policy struct {
	WindowDuration      time.Duration
	ForegroundThreshold models.ImportanceClass
}

// Default returns the compiled-in policy.
func Default() Policy {
	return Policy{
		WindowDuration:      DefaultWindowDuration,
		ForegroundThreshold: DefaultForegroundThreshold,
	}
}

// Eligible reports whether a dispatch to an app at the current class is recorded: the app
// must be strictly less important than the foreground threshold.
func (p Policy) Eligible(current models.ImportanceClass) bool {
	return current.LessImportantThan(p.ForegroundThreshold)
}

// Validate checks the snapshot is usable.
func (p Policy) Validate() error {
	if p.WindowDuration <= 0 {
		return utils.NewFieldError("policy", "windowDuration", "must be positive", nil)
	}
	if !p.ForegroundThreshold.Valid() {
		return utils.NewFieldError("policy", "foregroundThreshold", "unknown importance class", nil)
	}
	return nil
}

// Merge returns p with every set override applied.
func (p Policy) Merge(o models.PolicyOverrides) Policy {
	if o.WindowDuration != nil {
		p.WindowDuration = *o.WindowDuration
	}
	if o.ForegroundThreshold != nil {
		p.ForegroundThreshold = *o.ForegroundThreshold
	}
	return p
}

// Holder publishes the current policy. Readers never lock; in-flight operations keep
// whichever snapshot they loaded.
type Holder struct {
	base    Policy
	current atomic.Pointer[Policy]
}

// NewHolder validates initial and installs it as both the current and base policy.
func NewHolder(initial Policy) (*Holder, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	h := &Holder{base: initial}
	h.current.Store(&initial)
	return h, nil
}

// Load returns the current snapshot.
func (h *Holder) Load() Policy {
	return *h.current.Load()
}

// Store validates and installs p.
func (h *Holder) Store(p Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	h.current.Store(&p)
	return nil
}

// Apply installs the base policy with the overrides on top. Overrides are absolute: a
// flag removed from the overrides reverts to the base value.
func (h *Holder) Apply(o models.PolicyOverrides) (Policy, error) {
	next := h.base.Merge(o)
	if err := h.Store(next); err != nil {
		return h.Load(), err
	}
	return next, nil
}
