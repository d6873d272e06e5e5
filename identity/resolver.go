// Package identity is the single canonical vendor identifier resolver.
//
// Historically three near-duplicate resolver utilities existed with three
// different priority orderings, which let the same vendor resolve to
// different identifiers on different code paths and broke credential lookup
// and API routing. This package replaces all of them: every system-internal
// lookup (handler registry, credential keys, API paths) goes through
// Resolver.Resolve and nothing else.
package identity

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	EventLegacyIdentifierFallback = "legacy_identifier_fallback"

	// VendorErrorIdentifierUnresolvable is the stable text code carried by
	// unresolvable-identifier service errors.
	VendorErrorIdentifierUnresolvable = "VENDOR_IDENTIFIER_UNRESOLVABLE"
)

// Source reports which field produced the resolved identifier, most specific
// first. ShortCode and Name are legacy signals: callers still supplying only
// those have not migrated to the slug fields.
type Source string

const (
	SourceInstanceSlug Source = "instance_slug"
	SourceVendorSlug   Source = "vendor_slug"
	SourceShortCode    Source = "short_code"
	SourceName         Source = "name"
)

// Sentinels live here rather than in core: every other package in the module
// imports this one, so the resolver stays free of upward imports.
var (
	ErrUnresolvable         = errors.New("identity: vendor identifier unresolvable")
	ErrOrganizationRequired = errors.New("identity: organization id is required")
)

type UnresolvableError struct {
	Ref VendorRef
}

func (e *UnresolvableError) Error() string {
	return ErrUnresolvable.Error() + ": no instance slug, vendor slug, short code, or name present"
}

func (e *UnresolvableError) Unwrap() error {
	return ErrUnresolvable
}

func (e *UnresolvableError) ToServiceError() *goerrors.Error {
	return goerrors.New(e.Error(), goerrors.CategoryValidation).
		WithCode(http.StatusUnprocessableEntity).
		WithTextCode(VendorErrorIdentifierUnresolvable)
}

// VendorRef is the loosely-typed vendor shape callers hold: a vendor type, a
// vendor instance, or a half-migrated legacy row. Any subset of fields may
// be present.
type VendorRef struct {
	InstanceSlug string
	VendorSlug   string
	ShortCode    string
	Name         string
}

// IsEmpty reports whether no identifier field carries a usable value.
func (ref VendorRef) IsEmpty() bool {
	return strings.TrimSpace(ref.InstanceSlug) == "" &&
		strings.TrimSpace(ref.VendorSlug) == "" &&
		strings.TrimSpace(ref.ShortCode) == "" &&
		strings.TrimSpace(ref.Name) == ""
}

type Resolution struct {
	Identifier string
	Source     Source
}

// Event is emitted for legacy-fallback resolutions. Consumed by
// logs/metrics only; never by control flow.
type Event struct {
	Type   string
	Source Source
	Value  string
	Fields map[string]any
}

type Observer func(event Event)

type Resolver struct {
	observer Observer
}

type Config struct {
	Observer Observer
}

func NewResolver(cfg Config) *Resolver {
	return &Resolver{observer: cfg.Observer}
}

func DefaultResolver() *Resolver {
	return NewResolver(Config{})
}

// Resolve produces the canonical identifier for a vendor-like record.
// Priority: instance slug, vendor slug, short code (legacy, warns),
// normalized name (legacy, warns). The ordering is load-bearing: any caller
// relying on a different order is a bug to fix, not behavior to preserve.
func (r *Resolver) Resolve(ref VendorRef) (Resolution, error) {
	if instanceSlug := strings.TrimSpace(ref.InstanceSlug); instanceSlug != "" {
		return Resolution{Identifier: instanceSlug, Source: SourceInstanceSlug}, nil
	}
	if vendorSlug := strings.TrimSpace(ref.VendorSlug); vendorSlug != "" {
		return Resolution{Identifier: vendorSlug, Source: SourceVendorSlug}, nil
	}
	if shortCode := strings.TrimSpace(ref.ShortCode); shortCode != "" {
		r.observe(Event{
			Type:   EventLegacyIdentifierFallback,
			Source: SourceShortCode,
			Value:  shortCode,
			Fields: map[string]any{"short_code": shortCode},
		})
		return Resolution{Identifier: shortCode, Source: SourceShortCode}, nil
	}
	if name := strings.TrimSpace(ref.Name); name != "" {
		normalized := NormalizeName(name)
		r.observe(Event{
			Type:   EventLegacyIdentifierFallback,
			Source: SourceName,
			Value:  normalized,
			Fields: map[string]any{"name": name},
		})
		return Resolution{Identifier: normalized, Source: SourceName}, nil
	}
	return Resolution{}, &UnresolvableError{Ref: ref}
}

// Validate is the non-throwing pre-flight check UI layers use before
// submitting a vendor form.
func (r *Resolver) Validate(ref VendorRef) bool {
	return strings.TrimSpace(ref.InstanceSlug) != "" ||
		strings.TrimSpace(ref.VendorSlug) != "" ||
		strings.TrimSpace(ref.ShortCode) != "" ||
		strings.TrimSpace(ref.Name) != ""
}

// BuildAPIPath composes the organization-scoped vendor API path:
// /org/{orgID}/api/vendors/{identifier}/{endpoint}. The identifier segment
// is always the resolver's output, never a raw database id.
func (r *Resolver) BuildAPIPath(orgID string, ref VendorRef, endpoint string) (string, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return "", ErrOrganizationRequired
	}
	resolution, err := r.Resolve(ref)
	if err != nil {
		return "", err
	}
	endpoint = strings.TrimPrefix(strings.TrimSpace(endpoint), "/")
	path := "/org/" + orgID + "/api/vendors/" + resolution.Identifier
	if endpoint != "" {
		path += "/" + endpoint
	}
	return path, nil
}

// NormalizeName lower-cases the name and replaces every rune outside
// [a-z0-9] with '-'. Runs are deliberately not collapsed and edges are not
// trimmed: existing identifiers were minted with exactly this mapping and a
// prettier slug would orphan them. The mapping is idempotent.
func NormalizeName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(lowered))
	for _, char := range lowered {
		if (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9') {
			b.WriteRune(char)
			continue
		}
		b.WriteByte('-')
	}
	return b.String()
}

// IsUnresolvable reports whether err is (or wraps) an unresolvable
// identifier failure.
func IsUnresolvable(err error) bool {
	return errors.Is(err, ErrUnresolvable)
}

func (r *Resolver) observe(event Event) {
	if r == nil || r.observer == nil {
		return
	}
	r.observer(event)
}
