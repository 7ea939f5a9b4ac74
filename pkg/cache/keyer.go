package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendered chart output.
	ArtifactKey(inputs Inputs, opts ArtifactKeyOpts) string
}

// Inputs identifies the data a chart was drawn from by content digest.
type Inputs struct {
	Records    string `json:"records"`
	Boundaries string `json:"boundaries,omitempty"`
}

// ArtifactKeyOpts holds the render options that change an artifact. Fields
// that do not affect a kind are left zero by the caller so that, for
// example, moving the year window never invalidates the bar chart.
type ArtifactKeyOpts struct {
	Kind       string     `json:"kind"`
	Format     string     `json:"format"`
	Field      string     `json:"field,omitempty"`
	YearFrom   int        `json:"year_from,omitempty"`
	YearTo     int        `json:"year_to,omitempty"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Scale      float64    `json:"scale,omitempty"`
	Projection [8]float64 `json:"projection,omitempty"`
	Title      string     `json:"title,omitempty"`
}

// DefaultKeyer hashes the inputs and options into
// "artifact:<kind>:<sha256>". The kind stays readable so a shared Redis can
// be inspected by chart.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(inputs Inputs, opts ArtifactKeyOpts) string {
	return "artifact:" + opts.Kind + ":" + digest(struct {
		Inputs Inputs          `json:"inputs"`
		Opts   ArtifactKeyOpts `json:"opts"`
	}{inputs, opts})
}

// ScopedKeyer prepends a fixed scope to every key of an inner keyer. The
// CLI scopes keys by build version so a new release never reuses charts
// drawn by an older one.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
type ScopedKeyer struct {
	inner Keyer
	scope string
}

// NewScopedKeyer wraps inner; a nil inner uses the default keyer.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{inner: inner, scope: scope}
}

// ArtifactKey implements Keyer.
func (k ScopedKeyer) ArtifactKey(inputs Inputs, opts ArtifactKeyOpts) string {
	return k.scope + k.inner.ArtifactKey(inputs, opts)
}

// digest returns the hex sha256 of v's JSON encoding. The key structs hold
// only strings and numbers, which always encode.
func digest(v any) string {
	data, _ := json.Marshal(v)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
