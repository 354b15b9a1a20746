package profile

import (
	"fmt"
	"strings"
)

const (
	// NativeMarker replaces the source label of frames with no
	// source-level definition, such as functions implemented in the
	// host application rather than in the profiled language.
	NativeMarker = "[C]"

	// AnonymousMarker replaces the symbol name of anonymous functions.
	// Distinct anonymous closures defined at the same line collapse
	// into one record.
	AnonymousMarker = "anonymous"

	// DefaultSourceSuffix is the canonical source-file suffix of the
	// profiled language, stripped from source labels for display.
	DefaultSourceSuffix = ".lua"

	// DefaultLocalSuffix is the suffix the host runtime appends to the
	// resolved name of lexically-local function bindings. Stripping it
	// is cosmetic only.
	DefaultLocalSuffix = "_l"

	// Reference column widths. The report header honors the same
	// widths so header and rows align.
	DefaultFileWidth = 20
	DefaultFuncWidth = 28
	DefaultLineWidth = 7
)

// Identity is the normalized aggregation key for a function. Two frames
// belong to the same record iff their identities are equal.
type Identity struct {
	Source string
	Symbol string
	Line   int
}

// Normalizer maps raw frame metadata to a stable, display-ready function
// identity with fixed-width, left-justified, truncated fields.
type Normalizer struct {
	sourceSuffix    string
	localSuffix     string
	nativeMarker    string
	anonymousMarker string

	fileWidth int
	funcWidth int
	lineWidth int
}

type NormalizerOption func(*Normalizer)

func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		sourceSuffix:    DefaultSourceSuffix,
		localSuffix:     DefaultLocalSuffix,
		nativeMarker:    NativeMarker,
		anonymousMarker: AnonymousMarker,
		fileWidth:       DefaultFileWidth,
		funcWidth:       DefaultFuncWidth,
		lineWidth:       DefaultLineWidth,
	}
	for _, f := range opts {
		f(n)
	}

	return n
}

func WithSourceSuffix(suffix string) NormalizerOption {
	return func(n *Normalizer) {
		n.sourceSuffix = suffix
	}
}

func WithLocalSuffix(suffix string) NormalizerOption {
	return func(n *Normalizer) {
		n.localSuffix = suffix
	}
}

func WithNativeMarker(marker string) NormalizerOption {
	return func(n *Normalizer) {
		n.nativeMarker = marker
	}
}

func WithAnonymousMarker(marker string) NormalizerOption {
	return func(n *Normalizer) {
		n.anonymousMarker = marker
	}
}

func WithColumnWidths(file, fn, line int) NormalizerOption {
	return func(n *Normalizer) {
		n.fileWidth = file
		n.funcWidth = fn
		n.lineWidth = line
	}
}

// Normalize reduces raw frame metadata to an identity. Absent fields
// degrade to the configured fallback markers, never to an error.
func (n *Normalizer) Normalize(f Frame) Identity {
	src := f.Source
	switch {
	case src == "":
		src = n.nativeMarker
	case strings.HasSuffix(src, n.sourceSuffix):
		src = strings.TrimSuffix(src, n.sourceSuffix)
	}

	sym := f.Symbol
	switch {
	case sym == "":
		sym = n.anonymousMarker
	case n.localSuffix != "" && strings.HasSuffix(sym, n.localSuffix):
		sym = strings.TrimSuffix(sym, n.localSuffix)
	}

	line := f.Line
	if line < 0 {
		line = 0
	}

	return Identity{Source: src, Symbol: sym, Line: line}
}

// Display renders the identity as the fixed-width row prefix used both
// as the human-readable table key and as the self-exclusion match target.
func (n *Normalizer) Display(id Identity) string {
	return fmt.Sprintf("%s: %s: %s",
		pad(id.Source, n.fileWidth),
		pad(id.Symbol, n.funcWidth),
		pad(fmt.Sprintf("%d", id.Line), n.lineWidth),
	)
}

// NativeMarker returns the marker substituted for native frames.
func (n *Normalizer) NativeMarker() string {
	return n.nativeMarker
}

// Widths returns the file, function and line column widths.
func (n *Normalizer) Widths() (file, fn, line int) {
	return n.fileWidth, n.funcWidth, n.lineWidth
}

// pad left-justifies s into a field of exactly width characters,
// truncating when s is longer.
func pad(s string, width int) string {
	if len(s) > width {
		s = s[:width]
	}

	return fmt.Sprintf("%-*s", width, s)
}
