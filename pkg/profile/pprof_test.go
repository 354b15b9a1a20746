package profile_test

import (
	"bytes"
	"testing"

	pprof "github.com/google/pprof/profile"
	"github.com/stretchr/testify/require"

	"github.com/callsight/callprof/pkg/profile"
)

func TestBuildProfile(t *testing.T) {
	foo := profile.Frame{Source: "main.lua", Symbol: "foo", Line: 10}
	bar := profile.Frame{Source: "main.lua", Symbol: "bar", Line: 20}
	never := profile.Frame{Source: "main.lua", Symbol: "never", Line: 30}
	records := feed(
		call(foo, 0.0), ret(foo, 0.1),
		call(bar, 0.1), ret(bar, 0.12),
		call(bar, 0.2), ret(bar, 0.22),
		ret(never, 0.3),
	)

	prof := profile.BuildProfile(records, 0.0, 0.5)
	require.NoError(t, prof.CheckValid())

	require.Equal(t, int64(5e8), prof.DurationNanos)
	require.Len(t, prof.Sample, 2, "never-called records are left out")
	require.Len(t, prof.Function, 2)

	// Samples are ordered by descending cumulative time.
	require.Equal(t, "foo", prof.Sample[0].Location[0].Line[0].Function.Name)
	require.Equal(t, int64(1e8), prof.Sample[0].Value[0])
	require.Equal(t, int64(1), prof.Sample[0].Value[1])

	require.Equal(t, "bar", prof.Sample[1].Location[0].Line[0].Function.Name)
	require.Equal(t, int64(2), prof.Sample[1].Value[1])
}

func TestBuildProfileKeepsNativeFrames(t *testing.T) {
	native := profile.Frame{Symbol: "print"}
	records := feed(
		call(native, 0.0), ret(native, 0.05),
	)

	prof := profile.BuildProfile(records, 0.0, 0.1)
	require.NoError(t, prof.CheckValid())

	// The text report drops native frames from the table; the export
	// keeps them so tooling sees the full aggregate.
	require.Len(t, prof.Sample, 1)
	require.Equal(t, profile.NativeMarker, prof.Sample[0].Location[0].Line[0].Function.Filename)
	require.Equal(t, "print", prof.Sample[0].Location[0].Line[0].Function.Name)
}

func TestWritePprofRoundTrip(t *testing.T) {
	rt := &fakeRuntime{}
	session := profile.NewSession(profile.WithRuntime(rt))
	foo := profile.Frame{Source: "main.lua", Symbol: "foo", Line: 10}

	session.Start()
	rt.emit(profile.EventCall, foo, 0.0)
	rt.emit(profile.EventReturn, foo, 0.1)
	session.Stop()

	var buf bytes.Buffer
	require.NoError(t, session.WritePprof(&buf))

	parsed, err := pprof.Parse(&buf)
	require.NoError(t, err)
	require.NoError(t, parsed.CheckValid())

	require.Len(t, parsed.Sample, 1)
	require.Equal(t, "cpu", parsed.SampleType[0].Type)
	require.Equal(t, "calls", parsed.SampleType[1].Type)
	require.Len(t, parsed.Function, 1)
	require.Equal(t, "foo", parsed.Function[0].Name)
	require.Equal(t, "main", parsed.Function[0].Filename)
}
