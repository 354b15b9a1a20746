package replay_test

import (
	"bytes"
	"context"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/callsight/callprof/pkg/profile"
	"github.com/callsight/callprof/pkg/replay"
)

func writeStream(t *testing.T, lines ...string) string {
	t.Helper()

	streamPath := path.Join(t.TempDir(), "events.jsonl")
	err := os.WriteFile(streamPath, []byte(strings.Join(lines, "\n")+"\n"), 0644)
	require.NoError(t, err)

	return streamPath
}

func TestNewSourceValidation(t *testing.T) {
	_, err := replay.NewSource()
	require.Error(t, err)
	require.ErrorIs(t, err, replay.ErrInputPathEmpty)
}

func TestSourceRunMissingFile(t *testing.T) {
	src, err := replay.NewSource(replay.WithSourcePath("nonexistent-events-file"))
	require.NoError(t, err)

	err = src.Run(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSourceReplaysStreamIntoSession(t *testing.T) {
	// Timestamps deliberately do not start at zero: the source rebases
	// the stream clock so the first event sits at t=0.
	streamPath := writeStream(t,
		`{"k":"call","t":100.0,"src":"main.lua","fn":"update","ln":42}`,
		`{"k":"return","t":100.1,"src":"main.lua","fn":"update","ln":42}`,
	)

	src, err := replay.NewSource(replay.WithSourcePath(streamPath))
	require.NoError(t, err)

	session := profile.NewSession(profile.WithRuntime(src))
	session.Start()
	require.NoError(t, src.Run(context.Background()))

	require.Equal(t, uint64(2), src.Events())
	require.InDelta(t, 0.1, src.Now(), 1e-9)

	recs := session.Snapshot()
	require.Len(t, recs, 1)
	require.Equal(t, "update", recs[0].ID.Symbol)
	require.Equal(t, 1, recs[0].CallCount)
	require.InDelta(t, 0.1, recs[0].CumulativeTime, 1e-9)

	reportPath := path.Join(t.TempDir(), "profiler.log")
	require.NoError(t, session.Report(reportPath))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "> Total time: 0.100000 s\n"))
	require.Contains(t, string(data), ": 100.0")
}

func TestSourceSkipsMalformedLines(t *testing.T) {
	streamPath := writeStream(t,
		`{"k":"call","t":0.0,"src":"main.lua","fn":"foo","ln":1}`,
		`not json at all`,
		`{"k":"sample","t":0.1,"src":"main.lua","fn":"foo","ln":1}`,
		`{"k":"return","t":0.2,"src":"main.lua","fn":"foo","ln":1}`,
	)

	src, err := replay.NewSource(replay.WithSourcePath(streamPath))
	require.NoError(t, err)

	session := profile.NewSession(profile.WithRuntime(src))
	session.Start()
	require.NoError(t, src.Run(context.Background()))

	require.Equal(t, uint64(2), src.Events(),
		"malformed lines and unknown kinds are skipped",
	)
	recs := session.Snapshot()
	require.Len(t, recs, 1)
	require.InDelta(t, 0.2, recs[0].CumulativeTime, 1e-9)
}

func TestRecorderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec := replay.NewRecorder(&buf, nil)

	frame := profile.Frame{Source: "main.lua", Symbol: "foo", Line: 7}
	rec.HandleEvent(profile.Event{Kind: profile.EventCall, Frame: frame, Time: 1.0})
	rec.HandleEvent(profile.Event{Kind: profile.EventReturn, Frame: frame, Time: 1.5})

	streamPath := path.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(streamPath, buf.Bytes(), 0644))

	src, err := replay.NewSource(replay.WithSourcePath(streamPath))
	require.NoError(t, err)

	session := profile.NewSession(profile.WithRuntime(src))
	session.Start()
	require.NoError(t, src.Run(context.Background()))

	recs := session.Snapshot()
	require.Len(t, recs, 1)
	require.Equal(t, "foo", recs[0].ID.Symbol)
	require.Equal(t, 1, recs[0].CallCount)
	require.InDelta(t, 0.5, recs[0].CumulativeTime, 1e-9)
}

func TestRecorderForwardsToNextHandler(t *testing.T) {
	store := profile.NewStore()
	hook := profile.NewHook(profile.NewNormalizer(), store)

	var buf bytes.Buffer
	rec := replay.NewRecorder(&buf, hook)

	frame := profile.Frame{Source: "main.lua", Symbol: "foo", Line: 7}
	rec.HandleEvent(profile.Event{Kind: profile.EventCall, Frame: frame, Time: 0.0})
	rec.HandleEvent(profile.Event{Kind: profile.EventReturn, Frame: frame, Time: 0.25})

	require.Equal(t, 1, store.Len())
	require.Equal(t, 2, strings.Count(buf.String(), "\n"))
}
