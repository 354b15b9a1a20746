package output_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/callsight/callprof/internal/output"
)

func TestPrettyReplayStatus(t *testing.T) {
	status := output.PrettyReplayStatus(1234, 56)
	require.Contains(t, status, "Events replayed:")
	require.Contains(t, status, "1234")
	require.Contains(t, status, "Events/s:")
	require.Contains(t, status, "56")
}
