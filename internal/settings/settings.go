package settings

import "fmt"

const CmdName = "callprof"

var (
	// ReportFile is the default report destination.
	ReportFile = "profiler.log"

	// SocketPath is the default control socket of a profiled process.
	SocketPath = fmt.Sprintf("/tmp/%s.sock", CmdName)
)
