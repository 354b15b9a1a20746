package profile

// DefaultSession is the process-wide session used by the package-level
// functions, for embedders that want the original single-profiler API.
var DefaultSession = NewSession()

// AttachPrintFunction registers a mirror callback on the default session.
func AttachPrintFunction(fn func(string), verbose bool) {
	DefaultSession.AttachPrintFunction(fn, verbose)
}

// Start starts measurement on the default session.
func Start() {
	DefaultSession.Start()
}

// Stop stops measurement on the default session.
func Stop() {
	DefaultSession.Stop()
}

// Report writes the default session's report to path.
func Report(path string) error {
	return DefaultSession.Report(path)
}
