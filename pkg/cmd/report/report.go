package report

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/callsight/callprof/internal/settings"
	"github.com/callsight/callprof/pkg/cmd/options"
	"github.com/callsight/callprof/pkg/control"
)

type Options struct {
	socket string
	path   string

	*options.Options
}

func NewCommand(opts *options.Options) *cobra.Command {
	o := new(Options)
	o.Options = opts

	cmd := &cobra.Command{
		Use:               "report",
		Short:             fmt.Sprintf("Ask a %s session to write its report, over its control socket", settings.CmdName),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Run:               o.Run,
	}
	cmd.Flags().StringVar(&o.socket, "socket", settings.SocketPath, "Path to the control socket")
	cmd.Flags().StringVarP(&o.path, "path", "p", settings.ReportFile, "Path of the generated report, relative to the profiled process")

	return cmd
}

func (o *Options) Run(_ *cobra.Command, _ []string) {
	reply, err := control.Send(o.socket, fmt.Sprintf("report %s", o.path))
	if err != nil {
		fmt.Printf("%s is not reachable on %s\n", settings.CmdName, o.socket)
		return
	}

	fmt.Println(reply)
}
