package stop

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/callsight/callprof/internal/settings"
	"github.com/callsight/callprof/pkg/cmd/options"
	"github.com/callsight/callprof/pkg/control"
)

type Options struct {
	socket string

	*options.Options
}

func NewCommand(opts *options.Options) *cobra.Command {
	o := new(Options)
	o.Options = opts

	cmd := &cobra.Command{
		Use:               "stop",
		Short:             fmt.Sprintf("Stop the measurement of a %s session over its control socket", settings.CmdName),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Run:               o.Run,
	}
	cmd.Flags().StringVar(&o.socket, "socket", settings.SocketPath, "Path to the control socket")

	return cmd
}

func (o *Options) Run(_ *cobra.Command, _ []string) {
	reply, err := control.Send(o.socket, "stop")
	if err != nil {
		fmt.Printf("%s is not reachable on %s\n", settings.CmdName, o.socket)
		return
	}

	fmt.Println(reply)
}
