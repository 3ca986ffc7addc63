package app

import (
	goflag "flag"
	"os"
	"runtime"
	"strconv"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

const (
	NUM_CPUS_FLAG = "cpus"
)

var (
	CPUs      int
	Verbosity int
)

func AppCommands() []*commander.Command {
	return []*commander.Command{
		ParseCmd(),
		FOMModelCmd(),
		CellsCmd(),
	}
}

func AllCommands() *commander.Command {
	cmd := &commander.Command{
		UsageLine:   os.Args[0],
		Short:       "beam-search chart parser",
		Subcommands: AppCommands(),
		Flag:        *flag.NewFlagSet("app", flag.ExitOnError),
	}
	for _, app := range cmd.Subcommands {
		app.Run = NewAppWrapCommand(app.Run)
		app.Flag.IntVar(&CPUs, NUM_CPUS_FLAG, 0, "Max CPUS to use (runtime.GOMAXPROCS); 0 = all")
		app.Flag.IntVar(&Verbosity, "v", 0, "Log verbosity (glog -v)")
	}
	return cmd
}

// InitCommand sets GOMAXPROCS and forwards logging flags to glog, which
// registers on the standard flag set.
func InitCommand(cmd *commander.Command, args []string) {
	goflag.CommandLine.Parse([]string{})
	goflag.Set("logtostderr", "true")
	goflag.Set("v", strconv.Itoa(Verbosity))
	maxCPUs := runtime.NumCPU()
	if CPUs > maxCPUs {
		glog.Warningf("Number of CPUs capped to all available (%d)", maxCPUs)
		CPUs = 0
	}
	if CPUs == 0 {
		CPUs = maxCPUs
	}
	runtime.GOMAXPROCS(CPUs)
}

func NewAppWrapCommand(f func(cmd *commander.Command, args []string) error) func(cmd *commander.Command, args []string) error {
	wrapped := func(cmd *commander.Command, args []string) error {
		InitCommand(cmd, args)
		defer glog.Flush()
		return f(cmd, args)
	}
	return wrapped
}
