package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/config"
	"github.com/rhovm/rhovm/pkg/engine"
	"github.com/rhovm/rhovm/pkg/errs"
	"github.com/rhovm/rhovm/pkg/process"
)

// runFlagConfig is the value of the --config flag of the `run` command.
var runFlagConfig string

// runFlagRSpace is the value of the --rspace flag of the `run` command.
var runFlagRSpace string

// runFlagTrace is the value of the --trace flag of the `run` command.
var runFlagTrace bool

var runCmd = &cobra.Command{
	Use:   "run <program>",
	Short: "Assembles (if needed) and runs a rhovm program to completion",
	Long:  `Assembles (if needed) and runs a rhovm program as a single process, printing its final value or terminal error.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		module, err := loadModule(args[0])
		reportAndExitOnError(err)

		cfg := config.Default()
		if runFlagConfig != "" {
			cfg, err = config.Load(runFlagConfig)
			reportAndExitOnError(err)
		}
		if cmd.Flags().Changed("rspace") {
			cfg.RSpaceBackend = runFlagRSpace
		}
		if cmd.Flags().Changed("trace") {
			cfg.TraceExecution = runFlagTrace
		}
		if err := cfg.Validate(); err != nil {
			reportAndExitOnError(errs.NewBadUsage("%v", err))
		}

		rs, err := cfg.NewRSpace()
		reportAndExitOnError(err)

		p := process.New(module.Instructions, args[0], constantPoolAsValues(module))
		p.SetPC(module.EntryPoint)
		e := engine.New(rs)

		var value bytecode.Value
		var execErr error
		if cfg.TraceExecution {
			value, execErr = e.ExecuteWithEvent(p, traceEvent)
		} else {
			value, execErr = e.Execute(p)
		}
		reportAndExitOnError(execErr)

		fmt.Println(value)
	},
}

func init() {
	runCmd.Flags().StringVar(&runFlagConfig, "config", "",
		"Path to a TOML runtime configuration file (see pkg/config); --rspace and --trace override its values")
	runCmd.Flags().StringVar(&runFlagRSpace, "rspace", "sequential",
		`RSpace backend to run against ("sequential" or "concurrent")`)
	runCmd.Flags().BoolVar(&runFlagTrace, "trace", false,
		"Print each process event as it is produced")
}

func traceEvent(ev process.ProcessEvent) {
	fmt.Printf("[trace] %v\n", ev)
}
