// Package main provides the entry point for r10ksim's out-of-order
// datapath simulator.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/r10ksim/arch"
	"github.com/sarchlab/r10ksim/config"
	"github.com/sarchlab/r10ksim/golden"
	"github.com/sarchlab/r10ksim/timing/ooo"
)

var (
	configPath = flag.String("config", "", "Path to microarchitecture configuration JSON file")
	preset     = flag.String("preset", "baseline", `Named configuration preset ("baseline" or "hacking"), overridden by -config`)
	scenario   = flag.String("scenario", "", "Name of a built-in concrete scenario trace to run")
	tracePath  = flag.String("trace", "", "Path to a literal instruction trace JSON file, overrides -scenario")
	maxCycles  = flag.Uint64("cycles", 100000, "Maximum number of cycles to simulate")
	verbose    = flag.Bool("v", false, "Verbose per-cycle output")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	trace, err := loadTrace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trace: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		printPortLimits(*cfg)
	}

	cycles, retired, exitErr := run(*cfg, trace)
	if exitErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", exitErr)
		os.Exit(1)
	}

	fmt.Printf("Exiting: %d cycles; %d instructions completed.\n", cycles, retired)
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.LoadConfig(*configPath)
	}
	return config.Preset(*preset)
}

func loadTrace() ([]arch.Instruction, error) {
	if *tracePath != "" {
		return golden.LoadTrace(*tracePath)
	}
	name := *scenario
	if name == "" {
		name = "rawwaw"
	}
	return golden.Scenario(name)
}

// printPortLimits emits each component's configured port limits, the
// way the specification's CLI surface requires. The limits are pure
// functions of cfg (see ooo.NewDatapath), so they can be reported
// without constructing a Datapath.
func printPortLimits(cfg config.Config) {
	ew, dw, rw := cfg.ExecuteWidth, cfg.DecodeWidth, cfg.RetireWidth

	rfMaxWrite := ew
	if cfg.ROBRename {
		rfMaxWrite += rw
	}

	rmapMaxRead := dw * 2
	if !cfg.ROBRename {
		rmapMaxRead = dw * 3
	}

	fmt.Println("Configured port limits:")
	fmt.Printf("  ActiveList:  accept=1 complete=%d except=%d retire=1\n", ew, ew)
	fmt.Printf("  BusyTable:   read=%d write=%d clear=%d\n", dw*2, dw, ew)
	fmt.Printf("  Checkpoint:  new=1 free=1 rewind=%d\n", ew)
	fmt.Printf("  RegFile:     read=%d write=%d\n", ew*2+rw, rfMaxWrite)
	fmt.Printf("  RMap:        read=%d write=%d checkpoint=1 unmap=%d\n", rmapMaxRead, dw, rw)
	for i := 0; i < ew; i++ {
		fmt.Printf("  InstQ[%d]:    readied=1 insert=%d issue=1 release=%d retire=%d squash=1 clear=1\n",
			i, dw, ew, rw)
	}
}

// run drives the datapath until a HALT retires or the cycle bound is
// reached; a trace without a HALT runs to the cycle bound.
// It recovers a *ooo.Fault panic exactly once, at this boundary, per
// the specification's error-handling design.
func run(cfg config.Config, trace []arch.Instruction) (cycles uint64, retired uint64, err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*ooo.Fault); ok {
				err = f
				return
			}
			panic(r)
		}
	}()

	src := golden.NewTraceSource(trace, cfg.DecodeWidth)
	dp := ooo.NewDatapath(cfg)
	divergence := ooo.NewDivergenceChecker()

	for cycles = 0; cycles < *maxCycles; cycles++ {
		_, rewind, restart, gotoPC, retiredBundle := dp.Tick(src)
		retired += uint64(retiredBundle.Howmany)

		if *verbose {
			fmt.Printf("cycle %d: retired=%d rewind=%v restart=%v gotoPC=%d\n",
				cycles, retiredBundle.Howmany, rewind, restart, gotoPC)

			for i := 0; i < retiredBundle.Howmany; i++ {
				if retiredBundle.Rd[i] == arch.R0 {
					continue
				}
				if fault := divergence.Check(retiredBundle.Cookie[i].Serial, uint64(retiredBundle.Val[i]), retiredBundle.Cookie[i]); fault != nil {
					panic(fault)
				}
			}
		}

		for i := 0; i < retiredBundle.Howmany; i++ {
			if retiredBundle.Cookie[i].Inst.Opcode == arch.HALT {
				return cycles + 1, retired, nil
			}
		}
	}

	return cycles, retired, nil
}
