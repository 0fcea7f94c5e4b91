// Copyright 2024 The TMBASIC Authors
// This file is part of TMBASIC.
//
// TMBASIC is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TMBASIC is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with TMBASIC. If not, see <http://www.gnu.org/licenses/>.

// Command tmbvm loads a serialized tmbasic Program and runs it to
// completion or interactively, in the style of probe-lang/cmd/probec.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/sdizdarevic/tmbasic/internal/config"
	"github.com/sdizdarevic/tmbasic/internal/obs"
	"github.com/sdizdarevic/tmbasic/syscall"
	"github.com/sdizdarevic/tmbasic/vm"
)

func main() {
	programPath := flag.String("program", "", "path to a serialized tmbasic Program")
	maxCycles := flag.Int("max-cycles", 0, "cycles per Run call (0 uses the config default)")
	debug := flag.Bool("debug", false, "drop into the interactive single-step debugger")
	disasm := flag.Bool("disasm", false, "print disassembly of every procedure and exit")
	configPath := flag.String("config", "", "optional TOML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tmbvm: loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if *programPath == "" {
		fmt.Fprintln(os.Stderr, "tmbvm: -program is required")
		os.Exit(2)
	}
	data, err := os.ReadFile(*programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tmbvm: reading program: %v\n", err)
		os.Exit(1)
	}
	program, err := vm.DeserializeProgram(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tmbvm: parsing program: %v\n", err)
		os.Exit(1)
	}

	if *disasm {
		for i, proc := range program.Procedures {
			fmt.Printf("; procedure %d: %s\n", i, proc.Name)
			fmt.Println(vm.Disassemble(proc.Instructions))
		}
		return
	}

	logger, err := obs.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tmbvm: building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	bus := vm.NewSyscallBus()
	syscall.Register(bus)

	stdout := &consoleWriter{w: os.Stdout}
	stdin := bufio.NewReader(os.Stdin)

	cycles := *maxCycles
	if cycles == 0 {
		cycles = cfg.DefaultCycleBudget
	}

	interp := vm.NewInterpreter(program, &consoleReader{r: stdin}, stdout,
		vm.WithStackCapacities(cfg.ValueStackCapacity, cfg.ObjectStackCapacity),
		vm.WithSyscallBus(bus),
		vm.WithLogger(logger),
	)
	if err := interp.Init(program.StartupProcedureIndex); err != nil {
		fmt.Fprintf(os.Stderr, "tmbvm: %v\n", err)
		os.Exit(1)
	}

	runID := uuid.New()
	logger.Info("run starting", zap.String("run", runID.String()))

	if *debug {
		runDebugger(interp, cycles)
		return
	}

	for {
		resumable, err := interp.Run(cycles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tmbvm: fatal: %v\n", err)
			os.Exit(1)
		}
		if !resumable {
			break
		}
		logger.Info("run resuming", zap.String("run", runID.String()))
	}
	logger.Info("run finished", zap.String("run", runID.String()))

	if vmErr := interp.GetError(); vmErr != nil {
		fmt.Fprintf(os.Stderr, "tmbvm: unhandled error: %s\n", vmErr.Message)
		os.Exit(1)
	}
}

// runDebugger drives a liner-backed single-step REPL, adapted from
// KTStephano-GVM's bufio-based RunProgramDebugMode onto this VM's
// dual-stack model.
func runDebugger(interp *vm.Interpreter, cycles int) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	prompt := color.New(color.FgGreen).Sprint("(tmbvm) ")
	for {
		cmd, err := line.Prompt(prompt)
		if err != nil {
			return
		}
		line.AppendHistory(cmd)
		switch cmd {
		case "step", "s":
			resumable, err := interp.Run(1)
			if err != nil {
				fmt.Printf("fatal: %v\n", err)
				return
			}
			if !resumable {
				fmt.Println("program finished")
				return
			}
		case "run", "r":
			resumable, err := interp.Run(cycles)
			if err != nil {
				fmt.Printf("fatal: %v\n", err)
				return
			}
			if !resumable {
				fmt.Println("program finished")
				return
			}
		case "dump", "d":
			dumpState(interp)
		case "quit", "q":
			return
		default:
			fmt.Println("commands: step|s, run|r, dump|d, quit|q")
		}
	}
}

func dumpState(interp *vm.Interpreter) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"slot", "kind", "value"})
	if vmErr := interp.GetError(); vmErr != nil {
		table.Append([]string{"error", "register", vmErr.Message})
	}
	table.Render()
	spew.Dump(interp)
}

type consoleReader struct{ r *bufio.Reader }

func (c *consoleReader) ReadString(delim byte) (string, error) { return c.r.ReadString(delim) }

type consoleWriter struct{ w *os.File }

func (c *consoleWriter) WriteString(s string) (int, error) { return c.w.WriteString(s) }
