package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aluedtke7/dmdanim/animator"
	"github.com/aluedtke7/dmdanim/display"
	"github.com/aluedtke7/dmdanim/lcd"
	"github.com/aluedtke7/dmdanim/matrix"
	"github.com/aluedtke7/dmdanim/oled"
	"github.com/aluedtke7/dmdanim/pattern"
	"github.com/aluedtke7/dmdanim/program"
	"github.com/aluedtke7/dmdanim/scan"
	"github.com/aluedtke7/dmdanim/watchdog"

	"github.com/antigloss/go/logger"
)

const (
	bannerRow = 4
	resetCode = 3
)

var (
	disp           display.Display
	screen         *oled.Oled
	debug          *bool
	acrossPtr      *int
	downPtr        *int
	scanPtr        *int
	loopsPtr       *int
	watchdogPtr    *int
	programPtr     *string
	textPtr        *string
	oledPtr        *bool
	lcdPtr         *bool
	homePath       string
	lastStatusLine [4]string
	lastCycle      int
)

// helper for error checking
func check(err error) {
	if err != nil {
		logger.Error(err.Error())
		if inner := errors.Unwrap(err); inner != nil {
			logger.Error(inner.Error())
		}
	}
}

func clamp(v *int, lo, hi int) {
	if *v < lo {
		*v = lo
	}
	if *v > hi {
		*v = hi
	}
}

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "~/"
	}
	return usr.HomeDir
}

// prints a status line on the LCD, skipping unchanged lines
func printStatus(line int, text string) {
	if disp == nil || line < 0 || line >= len(lastStatusLine) {
		return
	}
	if lastStatusLine[line] == text {
		return
	}
	lastStatusLine[line] = text
	disp.PrintLine(line, text)
}

func stepCaption(s program.Step) string {
	switch s.Kind {
	case program.Blink, program.Scroll:
		return fmt.Sprintf("%v %s", s.Kind, s.Pattern)
	}
	return s.Kind.String()
}

// returns the per-frame hook: feeds the watchdog and shows the remaining cycles
func frameTrace(feed func()) func(animator.Frame) {
	return func(f animator.Frame) {
		if feed != nil {
			feed()
		}
		if *debug {
			logger.Trace("frame shift %d hold %v cycle %d", f.Shift, f.Hold, f.Cycle)
		}
		if f.Cycle != lastCycle {
			lastCycle = f.Cycle
			printStatus(2, fmt.Sprintf("cycles left %d", f.Cycle))
		}
	}
}

// runs the program for the given number of passes, forever when loops is 0
func animate(runner *program.Runner, prog program.Program, loops int) error {
	for pass := 1; loops == 0 || pass <= loops; pass++ {
		printStatus(3, fmt.Sprintf("pass %d", pass))
		logger.Trace("Pass %d", pass)
		if err := runner.Run(prog); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	homePath = filepath.Join(getHomeDir(), ".dmdanim")
	_ = os.MkdirAll(homePath, os.ModePerm)

	// Commandline parameters
	debug = flag.Bool("debug", false, "set to log every step and frame")
	acrossPtr = flag.Int("across", 2, "number of 32x16 modules side by side (1...8)")
	downPtr = flag.Int("down", 1, "number of 32x16 modules stacked (1...4)")
	scanPtr = flag.Int("scan", 20, "scan period in ms (1ms...1000ms)")
	loopsPtr = flag.Int("loops", 0, "number of program passes, 0 runs forever")
	watchdogPtr = flag.Int("watchdog", 300, "watchdog timeout in s (10s...3600s)")
	programPtr = flag.String("program", filepath.Join(homePath, "program"), "program file")
	textPtr = flag.String("text", "", "text banner scrolled after each pass")
	oledPtr = flag.Bool("oled", false, "set to mirror the panel on a SSD1306 OLED")
	lcdPtr = flag.Bool("lcd", false, "set to show the status on a 20x4 LCD")
	flag.Parse()
	clamp(acrossPtr, 1, matrix.MaxAcross)
	clamp(downPtr, 1, matrix.MaxDown)
	clamp(scanPtr, 1, 1000)
	clamp(watchdogPtr, 10, 3600)
	if *loopsPtr < 0 {
		*loopsPtr = 0
	}

	_ = logger.Init(filepath.Join(homePath, "log"), 30, 2, 10, *debug)
	logger.Trace("Starting dmdanim...")

	panel, err := matrix.New(*acrossPtr, *downPtr)
	if err != nil {
		logger.Error("Couldn't create panel: %s", err)
		os.Exit(1)
	}
	logger.Info("Panel: %v", panel)

	var sinks []display.Sink
	if *oledPtr {
		if screen, err = oled.New(); err != nil {
			logger.Error("Couldn't initialize OLED: %s", err)
		} else {
			sinks = append(sinks, screen)
		}
	}
	if *lcdPtr {
		if disp, err = lcd.New(lcd.DefaultOpts); err != nil {
			logger.Error("Couldn't initialize LCD: %s", err)
			disp = nil
		}
	}

	registry := pattern.Builtin()
	prog, err := program.Load(*programPtr)
	if err != nil {
		logger.Error("Couldn't load program: %s", err)
		os.Exit(1)
	}
	if *textPtr != "" {
		check(prog.AddBanner(registry, *textPtr, bannerRow, panel.Width()-1))
	}
	logger.Info("Program with %d steps, patterns %v", len(prog.Steps), registry.Names())

	scanner := scan.New(panel, time.Duration(*scanPtr)*time.Millisecond, sinks...)
	scanner.Start()

	wd := watchdog.New(time.Duration(*watchdogPtr)*time.Second, func() {
		logger.Error("reboot")
		os.Exit(resetCode)
	})

	anim := animator.New(panel, panel.Width(), panel.Height(), animator.WithTrace(frameTrace(wd.Feed)))
	runner := &program.Runner{
		Animator: anim,
		Canvas:   panel,
		Patterns: registry,
		Sleeper:  animator.SleeperFunc(time.Sleep),
		Feed:     wd.Feed,
		OnStep: func(s program.Step) {
			lastCycle = 0
			printStatus(0, fmt.Sprintf("DMD %dx%d", panel.Width(), panel.Height()))
			printStatus(1, s.String())
			printStatus(2, "")
			if screen != nil {
				screen.Caption(stepCaption(s))
			}
		},
	}

	shutdown := func() {
		wd.Stop()
		scanner.Close()
		if disp != nil {
			disp.Close()
		}
	}

	// this goroutine is waiting for dmdanim being stopped
	var ctrlChan = make(chan os.Signal, 1)
	signal.Notify(ctrlChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlChan
		logger.Trace("Ctrl+C received... Exiting")
		shutdown()
		os.Exit(1)
	}()

	err = animate(runner, prog, *loopsPtr)
	check(err)
	shutdown()
	if err != nil {
		os.Exit(1)
	}
}
