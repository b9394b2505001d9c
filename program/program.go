// Package program parses and runs playlists of panel animations.
//
// A program is a line oriented script. Blank lines and lines starting with '#' are
// skipped, the rest is split shell-style:
//
//	clear
//	text hello "Hi there"
//	blink excmark row=4 col=63 rows=7 cols=64 delay=1000 cycles=3
//	pause 2000
//	scroll arrow row=4 col=63 shift=0 cycles=3
//
// rows and cols default to the size of the pattern; delay and pause are milliseconds.
package program

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
)

var ErrSyntax = errors.New("program: syntax error")

type Kind int

const (
	Clear Kind = iota
	Blink
	Scroll
	Pause
	Text
)

func (k Kind) String() string {
	switch k {
	case Clear:
		return "clear"
	case Blink:
		return "blink"
	case Scroll:
		return "scroll"
	case Pause:
		return "pause"
	case Text:
		return "text"
	}
	return "unknown"
}

// Step is one program line. Fields not used by a kind stay zero; RowMax and ColMax are
// zero when they should follow the pattern size.
type Step struct {
	Line     int
	Kind     Kind
	Pattern  string
	Text     string
	RowStart int
	ColStart int
	RowMax   int
	ColMax   int
	Shift    int
	Delay    time.Duration
	Cycles   int
}

func (s Step) String() string {
	switch s.Kind {
	case Clear:
		return "clear"
	case Pause:
		return fmt.Sprintf("pause %v", s.Delay)
	case Text:
		return fmt.Sprintf("text %s %q", s.Pattern, s.Text)
	case Blink:
		return fmt.Sprintf("blink %s @%d,%d x%d", s.Pattern, s.RowStart, s.ColStart, s.Cycles)
	}
	return fmt.Sprintf("%v %s @%d,%d x%d", s.Kind, s.Pattern, s.RowStart, s.ColStart, s.Cycles)
}

type Program struct {
	Steps []Step
}

// Default mirrors the demo loop of the panel firmware.
func Default() Program {
	return Program{Steps: []Step{
		{Kind: Clear},
		{Kind: Blink, Pattern: "excmark", RowStart: 4, ColStart: 63, RowMax: 7, ColMax: 64, Delay: time.Second, Cycles: 3},
		{Kind: Pause, Delay: 2 * time.Second},
		{Kind: Scroll, Pattern: "arrow", RowStart: 4, ColStart: 63, RowMax: 7, ColMax: 4, Cycles: 3},
		{Kind: Pause, Delay: 2 * time.Second},
	}}
}

func Parse(r io.Reader) (Program, error) {
	var p Program
	scanner := bufio.NewScanner(r)
	nr := 0
	for scanner.Scan() {
		nr++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		step, err := parseLine(nr, line)
		if err != nil {
			return Program{}, err
		}
		p.Steps = append(p.Steps, step)
	}
	if err := scanner.Err(); err != nil {
		return Program{}, err
	}
	return p, nil
}

func syntaxError(line int, format string, args ...interface{}) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}

func parseLine(nr int, line string) (Step, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return Step{}, syntaxError(nr, "%s", err)
	}
	if len(words) == 0 {
		return Step{}, syntaxError(nr, "empty command")
	}
	s := Step{Line: nr}
	args := words[1:]
	switch words[0] {
	case "clear":
		s.Kind = Clear
		if len(args) != 0 {
			return Step{}, syntaxError(nr, "clear takes no arguments")
		}
	case "pause":
		s.Kind = Pause
		if len(args) != 1 {
			return Step{}, syntaxError(nr, "pause needs a duration in ms")
		}
		ms, err := strconv.Atoi(args[0])
		if err != nil || ms < 0 {
			return Step{}, syntaxError(nr, "bad pause %q", args[0])
		}
		s.Delay = time.Duration(ms) * time.Millisecond
	case "text":
		s.Kind = Text
		if len(args) != 2 {
			return Step{}, syntaxError(nr, "text needs a name and a string")
		}
		s.Pattern, s.Text = args[0], args[1]
	case "blink", "scroll":
		s.Kind = Blink
		if words[0] == "scroll" {
			s.Kind = Scroll
		}
		if len(args) == 0 {
			return Step{}, syntaxError(nr, "%s needs a pattern name", words[0])
		}
		s.Pattern = args[0]
		s.Cycles = 1
		if err := parseOptions(&s, args[1:]); err != nil {
			return Step{}, err
		}
	default:
		return Step{}, syntaxError(nr, "unknown command %q", words[0])
	}
	return s, nil
}

func parseOptions(s *Step, opts []string) error {
	for _, opt := range opts {
		kv := strings.SplitN(opt, "=", 2)
		if len(kv) != 2 {
			return syntaxError(s.Line, "option %q is not key=value", opt)
		}
		v, err := strconv.Atoi(kv[1])
		if err != nil {
			return syntaxError(s.Line, "option %s: %q is not a number", kv[0], kv[1])
		}
		switch {
		case kv[0] == "row":
			s.RowStart = v
		case kv[0] == "col":
			s.ColStart = v
		case kv[0] == "rows":
			s.RowMax = v
		case kv[0] == "cols":
			s.ColMax = v
		case kv[0] == "cycles":
			s.Cycles = v
		case kv[0] == "delay" && s.Kind == Blink:
			s.Delay = time.Duration(v) * time.Millisecond
		case kv[0] == "shift" && s.Kind == Scroll:
			s.Shift = v
		default:
			return syntaxError(s.Line, "unknown option %q for %v", kv[0], s.Kind)
		}
	}
	return nil
}
