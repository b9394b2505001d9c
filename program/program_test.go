package program

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/aluedtke7/dmdanim/animator"
	"github.com/aluedtke7/dmdanim/matrix"
	"github.com/aluedtke7/dmdanim/pattern"
	"github.com/antigloss/go/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "program-test")
	if err != nil {
		panic(err)
	}
	_ = logger.Init(dir, 10, 2, 10, false)
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestParse(t *testing.T) {
	src := `
# demo
clear
text hello "Hi there"
blink excmark row=4 col=63 rows=7 cols=64 delay=1000 cycles=3
  pause 2000
scroll arrow row=4 col=63 shift=5 cycles=2
`
	p, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []Step{
		{Line: 3, Kind: Clear},
		{Line: 4, Kind: Text, Pattern: "hello", Text: "Hi there"},
		{Line: 5, Kind: Blink, Pattern: "excmark", RowStart: 4, ColStart: 63, RowMax: 7, ColMax: 64, Delay: time.Second, Cycles: 3},
		{Line: 6, Kind: Pause, Delay: 2 * time.Second},
		{Line: 7, Kind: Scroll, Pattern: "arrow", RowStart: 4, ColStart: 63, Shift: 5, Cycles: 2},
	}
	if !reflect.DeepEqual(p.Steps, want) {
		t.Errorf("Parse() =\n%v\nwant\n%v", p.Steps, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown command", "jump 3"},
		{"clear with args", "clear now"},
		{"pause without value", "pause"},
		{"pause not a number", "pause soon"},
		{"negative pause", "pause -5"},
		{"blink without pattern", "blink"},
		{"option without value", "blink arrow row"},
		{"option not a number", "blink arrow row=x"},
		{"shift on blink", "blink arrow shift=3"},
		{"delay on scroll", "scroll arrow delay=3"},
		{"unknown option", "scroll arrow speed=3"},
		{"text without string", "text hello"},
		{"open quote", `text hello "oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader("clear\n" + tt.src))
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Parse(%q) error = %v, want ErrSyntax", tt.src, err)
			}
			if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("error %q does not name line 2", err)
			}
		})
	}
}

type sleeps []time.Duration

func (s *sleeps) Sleep(d time.Duration) { *s = append(*s, d) }

func newRunner(t *testing.T) (*Runner, *matrix.Panel, *sleeps) {
	t.Helper()
	panel, err := matrix.New(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	s := &sleeps{}
	r := &Runner{
		Animator: animator.New(panel, panel.Width(), panel.Height(), animator.WithSleeper(s)),
		Canvas:   panel,
		Patterns: pattern.Builtin(),
		Sleeper:  s,
	}
	return r, panel, s
}

func TestRunDefault(t *testing.T) {
	r, panel, s := newRunner(t)
	panel.Clear(false)

	var kinds []Kind
	feeds := 0
	r.OnStep = func(st Step) { kinds = append(kinds, st.Kind) }
	r.Feed = func() { feeds++ }

	if err := r.Run(Default()); err != nil {
		t.Fatal(err)
	}
	wantKinds := []Kind{Clear, Blink, Pause, Scroll, Pause}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("steps = %v, want %v", kinds, wantKinds)
	}
	if feeds != len(wantKinds) {
		t.Errorf("watchdog fed %d times, want %d", feeds, len(wantKinds))
	}
	if panel.Lit() != 0 {
		t.Errorf("%d pixels lit after the program", panel.Lit())
	}
	// 3 blinks x 2 holds, 2 pauses, 3 scroll sweeps of 63 frames
	if want := 6 + 2 + 3*63; len(*s) != want {
		t.Errorf("%d sleeps, want %d", len(*s), want)
	}
}

func TestRunText(t *testing.T) {
	r, panel, _ := newRunner(t)
	p, err := Parse(strings.NewReader(`text hi "HI"
blink hi row=4 col=63 delay=5 cycles=1`))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Run(p); err != nil {
		t.Fatal(err)
	}
	// a second pass must not trip over the existing text pattern
	if err := r.Run(p); err != nil {
		t.Fatal(err)
	}
	if panel.Lit() != 0 {
		t.Errorf("%d pixels lit after the program", panel.Lit())
	}

	clash, _ := Parse(strings.NewReader(`text hi "HO"`))
	if err := r.Run(clash); !errors.Is(err, pattern.ErrDuplicate) {
		t.Errorf("redefining text error = %v, want ErrDuplicate", err)
	}
	shadow, _ := Parse(strings.NewReader(`text arrow "A"`))
	if err := r.Run(shadow); !errors.Is(err, pattern.ErrDuplicate) {
		t.Errorf("shadowing a builtin error = %v, want ErrDuplicate", err)
	}
}

func TestRunStopsAtFirstError(t *testing.T) {
	r, _, _ := newRunner(t)
	p, err := Parse(strings.NewReader("blink nothing\npause 10"))
	if err != nil {
		t.Fatal(err)
	}
	ran := 0
	r.OnStep = func(Step) { ran++ }
	err = r.Run(p)
	if !errors.Is(err, pattern.ErrUnknown) {
		t.Errorf("error = %v, want ErrUnknown", err)
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error %q does not name line 1", err)
	}
	if ran != 1 {
		t.Errorf("ran %d steps, want 1", ran)
	}

	bad := Program{Steps: []Step{{Kind: Scroll, Pattern: "arrow", RowStart: 12, ColStart: 63, Cycles: 1}}}
	if err := r.Run(bad); !errors.Is(err, animator.ErrInvalidGeometry) {
		t.Errorf("error = %v, want ErrInvalidGeometry", err)
	}
}
