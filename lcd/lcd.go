package lcd

import (
	"strings"
	"time"

	"github.com/aluedtke7/dmdanim/display"
	log "github.com/antigloss/go/logger"
	device "github.com/d2r2/go-hd44780"
	"github.com/d2r2/go-i2c"
	"github.com/d2r2/go-logger"
)

const (
	numChars = 20
	numLines = 4
)

const (
	cmdClear = iota
	cmdBacklightOn
	cmdBacklightOff
	cmdPrintline
)

// Opts configures the HD44780 status panel behind a PCF8574 I²C backpack.
type Opts struct {
	Addr        uint8 // I²C address, 0x27 for most backpacks
	Bus         int   // I²C bus number
	ScrollSpeed time.Duration
	InitDelay   time.Duration
}

var DefaultOpts = Opts{Addr: 0x27, Bus: 1, ScrollSpeed: 500 * time.Millisecond, InitDelay: 3 * time.Second}

type lcd struct {
	i2cbus  *i2c.I2C
	dev     *device.Lcd
	lines   [numLines]device.ShowOptions
	scroll  [numLines]chan struct{}
	cmdChan chan command
	speed   time.Duration
}

type command struct {
	cmd      int
	lineNum  int
	lineText string
	stop     chan struct{} // set by a marquee, closed once the line shows something else
}

// marquee returns the visible window of a looping text after step shifts.
func marquee(text string, step int) string {
	if len(text) <= numChars {
		return text
	}
	s := text + "   "
	step %= len(s)
	s = s[step:] + s[:step]
	return s[:numChars]
}

func (l *lcd) printLine(line int, text string) {
	if line < 0 || line >= numLines {
		return
	}
	if len(text) == 0 {
		text = " " // the driver rejects empty strings
	}
	if err := l.dev.ShowMessage(text, l.lines[line]); err != nil {
		log.Error(err.Error())
	}
}

func (l *lcd) runMarquee(line int, text string, stop chan struct{}) {
	ticker := time.NewTicker(l.speed)
	defer ticker.Stop()
	for step := 1; ; step++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.cmdChan <- command{cmd: cmdPrintline, lineNum: line, lineText: marquee(text, step), stop: stop}
		}
	}
}

func (l *lcd) stopMarquee(line int) {
	if l.scroll[line] != nil {
		close(l.scroll[line])
		l.scroll[line] = nil
	}
}

func isClosed(c chan struct{}) bool {
	select {
	case <-c:
		return true
	default:
		return false
	}
}

func (l *lcd) commandHandler() {
	for c := range l.cmdChan {
		var err error
		switch c.cmd {
		case cmdClear:
			err = l.dev.Clear()
			time.Sleep(100 * time.Millisecond)
		case cmdBacklightOn:
			err = l.dev.BacklightOn()
		case cmdBacklightOff:
			err = l.dev.BacklightOff()
		case cmdPrintline:
			if c.stop != nil && isClosed(c.stop) {
				continue
			}
			l.printLine(c.lineNum, c.lineText)
		}
		if err != nil {
			log.Error(err.Error())
		}
	}
}

func (l *lcd) Backlight(on bool) {
	if on {
		l.cmdChan <- command{cmd: cmdBacklightOn}
	} else {
		l.cmdChan <- command{cmd: cmdBacklightOff}
	}
}

func (l *lcd) Clear() {
	for i := range l.scroll {
		l.stopMarquee(i)
	}
	l.cmdChan <- command{cmd: cmdClear}
}

func (l *lcd) Close() {
	if l.i2cbus != nil {
		for i := range l.scroll {
			l.stopMarquee(i)
		}
		time.Sleep(time.Second)
		_ = l.i2cbus.Close()
		l.i2cbus = nil
	}
}

// PrintLine shows text on a line. Text longer than the display scrolls in a loop.
func (l *lcd) PrintLine(line int, text string) {
	line = line % numLines
	l.stopMarquee(line)
	text = strings.TrimSpace(text)
	l.cmdChan <- command{cmd: cmdPrintline, lineNum: line, lineText: marquee(text, 0)}
	if len(text) > numChars {
		l.scroll[line] = make(chan struct{})
		go l.runMarquee(line, text, l.scroll[line])
	}
}

func (l *lcd) GetCharsPerLine() int {
	return numChars
}

/**
Initializes the 20x4 LC-Display used as status panel
*/
func New(opts Opts) (disp display.Display, err error) {
	log.Trace("LCD initializing...")
	_ = logger.ChangePackageLogLevel("i2c", logger.WarnLevel)
	_ = logger.ChangePackageLogLevel("hd44780", logger.WarnLevel)
	if opts.ScrollSpeed <= 0 {
		opts.ScrollSpeed = DefaultOpts.ScrollSpeed
	}
	l := &lcd{speed: opts.ScrollSpeed, cmdChan: make(chan command)}

	for i := range l.lines {
		l.lines[i] = device.SHOW_BLANK_PADDING
	}
	l.lines[0] |= device.SHOW_LINE_1
	l.lines[1] |= device.SHOW_LINE_2
	l.lines[2] |= device.SHOW_LINE_3
	l.lines[3] |= device.SHOW_LINE_4

	l.i2cbus, err = i2c.NewI2C(opts.Addr, opts.Bus)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	time.Sleep(opts.InitDelay)

	l.dev, err = device.NewLcd(l.i2cbus, device.LCD_20x4)
	if err != nil {
		log.Error(err.Error())
		_ = l.i2cbus.Close()
		return nil, err
	}

	go l.commandHandler()

	l.Clear()
	l.Backlight(true)
	return l, nil
}
