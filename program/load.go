package program

import (
	"os"

	"github.com/aluedtke7/dmdanim/pattern"
	"github.com/antigloss/go/logger"
)

const BannerName = "banner"

func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// Load reads a program file. A missing file, or an empty name, yields the Default program.
func Load(fileName string) (Program, error) {
	if fileName == "" || !fileExists(fileName) {
		if fileName != "" {
			logger.Warn("Program %s not found, using the built-in program", fileName)
		}
		return Default(), nil
	}
	f, err := os.Open(fileName)
	if err != nil {
		return Program{}, err
	}
	//noinspection GoUnhandledErrorResult
	defer f.Close()
	return Parse(f)
}

// AddBanner registers text as the banner pattern and appends a single scroll of it,
// starting at column col of row.
func (p *Program) AddBanner(reg *pattern.Registry, text string, row, col int) error {
	b, err := pattern.FromText(BannerName, text)
	if err != nil {
		return err
	}
	if err := reg.Register(b); err != nil {
		return err
	}
	p.Steps = append(p.Steps, Step{
		Kind:     Scroll,
		Pattern:  BannerName,
		RowStart: row,
		ColStart: col,
		Cycles:   1,
	})
	return nil
}
