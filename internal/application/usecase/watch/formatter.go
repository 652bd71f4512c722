package watch

import (
	"math"
	"strconv"
	"strings"

	"github.com/ascai1/oanda-wallpaper/internal/domain"
)

const (
	ansiReset    = "\033[0m"
	ansiBold     = "\033[1m"
	ansiDim      = "\033[2m"
	ansiRed      = "\033[31m"
	ansiGreen    = "\033[32m"
	ansiYellow   = "\033[33m"
	ansiClearEOL = "\033[K"
)

func colorize(s, c string) string { return c + s + ansiReset }

type RenderMode int

const (
	RenderLive RenderMode = iota
	RenderSnapshot
)

// Brightness maps a draw state onto the fade curve: 0 at both ends of the
// fade and 1 halfway through.
func Brightness(drawState int) float64 {
	if drawState <= 0 || drawState >= domain.MaxDraw {
		return 0
	}
	x := float64(drawState)/domain.MaxDraw*2 - 1
	return math.Sqrt(1 - x*x)
}

type Formatter struct {
	Precision int
}

func NewFormatter(precision int) *Formatter {
	if precision <= 0 {
		precision = 5
	}
	return &Formatter{Precision: precision}
}

// Render draws one line for entries. Live lines start with a carriage return
// and clear to end of line so they overwrite the previous frame.
func (f *Formatter) Render(entries []domain.Instrument, mode RenderMode) string {
	var sb strings.Builder
	if mode == RenderLive {
		sb.WriteString("\r")
	}

	sb.WriteString(colorize("[OANDA] ", ansiDim))

	if len(entries) == 0 {
		sb.WriteString(colorize("waiting for prices...", ansiYellow))
	}

	for i, e := range entries {
		if i > 0 {
			sb.WriteString(colorize("  |  ", ansiDim))
		}

		col := ansiRed
		arrow := "v"
		if e.Direction == domain.DirectionUp {
			col = ansiGreen
			arrow = "^"
		}

		px := strconv.FormatFloat(e.Price, 'f', f.Precision, 64)
		cell := e.Symbol.String() + " " + px + " " + arrow

		// snapshot lines are history, they never carry the highlight
		if mode == RenderLive && Brightness(e.DrawState) >= 0.5 {
			col = ansiBold + col
		}
		sb.WriteString(colorize(cell, col))
	}

	if mode == RenderLive {
		sb.WriteString(ansiClearEOL)
	}
	return sb.String()
}
