// Package app is the terminal editor: a tcell event loop over a grid.Sheet.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"gridsheet/internal/calc"
	"gridsheet/internal/config"
	"gridsheet/internal/grid"

	"github.com/gdamore/tcell/v2"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
)

func (m Mode) String() string {
	if m == ModeInsert {
		return "insert"
	}
	return "normal"
}

type App struct {
	cfg config.Editor
	log *slog.Logger

	Sheet *grid.Sheet
	File  string

	// cursor / view, 0-based
	CurRow  int
	CurCol  int
	ViewRow int
	ViewCol int

	Mode              Mode
	InputBuf          string
	ReplaceOnNextRune bool
	StatusMsg         string
	HelpVisible       bool
	Quit              bool

	// first status line row, set by Draw
	bottom int

	// mouse drag source
	dragging bool
	dragRow  int
	dragCol  int
}

func NewApp(cfg config.Editor, log *slog.Logger) *App {
	return &App{
		cfg:   cfg,
		log:   log,
		Sheet: grid.NewSheet(cfg.InitialRows, cfg.InitialCols, cfg.DefaultWidth, cfg.DefaultHeight),
	}
}

// Run draws and dispatches events until the user quits or ctx is done.
// The screen must already be initialised.
func (a *App) Run(ctx context.Context, s tcell.Screen) error {
	stop := context.AfterFunc(ctx, func() {
		_ = s.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	if a.cfg.Splash {
		Splash(s)
	}

	for !a.Quit {
		a.EnsureCursorVisible(s)
		a.Draw(s)
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			a.HandleKeyEvent(s, ev)
		case *tcell.EventMouse:
			a.HandleMouseEvent(ev)
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
	return nil
}

// ApplyFormula evaluates input against the sheet and writes the formatted
// result into the active cell. On error the sheet is left untouched and the
// error is shown in the status line.
func (a *App) ApplyFormula(input string) bool {
	val, err := calc.EvaluateFormula(input, a.Sheet.CellTextAt)
	if err != nil {
		a.fail(err)
		return false
	}
	text := calc.FormatResult(val)
	a.Sheet.Set(a.CurRow, a.CurCol, text)
	a.status("%s = %s", grid.RefAt(a.CurRow, a.CurCol), text)
	a.log.Info("formula applied", "cell", grid.RefAt(a.CurRow, a.CurCol).String(), "formula", input, "result", val)
	return true
}

// commit stores the edit buffer in the active cell.
func (a *App) commit(text string) {
	if calc.IsFormula(text) {
		a.ApplyFormula(text)
		return
	}
	a.Sheet.Set(a.CurRow, a.CurCol, text)
}

func (a *App) status(format string, args ...any) {
	a.StatusMsg = fmt.Sprintf(format, args...)
}

func (a *App) fail(err error) {
	if kind := calc.Kind(err); kind != "" && kind != "Internal" {
		a.status("%s: %v", kind, err)
	} else {
		a.status("error: %v", err)
	}
	a.log.Warn("command failed", "err", err)
}

func (a *App) currentRef() grid.CellRef {
	return grid.RefAt(a.CurRow, a.CurCol)
}
