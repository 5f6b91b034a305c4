package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gridsheet/internal/grid"
	"gridsheet/internal/storage"
	"gridsheet/internal/textops"

	"github.com/gdamore/tcell/v2"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// ExecuteCommand runs a ':' command line. Failures are reported in the
// status line and leave the sheet unchanged.
func (a *App) ExecuteCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}
	if err := a.execute(parts[0], parts[1:], cmd); err != nil {
		a.fail(err)
	}
}

func (a *App) execute(name string, args []string, line string) error {
	switch name {
	case "q", "quit":
		a.Quit = true
	case "w":
		return a.save(args)
	case "o":
		return a.open(args)
	case "cw":
		n, err := intArg(args, "cw N")
		if err != nil {
			return err
		}
		if !a.Sheet.SetAllColWidths(n) {
			return fmt.Errorf("%w: column width must be at least %d", ErrUsage, grid.MinColWidth)
		}
	case "rh":
		n, err := intArg(args, "rh N")
		if err != nil {
			return err
		}
		if !a.Sheet.SetAllRowHeights(n) {
			return fmt.Errorf("%w: row height must be at least %d", ErrUsage, grid.MinRowHeight)
		}
	case "fx":
		formula := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), name))
		if formula == "" {
			return fmt.Errorf("%w: fx =FUNC(A1:B2)", ErrUsage)
		}
		a.ApplyFormula(formula)
	case "replace":
		if len(args) < 2 {
			return fmt.Errorf("%w: replace RANGE FIND [REPLACEMENT]", ErrUsage)
		}
		r, err := rangeArg(args[0])
		if err != nil {
			return err
		}
		replacement := ""
		if len(args) > 2 {
			replacement = strings.Join(args[2:], " ")
		}
		n, err := textops.FindReplace(a.Sheet, r, args[1], replacement)
		if err != nil {
			return err
		}
		a.status("replaced in %d cells", n)
	case "dedup":
		if len(args) != 1 {
			return fmt.Errorf("%w: dedup RANGE", ErrUsage)
		}
		r, err := rangeArg(args[0])
		if err != nil {
			return err
		}
		n, err := textops.RemoveDuplicates(a.Sheet, r)
		if err != nil {
			return err
		}
		a.status("removed %d duplicate rows", n)
	case "bold":
		a.Sheet.ToggleBold(a.CurRow, a.CurCol)
	case "italic":
		a.Sheet.ToggleItalic(a.CurRow, a.CurCol)
	case "color":
		return a.color(args)
	case "mv":
		if len(args) != 1 {
			return fmt.Errorf("%w: mv CELL", ErrUsage)
		}
		to, err := grid.ParseCellRef(strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		row, col := to.Index()
		if a.Sheet.Move(a.CurRow, a.CurCol, row, col) {
			a.CurRow, a.CurCol = row, col
		}
	case "ir":
		a.Sheet.InsertRow(a.CurRow)
	case "ic":
		a.Sheet.InsertCol(a.CurCol)
	case "dr":
		a.deleteRow()
	case "dc":
		a.deleteCol()
	default:
		transform, err := textops.Lookup(name)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
		}
		return a.transform(transform, args)
	}
	return nil
}

// transform applies t to the active cell, or to every cell of the range
// given as the only argument.
func (a *App) transform(t textops.Transform, args []string) error {
	r := grid.NewRange(a.currentRef(), a.currentRef())
	if len(args) > 0 {
		var err error
		if r, err = rangeArg(args[0]); err != nil {
			return err
		}
	}
	changed, err := textops.ApplyRange(a.Sheet, r, t)
	if err != nil {
		return err
	}
	a.status("%d cells changed", changed)
	return nil
}

func (a *App) color(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: color NAME|none", ErrUsage)
	}
	name := strings.ToLower(args[0])
	if name == "none" {
		name = ""
	} else if tcell.GetColor(name) == tcell.ColorDefault {
		return fmt.Errorf("%w: unknown color %q", ErrUsage, args[0])
	}
	a.Sheet.SetColor(a.CurRow, a.CurCol, name)
	return nil
}

// save writes the sheet. "w FILE csv" appends the extension when missing;
// a bare "w" reuses the last file name.
func (a *App) save(args []string) error {
	filename, err := a.fileArg(args)
	if err != nil {
		return err
	}
	if err := storage.Save(a.Sheet, filename); err != nil {
		return err
	}
	a.File = filename
	a.status("saved %s", filename)
	a.log.Info("sheet saved", "file", filename)
	return nil
}

func (a *App) open(args []string) error {
	filename, err := a.fileArg(args)
	if err != nil {
		return err
	}
	return a.Open(filename)
}

// Open replaces the sheet with the contents of filename.
func (a *App) Open(filename string) error {
	sheet, err := storage.Load(filename, a.cfg.DefaultWidth, a.cfg.DefaultHeight)
	if err != nil {
		return err
	}
	sheet.EnsureRow(a.cfg.InitialRows - 1)
	sheet.EnsureCol(a.cfg.InitialCols - 1)
	a.Sheet = sheet
	a.File = filename
	a.CurRow, a.CurCol, a.ViewRow, a.ViewCol = 0, 0, 0, 0
	a.status("opened %s", filename)
	a.log.Info("sheet opened", "file", filename, "cells", len(sheet.Cells))
	return nil
}

func (a *App) fileArg(args []string) (string, error) {
	if len(args) == 0 {
		if a.File == "" {
			return "", fmt.Errorf("%w: w|o FILE [csv|xlsx|grid]", ErrUsage)
		}
		return a.File, nil
	}
	filename := args[0]
	if len(args) > 1 {
		if ext := "." + strings.TrimPrefix(strings.ToLower(args[1]), "."); filepath.Ext(filename) != ext {
			filename += ext
		}
	}
	return filename, nil
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	return n, nil
}

func rangeArg(text string) (grid.Range, error) {
	return grid.ParseRange(strings.ToUpper(text))
}
