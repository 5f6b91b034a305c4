package app

import (
	"github.com/gdamore/tcell/v2"
)

func (a *App) HandleKeyEvent(s tcell.Screen, ev *tcell.EventKey) {
	if a.Mode == ModeInsert {
		a.handleInsertKey(ev)
		return
	}

	if a.HelpVisible {
		if ev.Key() == tcell.KeyEsc || ev.Rune() == '?' {
			a.HelpVisible = false
		}
		return
	}

	ctrl := ev.Modifiers()&tcell.ModCtrl != 0
	switch ev.Key() {
	case tcell.KeyEsc:
		a.StatusMsg = ""
	case tcell.KeyCtrlC:
		a.Quit = true
	case tcell.KeyUp:
		if ctrl {
			a.Sheet.ResizeRow(a.CurRow, -1)
		} else if a.CurRow > 0 {
			a.CurRow--
		}
	case tcell.KeyDown:
		if ctrl {
			a.Sheet.ResizeRow(a.CurRow, 1)
		} else {
			a.CurRow++
			a.Sheet.EnsureRow(a.CurRow)
		}
	case tcell.KeyLeft:
		if ctrl {
			a.Sheet.ResizeCol(a.CurCol, -1)
		} else if a.CurCol > 0 {
			a.CurCol--
		}
	case tcell.KeyRight:
		if ctrl {
			a.Sheet.ResizeCol(a.CurCol, 1)
		} else {
			a.CurCol++
			a.Sheet.EnsureCol(a.CurCol)
		}
	case tcell.KeyPgUp:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow = max(0, a.ViewRow-vr)
		a.CurRow = max(0, a.CurRow-vr)
	case tcell.KeyPgDn:
		vr, _ := a.ComputeVisible(s)
		a.CurRow += vr
		a.Sheet.EnsureRow(a.CurRow)
	case tcell.KeyHome:
		a.CurRow, a.CurCol = 0, 0
	case tcell.KeyEnd:
		rows, cols := a.Sheet.Used()
		a.CurRow, a.CurCol = max(0, rows-1), max(0, cols-1)
	case tcell.KeyF2:
		a.Sheet.InsertRow(a.CurRow + 1)
	case tcell.KeyF3:
		a.Sheet.InsertCol(a.CurCol + 1)
	case tcell.KeyF4:
		a.deleteRow()
	case tcell.KeyF5:
		a.deleteCol()
	case tcell.KeyEnter:
		if a.cfg.EnterStartsEdit {
			a.startEdit()
		}
	case tcell.KeyRune:
		a.handleRune(s, ev.Rune())
	}
}

func (a *App) handleRune(s tcell.Screen, r rune) {
	switch r {
	case 'q':
		a.Quit = true
	case 'i':
		a.startEdit()
	case ':':
		if command, ok := a.PopupInput(s, ":", ""); ok {
			a.ExecuteCommand(command)
		}
	case '=':
		if formula, ok := a.PopupInput(s, "", "="); ok {
			a.ApplyFormula(formula)
		}
	case 'b':
		a.Sheet.ToggleBold(a.CurRow, a.CurCol)
	case 'I':
		a.Sheet.ToggleItalic(a.CurRow, a.CurCol)
	case '?':
		a.HelpVisible = true
	default:
		if a.cfg.PrintableStartsEdit {
			a.Mode = ModeInsert
			a.InputBuf = string(r)
			a.ReplaceOnNextRune = false
		}
	}
}

func (a *App) handleInsertKey(ev *tcell.EventKey) {
	mod := ev.Modifiers()
	switch ev.Key() {
	case tcell.KeyEsc:
		a.stopEdit()
	case tcell.KeyEnter:
		// Shift+Enter or Alt+Enter inserts a newline into the cell
		if mod&tcell.ModShift != 0 || mod&tcell.ModAlt != 0 {
			a.InputBuf += "\n"
			return
		}
		text := a.InputBuf
		a.stopEdit()
		a.commit(text)
		if mod&tcell.ModCtrl == 0 && a.cfg.MoveAfterEnter {
			a.CurRow++
			a.Sheet.EnsureRow(a.CurRow)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if a.ReplaceOnNextRune {
			a.InputBuf = ""
		} else if runes := []rune(a.InputBuf); len(runes) > 0 {
			a.InputBuf = string(runes[:len(runes)-1])
		}
		a.ReplaceOnNextRune = false
	case tcell.KeyRune:
		if a.ReplaceOnNextRune {
			a.InputBuf = string(ev.Rune())
			a.ReplaceOnNextRune = false
		} else {
			a.InputBuf += string(ev.Rune())
		}
	}
}

func (a *App) startEdit() {
	a.Mode = ModeInsert
	a.InputBuf = a.Sheet.Text(a.CurRow, a.CurCol)
	a.ReplaceOnNextRune = a.cfg.SelectAllOnEdit
}

func (a *App) stopEdit() {
	a.Mode = ModeNormal
	a.InputBuf = ""
	a.ReplaceOnNextRune = false
}

func (a *App) deleteRow() {
	if a.Sheet.DeleteRow(a.CurRow) && a.CurRow >= a.Sheet.Rows() {
		a.CurRow = max(0, a.Sheet.Rows()-1)
	}
	a.Sheet.EnsureRow(a.CurRow)
}

func (a *App) deleteCol() {
	if a.Sheet.DeleteCol(a.CurCol) && a.CurCol >= a.Sheet.Cols() {
		a.CurCol = max(0, a.Sheet.Cols()-1)
	}
	a.Sheet.EnsureCol(a.CurCol)
}

// HandleMouseEvent moves the cursor on click. Pressing on one cell and
// releasing on another moves the text of the first into the second.
func (a *App) HandleMouseEvent(ev *tcell.EventMouse) {
	x, y := ev.Position()
	row, col, onCell := a.cellAt(x, y)

	if ev.Buttons()&tcell.Button1 != 0 {
		if !a.dragging && onCell {
			a.dragging = true
			a.dragRow, a.dragCol = row, col
			a.CurRow, a.CurCol = row, col
		}
		return
	}
	if !a.dragging {
		return
	}
	a.dragging = false
	if !onCell {
		return
	}
	if a.Sheet.Move(a.dragRow, a.dragCol, row, col) {
		a.status("moved %s to %s", refString(a.dragRow, a.dragCol), refString(row, col))
		a.log.Debug("cell moved", "from", refString(a.dragRow, a.dragCol), "to", refString(row, col))
	}
	a.CurRow, a.CurCol = row, col
}
