package app

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const maxPopupInput = 4096

// PopupInput shows a modal one-line prompt over the sheet. It returns the
// entered text and true on Enter, or "" and false on Esc.
func (a *App) PopupInput(s tcell.Screen, prompt, initial string) (string, bool) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorReset)
	buf := []rune(initial)
	pos := len(buf)

	draw := func() {
		a.Draw(s)
		w, h := s.Size()
		promptW := runewidth.StringWidth(prompt)
		boxW := min(max(20, promptW+len(buf)+2)+4, w)
		boxH := 3
		left := (w - boxW) / 2
		top := (h - boxH) / 2
		drawBox(s, left, top, boxW, boxH, style)

		x, y := left+2, top+1
		printTextFixedWidth(s, x, y, prompt, style, promptW)
		x += promptW + 1

		field := max(1, boxW-4-promptW-1)
		start := max(0, pos-field+1)
		end := min(len(buf), start+field)
		printTextFixedWidth(s, x, y, string(buf[start:end]), style, field)
		s.ShowCursor(x+runewidth.StringWidth(string(buf[start:pos])), y)
		s.Show()
	}

	draw()
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return "", false
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEsc:
				s.HideCursor()
				return "", false
			case tcell.KeyEnter:
				s.HideCursor()
				return string(buf), true
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if pos > 0 {
					buf = append(buf[:pos-1], buf[pos:]...)
					pos--
				}
			case tcell.KeyDelete:
				if pos < len(buf) {
					buf = append(buf[:pos], buf[pos+1:]...)
				}
			case tcell.KeyLeft:
				pos = max(0, pos-1)
			case tcell.KeyRight:
				pos = min(len(buf), pos+1)
			case tcell.KeyHome:
				pos = 0
			case tcell.KeyEnd:
				pos = len(buf)
			case tcell.KeyRune:
				if len(buf) < maxPopupInput {
					buf = append(buf[:pos], append([]rune{ev.Rune()}, buf[pos:]...)...)
					pos++
				}
			}
		case *tcell.EventResize:
			s.Sync()
		}
		draw()
	}
}
