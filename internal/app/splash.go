package app

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

const splashDelay = 120 * time.Millisecond

var splashTitle = []struct {
	char  rune
	color tcell.Color
}{
	{'G', tcell.ColorWhite},
	{'R', tcell.ColorWhite},
	{'I', tcell.ColorWhite},
	{'D', tcell.ColorWhite},
	{'=', tcell.ColorYellow},
	{'S', tcell.ColorYellow},
	{'U', tcell.ColorYellow},
	{'M', tcell.ColorYellow},
}

// Splash reveals the title letter by letter and waits for any key.
func Splash(s tcell.Screen) {
	width, height := s.Size()
	startX := (width - len(splashTitle)) / 2
	y := height / 2
	hint := "Press any key to start"

	for reveal := 1; reveal <= len(splashTitle); reveal++ {
		s.Clear()
		for i, l := range splashTitle[:reveal] {
			s.SetContent(startX+i, y, l.char, nil, tcell.StyleDefault.Foreground(l.color).Bold(true))
		}
		printTextFixedWidth(s, (width-len(hint))/2, y+2, hint, headerStyle, len(hint))
		s.Show()
		time.Sleep(splashDelay)
	}

	for {
		switch s.PollEvent().(type) {
		case nil, *tcell.EventKey, *tcell.EventInterrupt:
			return
		case *tcell.EventResize:
			s.Sync()
		}
	}
}
