package hook

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hotkeys/internal/input/key"
)

// special describes a tcell key without a rune.
type special struct {
	code uint16
	char uint16
}

var specialKeys = map[tcell.Key]special{
	tcell.KeyEnter:      {key.CodeEnter, '\r'},
	tcell.KeyTab:        {key.CodeTab, '\t'},
	tcell.KeyBackspace:  {key.CodeBackspace, 0},
	tcell.KeyBackspace2: {key.CodeBackspace, 0},
	tcell.KeyEscape:     {key.CodeEscape, 0},
	tcell.KeyDelete:     {key.CodeDelete, 0},
	tcell.KeyInsert:     {key.CodeInsert, 0},
	tcell.KeyHome:       {key.CodeHome, 0},
	tcell.KeyEnd:        {key.CodeEnd, 0},
	tcell.KeyPgUp:       {key.CodePageUp, 0},
	tcell.KeyPgDn:       {key.CodePageDown, 0},
	tcell.KeyUp:         {key.CodeUp, 0},
	tcell.KeyDown:       {key.CodeDown, 0},
	tcell.KeyLeft:       {key.CodeLeft, 0},
	tcell.KeyRight:      {key.CodeRight, 0},
	tcell.KeyPrint:      {key.CodePrint, 0},
	tcell.KeyF1:         {key.CodeF1, 0},
	tcell.KeyF2:         {key.CodeF1 + 1, 0},
	tcell.KeyF3:         {key.CodeF1 + 2, 0},
	tcell.KeyF4:         {key.CodeF1 + 3, 0},
	tcell.KeyF5:         {key.CodeF1 + 4, 0},
	tcell.KeyF6:         {key.CodeF1 + 5, 0},
	tcell.KeyF7:         {key.CodeF1 + 6, 0},
	tcell.KeyF8:         {key.CodeF1 + 7, 0},
	tcell.KeyF9:         {key.CodeF1 + 8, 0},
	tcell.KeyF10:        {key.CodeF1 + 9, 0},
	tcell.KeyF11:        {key.CodeF1 + 10, 0},
	tcell.KeyF12:        {key.CodeF12, 0},
}

// ConvertKey translates a tcell key event into a down event followed by a
// press event. Keys the hotkey system cannot name yield nil.
func ConvertKey(e *tcell.EventKey) []key.Event {
	mods := e.Modifiers()
	base := key.Event{
		Alt:       mods&tcell.ModAlt != 0,
		Ctrl:      mods&tcell.ModCtrl != 0,
		Shift:     mods&tcell.ModShift != 0,
		Timestamp: e.When(),
	}

	var rawcode, keychar uint16
	k := e.Key()

	switch {
	case k == tcell.KeyRune:
		r := e.Rune()
		if r > 0xFFFF {
			return nil
		}
		keychar = uint16(r)
		rawcode = rawcodeForRune(r)
		// Terminals report capitals without the shift flag.
		if r >= 'A' && r <= 'Z' {
			base = base.WithModifier(key.ModShift)
		}

	case specialKeys[k].code != 0:
		s := specialKeys[k]
		rawcode, keychar = s.code, s.char

	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		rawcode = uint16('A' + (k - tcell.KeyCtrlA))
		base = base.WithModifier(key.ModCtrl)

	default:
		return nil
	}

	down := base
	down.Kind = key.KindDown
	down.Rawcode = rawcode

	press := base
	press.Kind = key.KindPress
	press.Rawcode = rawcode
	press.Keychar = keychar

	return []key.Event{down, press}
}

// rawcodeForRune returns the physical code of a letter, digit or space.
func rawcodeForRune(r rune) uint16 {
	if code, ok := key.LetterCode(r); ok {
		return code
	}
	switch {
	case r >= '0' && r <= '9':
		return uint16(r)
	case r == ' ':
		return key.CodeSpace
	default:
		return 0
	}
}

// TerminalSource reads key events from a terminal using tcell. It serves
// hosts where no native hook is available; only keys typed into the
// terminal are seen.
type TerminalSource struct {
	mu      sync.Mutex
	screen  tcell.Screen
	events  chan key.Event
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
	stopped bool
}

// NewTerminalSource creates a source on the process terminal.
func NewTerminalSource() (*TerminalSource, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	return NewTerminalSourceWithScreen(screen), nil
}

// NewTerminalSourceWithScreen creates a source on an existing screen.
func NewTerminalSourceWithScreen(screen tcell.Screen) *TerminalSource {
	return &TerminalSource{
		screen: screen,
		events: make(chan key.Event, 100),
		done:   make(chan struct{}),
	}
}

// Start initializes the screen and begins polling for key events.
func (t *TerminalSource) Start() (<-chan key.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil, ErrAlreadyStarted
	}
	if err := t.screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	t.started = true

	t.wg.Add(1)
	go t.pollLoop()

	return t.events, nil
}

// pollLoop forwards converted key events until the screen is finalized.
func (t *TerminalSource) pollLoop() {
	defer t.wg.Done()
	defer close(t.events)

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		e, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		for _, ke := range ConvertKey(e) {
			select {
			case t.events <- ke:
			case <-t.done:
				return
			}
		}
	}
}

// Stop restores the terminal and closes the event channel.
func (t *TerminalSource) Stop() error {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return ErrNotStarted
	}
	if t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.stopped = true
	close(t.done)
	t.mu.Unlock()

	t.screen.Fini()
	t.wg.Wait()
	return nil
}
