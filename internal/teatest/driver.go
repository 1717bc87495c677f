// Package teatest runs a bubbletea model without a tea.Program. Messages go
// straight to Update and the commands it returns are executed inline until
// the model settles, so a test can press a key and assert on the next frame.
package teatest

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxSteps bounds how many commands one settle may execute.
const maxSteps = 100

// cmdWait is how long a command may block before it is dropped. Service
// loads return at once; cursor blink timers wait about half a second.
const cmdWait = 10 * time.Millisecond

var namedKeys = map[string]tea.KeyType{
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"left":   tea.KeyLeft,
	"right":  tea.KeyRight,
	"pgup":   tea.KeyPgUp,
	"pgdown": tea.KeyPgDown,
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"ctrl+c": tea.KeyCtrlC,
}

// Driver feeds messages to a model and tracks what its commands produced.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a command yields tea.QuitMsg. The runtime
	// normally swallows that message, so the model never sees it.
	Quitting bool

	delivered map[reflect.Type]int
}

type Option func(*Driver)

// WithSize applies a window size before the first frame. Any command the
// model returns for it is dropped; Start loads the first frame.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, delivered: map[reflect.Type]int{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start runs the model's Init command and settles.
func (d *Driver) Start() {
	d.T.Helper()
	d.settle(d.Model.Init())
}

// Send delivers msg to the model and settles. It is a no-op after quit.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.settle(cmd)
}

// Press sends one key per argument. Names such as "down", "pgdown" or
// "esc" map to special keys; anything else is sent as typed runes.
func (d *Driver) Press(keys ...string) {
	d.T.Helper()
	for _, k := range keys {
		if typ, ok := namedKeys[k]; ok {
			d.Send(tea.KeyMsg{Type: typ})
			continue
		}
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

// Type sends s one rune at a time, as a user typing into an input.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Resize changes the terminal size and settles whatever the model asks for
// in response.
func (d *Driver) Resize(w, h int) {
	d.T.Helper()
	d.Send(tea.WindowSizeMsg{Width: w, Height: h})
}

func (d *Driver) View() string {
	return d.Model.View()
}

// Delivered counts how many messages of sample's type commands have fed
// back into the model so far.
func (d *Driver) Delivered(sample tea.Msg) int {
	return d.delivered[reflect.TypeOf(sample)]
}

func (d *Driver) settle(first tea.Cmd) {
	d.T.Helper()
	queue := []tea.Cmd{first}
	for steps := 0; len(queue) > 0; steps++ {
		if steps == maxSteps {
			d.T.Logf("teatest: model did not settle after %d commands", maxSteps)
			return
		}
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}

		switch msg := run(cmd).(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			d.Quitting = true
			return
		default:
			if isBlink(msg) {
				continue
			}
			d.delivered[reflect.TypeOf(msg)]++
			var next tea.Cmd
			d.Model, next = d.Model.Update(msg)
			queue = append(queue, next)
		}
	}
}

// run executes cmd, giving up after cmdWait.
func run(cmd tea.Cmd) tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg
	case <-time.After(cmdWait):
		return nil
	}
}

// isBlink matches the bubbles cursor blink messages, whose types are
// unexported and would chain into more timer commands.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(reflect.TypeOf(msg).Name()), "blink")
}
