// Package input turns key events from a HID remote or the terminal into
// scoreboard commands. It runs as a producer goroutine so the scoring
// loop never blocks on device I/O.
package input

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rsiwady29/tennis-scoreboard/internal/domain"
)

// Bindings maps key tokens to commands. Tokens are the evdev-style key
// names emitted by the device bridge, plus the single-letter forms typed
// on a terminal.
type Bindings map[string]domain.Command

// Default reflects the button layout of the stock Bluetooth remote.
func Default() Bindings {
	return Bindings{
		"KEY_UP":    {Type: domain.CmdPointWon, Side: domain.Home},
		"KEY_DOWN":  {Type: domain.CmdPointWon, Side: domain.Away},
		"KEY_LEFT":  {Type: domain.CmdSwapServer},
		"KEY_RIGHT": {Type: domain.CmdResetMatch},
		"KEY_S":     {Type: domain.CmdSwapServer},
		"KEY_R":     {Type: domain.CmdResetMatch},
		"KEY_N":     {Type: domain.CmdNewMatch},
		"KEY_L":     {Type: domain.CmdLoadLatest},

		"UP":   {Type: domain.CmdPointWon, Side: domain.Home},
		"DOWN": {Type: domain.CmdPointWon, Side: domain.Away},
		"H":    {Type: domain.CmdPointWon, Side: domain.Home},
		"A":    {Type: domain.CmdPointWon, Side: domain.Away},
		"S":    {Type: domain.CmdSwapServer},
		"R":    {Type: domain.CmdResetMatch},
		"N":    {Type: domain.CmdNewMatch},
		"L":    {Type: domain.CmdLoadLatest},
	}
}

// Translate resolves a key token to its command.
func (b Bindings) Translate(key string) (domain.Command, bool) {
	cmd, ok := b[strings.ToUpper(strings.TrimSpace(key))]
	return cmd, ok
}

// Dispatcher is the consuming side of the ordered event queue.
type Dispatcher interface {
	Dispatch(domain.Command)
}

type Listener struct {
	bindings Bindings
	dst      Dispatcher
	log      *logrus.Entry
}

func NewListener(l *logrus.Logger, dst Dispatcher, bindings Bindings) *Listener {
	return &Listener{
		bindings: bindings,
		dst:      dst,
		log: l.WithFields(map[string]interface{}{
			"from": "input",
		}),
	}
}

// Listen reads key tokens line by line until EOF or cancellation.
// Unknown keys are logged and dropped; they never reach the engine.
func (l *Listener) Listen(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		key := strings.TrimSpace(scanner.Text())
		if key == "" {
			continue
		}
		cmd, ok := l.bindings.Translate(key)
		if !ok {
			l.log.WithField("key", key).Debug("unbound key")
			continue
		}
		l.dst.Dispatch(cmd)
	}
	return scanner.Err()
}
