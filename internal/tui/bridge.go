package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/syncer"
)

type storeChangedMsg struct {
	change finance.Change
}

type syncEventMsg struct {
	event syncer.Event
}

// Bridge carries store changes and refresh events into the bubbletea loop.
// Sends never block; a full buffer already holds a pending redraw, and
// every view reads the store directly.
type Bridge struct {
	changes chan finance.Change
	events  chan syncer.Event
}

func NewBridge() *Bridge {
	return &Bridge{
		changes: make(chan finance.Change, 32),
		events:  make(chan syncer.Event, 32),
	}
}

// OnChange is registered with finance.Store.Subscribe.
func (b *Bridge) OnChange(c finance.Change) {
	select {
	case b.changes <- c:
	default:
	}
}

// OnSyncEvent is passed to syncer.NewStoreService.
func (b *Bridge) OnSyncEvent(evt syncer.Event) {
	select {
	case b.events <- evt:
	default:
	}
}

func (b *Bridge) wait() tea.Cmd {
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case c := <-b.changes:
			return storeChangedMsg{change: c}
		case evt := <-b.events:
			return syncEventMsg{event: evt}
		}
	}
}
