package syncer

import (
	"time"
)

// Settings are the user-tunable parts of Config.
type Settings struct {
	StaleTTL     time.Duration
	PollInterval time.Duration
}

// NewStoreService wires the three store syncers into an engine. recorder
// may be nil.
func NewStoreService(store Store, recorder Recorder, settings Settings, onEvent func(Event)) (*Service, error) {
	engine, err := New(
		Config{
			StaleTTL:     settings.StaleTTL,
			PollInterval: settings.PollInterval,
		},
		[]Syncer{
			NewCurrentMonthSyncer(store, recorder),
			NewPageSyncer(store, recorder),
			NewCategoriesSyncer(store, recorder),
		},
		onEvent,
	)
	if err != nil {
		return nil, err
	}
	return NewService(engine), nil
}
