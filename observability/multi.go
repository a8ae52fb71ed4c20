package observability

import "context"

// MultiObserver fans events out to several observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver skips nil observers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

// LevelFilter forwards only events at or above Min.
type LevelFilter struct {
	Min  Level
	Next Observer
}

func (f LevelFilter) OnEvent(ctx context.Context, event Event) {
	if f.Next == nil || event.Level < f.Min {
		return
	}
	f.Next.OnEvent(ctx, event)
}
