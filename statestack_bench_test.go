package statestack

import "testing"

type benchData struct {
	n int
}

// flip pushes a child on even ticks and the child pops itself.
type flip struct {
	BaseState[benchData]
	child *child
}

type child struct {
	BaseState[benchData]
}

func (c *child) Update(*benchData) Transition[benchData] {
	return Pop[benchData]()
}

func (f *flip) Update(d *benchData) Transition[benchData] {
	d.n++
	return Push[benchData](f.child)
}

// BenchmarkUpdateNone measures a tick that requests no transition.
// Target: no allocations
func BenchmarkUpdateNone(b *testing.B) {
	var m Machine[benchData]
	var d benchData
	m.Push(&BaseState[benchData]{}, &d)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Update(&d)
	}
}

// BenchmarkPushPop measures a push followed by a pop of the same state.
func BenchmarkPushPop(b *testing.B) {
	var m Machine[benchData]
	var d benchData
	m.Push(&flip{child: &child{}}, &d)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Update(&d) // push
		m.Update(&d) // pop
	}
}

// BenchmarkSwitch measures replacing the top state.
func BenchmarkSwitch(b *testing.B) {
	var m Machine[benchData]
	var d benchData
	a, c := &child{}, &child{}
	m.Push(a, &d)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			m.Apply(Switch[benchData](c), &d)
		} else {
			m.Apply(Switch[benchData](a), &d)
		}
	}
}

// BenchmarkDeepStop measures draining a 64-state stack.
func BenchmarkDeepStop(b *testing.B) {
	var m Machine[benchData]
	var d benchData
	states := make([]State[benchData], 64)
	for i := range states {
		states[i] = &child{}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, s := range states {
			m.Push(s, &d)
		}
		m.Stop(&d)
	}
}

// TestRemovedSlotsAreCleared checks that the machine keeps no reference to
// removed states in its backing array.
func TestRemovedSlotsAreCleared(t *testing.T) {
	var m Machine[benchData]
	var d benchData

	m.Push(&child{}, &d)
	m.Push(&child{}, &d)
	m.Apply(Pop[benchData](), &d)

	backing := m.stack[:cap(m.stack)]
	for i := m.Depth(); i < len(backing); i++ {
		if backing[i] != nil {
			t.Errorf("slot %d still references a removed state", i)
		}
	}

	m.Stop(&d)
	backing = m.stack[:cap(m.stack)]
	for i, s := range backing {
		if s != nil {
			t.Errorf("slot %d still references a state after Stop", i)
		}
	}
}
