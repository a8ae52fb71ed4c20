package main

import (
	"fmt"
	"io"

	"github.com/comalice/statestack"
)

// session is the data shared by every demo state.
type session struct {
	out    io.Writer
	tick   int
	score  int
	lives  int
	pauses int
}

func newSession(out io.Writer) *session {
	return &session{out: out, lives: 3}
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, "%5d  "+format+"\n", append([]any{s.tick}, args...)...)
}

// title shows for a few ticks, then switches to the arena.
type title struct {
	statestack.BaseState[session]
	shown int
}

func (*title) Name() string { return "title" }

func (t *title) OnStart(s *session) { s.printf("title: press start") }

func (t *title) Update(s *session) statestack.Transition[session] {
	s.tick++
	t.shown++
	if t.shown >= 3 {
		return statestack.Switch[session](&arena{})
	}
	return statestack.None[session]()
}

// arena scores one point per tick. Every 10 points it pauses, every 25 a
// life is lost, and at zero lives it switches to the game-over screen.
type arena struct {
	statestack.BaseState[session]
}

func (*arena) Name() string { return "arena" }

func (a *arena) OnStart(s *session)  { s.printf("arena: round start, lives=%d", s.lives) }
func (a *arena) OnPause(s *session)  { s.printf("arena: paused at score=%d", s.score) }
func (a *arena) OnResume(s *session) { s.printf("arena: resumed") }
func (a *arena) OnStop(s *session)   { s.printf("arena: closed at score=%d", s.score) }

func (a *arena) Update(s *session) statestack.Transition[session] {
	s.tick++
	s.score++

	if s.score%25 == 0 {
		s.lives--
		s.printf("arena: life lost, lives=%d", s.lives)
		if s.lives == 0 {
			return statestack.Switch[session](&gameOver{})
		}
	}
	if s.score%10 == 0 {
		return statestack.Push[session](&pause{})
	}
	return statestack.None[session]()
}

// pause is an overlay above the arena.
type pause struct {
	statestack.BaseState[session]
	left int
}

func (*pause) Name() string { return "pause" }

func (p *pause) OnStart(s *session) {
	s.pauses++
	p.left = 3
	s.printf("pause: overlay on")
}

func (p *pause) OnStop(s *session) { s.printf("pause: overlay off") }

func (p *pause) Update(s *session) statestack.Transition[session] {
	s.tick++
	p.left--
	if p.left <= 0 {
		return statestack.Pop[session]()
	}
	return statestack.None[session]()
}

// gameOver lingers briefly, then quits the whole stack.
type gameOver struct {
	statestack.BaseState[session]
	shown int
}

func (*gameOver) Name() string { return "game-over" }

func (g *gameOver) OnStart(s *session) {
	s.printf("game over: score=%d pauses=%d", s.score, s.pauses)
}

func (g *gameOver) Update(s *session) statestack.Transition[session] {
	s.tick++
	g.shown++
	if g.shown >= 5 {
		return statestack.Quit[session]()
	}
	return statestack.None[session]()
}
