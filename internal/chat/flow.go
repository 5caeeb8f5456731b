package chat

import (
	"time"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
)

type Step string

const (
	StepInitial     Step = "initial"
	StepMainOptions Step = "main_options"
	StepSearchAgain Step = "search_again"
	StepFinished    Step = "finished"
)

// Session is the whole state of one visitor's conversation.
type Session struct {
	Step Step
	Open bool
	// Interacted is set by the first input and permanently disables the
	// idle auto-close.
	Interacted bool
	// AutoOpenDone is set once the auto-open timer has fired.
	AutoOpenDone bool
	// IdleGen identifies the idle timer currently armed. Expirations
	// carrying an older generation are stale.
	IdleGen   int
	IdleArmed bool
	// Snapshot is the listing catalogue fetched after the greeting.
	Snapshot []domain.Listing
	History  []Message
}

func NewSession() Session {
	return Session{Step: StepInitial}
}

// Event is an input to the engine.
type Event interface{ isEvent() }

type (
	PageLoaded      struct{}
	Open            struct{ At time.Time }
	Close           struct{}
	AutoOpenElapsed struct{ At time.Time }
	IdleElapsed     struct{ Gen int }
	SnapshotLoaded  struct{ Listings []domain.Listing }
	Input           struct{ Text string }
)

func (PageLoaded) isEvent()      {}
func (Open) isEvent()            {}
func (Close) isEvent()           {}
func (AutoOpenElapsed) isEvent() {}
func (IdleElapsed) isEvent()     {}
func (SnapshotLoaded) isEvent()  {}
func (Input) isEvent()           {}

// Effect is an instruction produced by the engine for the runner.
type Effect interface{ isEffect() }

type (
	SetWindow       struct{ Open bool }
	SetLauncher     struct{ Visible bool }
	SetInput        struct{ Enabled bool }
	CancelIdleTimer struct{}
	ArmAutoOpen     struct{ After time.Duration }
	Typing          struct{ On bool }
	Delay           struct{ D time.Duration }
	Say             struct{ Message Message }
	FetchSnapshot   struct{}
)

// ArmIdleTimer (re)starts the idle auto-close timer for generation Gen.
type ArmIdleTimer struct {
	Gen   int
	After time.Duration
}

func (SetWindow) isEffect()       {}
func (SetLauncher) isEffect()     {}
func (SetInput) isEffect()        {}
func (ArmIdleTimer) isEffect()    {}
func (CancelIdleTimer) isEffect() {}
func (ArmAutoOpen) isEffect()     {}
func (Typing) isEffect()          {}
func (Delay) isEffect()           {}
func (Say) isEffect()             {}
func (FetchSnapshot) isEffect()   {}

// sequenced reports whether e belongs to the paced output timeline rather
// than taking effect immediately.
func sequenced(e Effect) bool {
	switch e.(type) {
	case Typing, Delay, Say, FetchSnapshot:
		return true
	}
	return false
}
