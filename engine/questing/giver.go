package questing

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/yohamta/donburi"

	"github.com/nathoo/beatquest/types"
)

// Giver states and events.
const (
	StateIdle    = "idle"
	StateOffered = "offered"

	eventOffer   = "offer"
	eventRelease = "release"
)

// GiverData is the quest giver component. GivenQuest is set exactly while
// the machine is in the offered state.
type GiverData struct {
	GivenQuest *types.QuestID
	Machine    *fsm.FSM
}

// Giver marks an entity as a quest giver.
var Giver = donburi.NewComponentType[GiverData]()

// NewGiverData returns an idle giver.
func NewGiverData() GiverData {
	return GiverData{
		Machine: fsm.NewFSM(StateIdle, fsm.Events{
			{Name: eventOffer, Src: []string{StateIdle}, Dst: StateOffered},
			{Name: eventRelease, Src: []string{StateOffered}, Dst: StateIdle},
		}, fsm.Callbacks{}),
	}
}

// Offered reports whether the giver has a quest out.
func (g *GiverData) Offered() bool {
	return g.GivenQuest != nil
}

func (g *GiverData) offer(id types.QuestID) {
	if err := g.Machine.Event(context.Background(), eventOffer); err != nil {
		panic(fmt.Sprintf("questing: giver offer: %v", err))
	}
	g.GivenQuest = &id
}

func (g *GiverData) release() {
	if err := g.Machine.Event(context.Background(), eventRelease); err != nil {
		panic(fmt.Sprintf("questing: giver release: %v", err))
	}
	g.GivenQuest = nil
}

// ProposalData is carried by a proposal menu entity.
type ProposalData struct {
	QuestID types.QuestID
}

// Proposal marks an entity as a quest proposal.
var Proposal = donburi.NewComponentType[ProposalData]()

// ProposalText is the prompt shown for a proposed quest.
func ProposalText(q *types.Quest) string {
	return fmt.Sprintf("%s\n%s\n[E] to accept or [Space] to decline", q.Name, q.Description)
}
