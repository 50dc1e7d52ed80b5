// Package types defines the shared data structures for the beatquest core.
// This package contains only type definitions and trivial accessors.
package types

import (
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
)

// QuestID identifies a quest for its whole lifetime. IDs are never reused.
type QuestID uuid.UUID

// NewQuestID returns a fresh random (v4) quest ID.
func NewQuestID() QuestID {
	return QuestID(uuid.New())
}

func (id QuestID) String() string {
	return uuid.UUID(id).String()
}

// QuestKind discriminates the quest variants.
type QuestKind int

const (
	QuestFetch QuestKind = iota
	QuestKill
)

func (k QuestKind) String() string {
	switch k {
	case QuestFetch:
		return "fetch"
	case QuestKill:
		return "kill"
	default:
		return "unknown"
	}
}

// QuestType is the variant plus its parameters. Count is only meaningful
// for QuestKill (number of kills required).
type QuestType struct {
	Kind  QuestKind
	Count int
}

// MaxProgress is the progress value at which the quest is complete.
func (t QuestType) MaxProgress() int {
	if t.Kind == QuestKill {
		return t.Count
	}
	return 1
}

// ProgressRange is the valid [min, max] interval for progress.
func (t QuestType) ProgressRange() (float64, float64) {
	return 0, float64(t.MaxProgress())
}

// Quest is a single quest record, owned by the quest registry.
type Quest struct {
	ID          QuestID
	Type        QuestType
	Name        string
	Description string
	Completed   bool
	Progress    int
}

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X, Y, Z float64
}

// Ray is a half-line used for look queries.
type Ray struct {
	Origin    Vec3
	Direction Vec3 // normalized
}

// Action is a logical input action, resolved from keys by an input context.
type Action string

const (
	ActionInteract        Action = "interact"
	ActionOpenQuestScreen Action = "open_quest_screen"
	ActionCloseMenu       Action = "close_menu"
	ActionAccept          Action = "accept"
	ActionDecline         Action = "decline"
	ActionAttack          Action = "attack"
	ActionToggleStaff     Action = "toggle_staff"
	ActionMoveForward     Action = "move_forward"
	ActionMoveBack        Action = "move_back"
	ActionMoveLeft        Action = "move_left"
	ActionMoveRight       Action = "move_right"
	ActionSprint          Action = "sprint"
	ActionLookLeft        Action = "look_left"
	ActionLookRight       Action = "look_right"
	ActionLookUp          Action = "look_up"
	ActionLookDown        Action = "look_down"
)

// CollisionEvent is produced by the physics step when two colliders start
// or stop touching.
type CollisionEvent struct {
	A, B    donburi.Entity
	Started bool
}

// DamageEvent is consumed once to subtract Damage from the victim's health.
type DamageEvent struct {
	Victim donburi.Entity
	Damage float32
}

// KillEvent is emitted when a damageable entity is destroyed by damage.
type KillEvent struct {
	Victim donburi.Entity
	Name   string
}

// Intent is a parsed script command.
type Intent struct {
	Verb   string
	Object string
	Target string
}

// Event is a notable state change recorded during a tick, for traces and
// front ends.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single engine tick.
type Result struct {
	Events []Event
	Output []string
}

// Scenario is the compiled content a game session starts from.
type Scenario struct {
	Title    string
	Seed     int64
	Tempo    TempoDef
	Player   PlayerDef
	Hammer   HammerDef
	Givers   []GiverDef
	Targets  []TargetDef
	Commands []CommandDef
}

// TempoDef configures beat mapping and damage scaling.
type TempoDef struct {
	BPM        float64
	Lead       float64 // beats of windup before the strike lands on beat 0
	Multiplier float64
}

// PlayerDef places the player camera and sets its movement tuning.
type PlayerDef struct {
	Position    Vec3
	Yaw         float64
	Pitch       float64
	Speed       float64
	Sprint      float64
	Sensitivity float64
}

// HammerDef configures the player's weapon.
type HammerDef struct {
	Damage float64
	Reach  float64
	Radius float64
}

// GiverDef places a quest giver.
type GiverDef struct {
	ID       string
	Position Vec3
	Radius   float64
}

// TargetDef places a damageable entity.
type TargetDef struct {
	ID       string
	Name     string
	Position Vec3
	Radius   float64
	Health   float64
}

// CommandDef binds a note pattern to a named command.
type CommandDef struct {
	Name  string
	Notes []string
}
