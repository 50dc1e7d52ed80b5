// Package engine provides the Tick() orchestrator that wires together
// input, questing, menus, notes, combat and physics into a single frame.
//
// A tick runs a fixed list of phases. Each phase has an optional guard
// evaluated right before it runs, so a phase sees every change made by
// the phases before it in the same tick.
package engine

import (
	"log/slog"
	"math"
	"time"

	"github.com/yohamta/donburi"

	"github.com/nathoo/beatquest/engine/combat"
	"github.com/nathoo/beatquest/engine/fray"
	"github.com/nathoo/beatquest/engine/input"
	"github.com/nathoo/beatquest/engine/menu"
	"github.com/nathoo/beatquest/engine/nodes"
	"github.com/nathoo/beatquest/engine/notes"
	"github.com/nathoo/beatquest/engine/physics"
	"github.com/nathoo/beatquest/engine/player"
	"github.com/nathoo/beatquest/engine/quest"
	"github.com/nathoo/beatquest/engine/questing"
	"github.com/nathoo/beatquest/engine/world"
	"github.com/nathoo/beatquest/logging"
	"github.com/nathoo/beatquest/types"
)

// KillRange is how far the kill command reaches along the look ray.
const KillRange = 10.0

// Stage groups phases.
type Stage string

const (
	StageUpdate  Stage = "update"
	StageSubstep Stage = "substep"
)

// Phase is one step of a tick.
type Phase struct {
	Name  string
	Stage Stage
	Guard func(e *Engine) bool
	Run   func(e *Engine, dt time.Duration)
}

// Engine holds every system and the per-tick phase list.
type Engine struct {
	Scenario types.Scenario
	World    *world.World
	Tree     *nodes.Tree
	Input    *input.State
	Contexts Contexts
	Menus    *menu.Stack
	Space    *physics.Space
	Registry *quest.Registry
	Questing *questing.System
	Combat   *combat.System
	Notes    *notes.System
	Camera   *player.Camera
	Fray     fray.Metronome
	RNG      *RNG
	Pivot    donburi.Entity
	Head     donburi.Entity
	Targets  map[string]donburi.Entity
	Givers   map[string]donburi.Entity

	Elapsed time.Duration
	Ticks   uint64

	logger *slog.Logger
	phases []Phase
	result *types.Result
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	seed     int64
	contexts *Contexts
}

// WithLogger sets the logger shared by every system.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSeed overrides the scenario seed when non-zero.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithContexts replaces the default key bindings.
func WithContexts(c Contexts) Option {
	return func(o *options) { o.contexts = &c }
}

// New builds an engine from a scenario.
func New(sc types.Scenario, opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	sc = ApplyDefaults(sc)
	if o.seed != 0 {
		sc.Seed = o.seed
	}
	ctxs := DefaultContexts()
	if o.contexts != nil {
		ctxs = *o.contexts
	}
	logger := logging.OrDiscard(o.logger)

	w := world.New()
	tree := nodes.NewTree(w)
	in := input.NewState()
	e := &Engine{
		Scenario: sc,
		World:    w,
		Tree:     tree,
		Input:    in,
		Contexts: ctxs,
		Menus:    menu.NewStack(w, tree, in, ctxs.Player),
		Space:    physics.NewSpace(w),
		Registry: quest.NewRegistry(),
		Camera:   player.New(sc.Player),
		Fray:     fray.New(sc.Tempo.BPM, sc.Tempo.Lead, sc.Tempo.Multiplier),
		RNG:      NewRNG(sc.Seed),
		Targets:  map[string]donburi.Entity{},
		Givers:   map[string]donburi.Entity{},
		logger:   logger,
	}
	e.Questing = questing.New(questing.Deps{
		World:           w,
		Tree:            tree,
		Menus:           e.Menus,
		Input:           in,
		Player:          ctxs.Player,
		Registry:        e.Registry,
		Rng:             e.RNG,
		Caster:          e.Space,
		Camera:          e.Camera,
		Logger:          logger,
		ScreenContext:   ctxs.Screen,
		ProposalContext: ctxs.proposalFactory(),
	})
	e.Combat = combat.New(w, e.Fray, logger)
	e.Notes = notes.New(in, ctxs.Global, ctxs.Movement, patterns(sc.Commands), logger)
	e.Notes.Handle(notes.CommandPing, e.ping)
	e.Notes.Handle(notes.CommandKill, e.kill)

	e.Pivot, e.Head = e.Combat.SpawnHammer(sc.Hammer, e.Camera.Position)
	for _, g := range sc.Givers {
		e.Givers[g.ID] = e.Questing.SpawnGiver(g.ID, g.Position, g.Radius)
	}
	for _, t := range sc.Targets {
		e.Targets[t.ID] = e.Combat.SpawnTarget(t)
	}
	e.phases = defaultPhases()
	return e
}

func patterns(defs []types.CommandDef) []notes.Pattern {
	out := make([]notes.Pattern, 0, len(defs))
	for _, d := range defs {
		p := notes.Pattern{Command: d.Name}
		for _, n := range d.Notes {
			p.Notes = append(p.Notes, notes.Note(n))
		}
		out = append(out, p)
	}
	return out
}

// Phases returns the phase names in run order.
func (e *Engine) Phases() []string {
	names := make([]string, len(e.phases))
	for i, p := range e.phases {
		names[i] = p.Name
	}
	return names
}

// Tick advances the game by dt and returns what happened.
func (e *Engine) Tick(dt time.Duration) types.Result {
	var result types.Result
	e.result = &result
	defer func() { e.result = nil }()

	for _, p := range e.phases {
		if p.Guard != nil && !p.Guard(e) {
			continue
		}
		p.Run(e, dt)
	}

	e.Input.Advance()
	e.Elapsed += dt
	e.Ticks++
	return result
}

// Run ticks repeatedly until d has elapsed, merging the results.
func (e *Engine) Run(d, step time.Duration) types.Result {
	var out types.Result
	for d > 0 {
		r := e.Tick(min(step, d))
		out.Events = append(out.Events, r.Events...)
		out.Output = append(out.Output, r.Output...)
		d -= step
	}
	return out
}

func (e *Engine) emit(typ string, data map[string]any) {
	if e.result != nil {
		e.result.Events = append(e.result.Events, types.Event{Type: typ, Data: data})
	}
}

func (e *Engine) say(s string) {
	if e.result != nil {
		e.result.Output = append(e.result.Output, s)
	}
}

func defaultPhases() []Phase {
	return []Phase{
		// 1. Staff toggle and note input run first so note keys are
		// consumed before any gameplay binding can see them.
		{Name: "staff", Stage: StageUpdate, Run: (*Engine).phaseStaff},
		{Name: "notes", Stage: StageUpdate, Guard: staffOpen, Run: (*Engine).phaseNotes},
		{Name: "commands", Stage: StageUpdate, Guard: commandsPending, Run: (*Engine).phaseCommands},

		// 2. Movement and camera.
		{Name: "move", Stage: StageUpdate, Guard: canMove, Run: (*Engine).phaseMove},

		// 3. Quest flow: interact, decline, screen sync, then menus. The
		// screen syncs after declines so progress never renders a removed quest.
		{Name: "interact", Stage: StageUpdate, Guard: playerEnabled, Run: (*Engine).phaseInteract},
		{Name: "decline", Stage: StageUpdate, Run: (*Engine).phaseDecline},
		{Name: "close_accept", Stage: StageUpdate, Run: (*Engine).phaseCloseAccept},
		{Name: "close_decline", Stage: StageUpdate, Run: (*Engine).phaseCloseDecline},
		{Name: "screen_sync", Stage: StageUpdate, Run: (*Engine).phaseScreenSync},
		{Name: "close_menu", Stage: StageUpdate, Run: (*Engine).phaseCloseMenu},
		{Name: "show_quest_screen", Stage: StageUpdate, Guard: playerEnabled, Run: (*Engine).phaseShowQuestScreen},
		{Name: "select", Stage: StageUpdate, Run: (*Engine).phaseSelect},
		{Name: "progress", Stage: StageUpdate, Run: (*Engine).phaseProgress},

		// 4. Combat.
		{Name: "attack", Stage: StageUpdate, Guard: playerEnabled, Run: (*Engine).phaseAttack},
		{Name: "animate", Stage: StageSubstep, Run: (*Engine).phaseAnimate},
		{Name: "physics_step", Stage: StageSubstep, Run: (*Engine).phasePhysics},
		{Name: "collide", Stage: StageSubstep, Guard: collisionsPending, Run: (*Engine).phaseCollide},
		{Name: "damage", Stage: StageSubstep, Guard: damagePending, Run: (*Engine).phaseDamage},
		{Name: "kill_progress", Stage: StageSubstep, Guard: killsPending, Run: (*Engine).phaseKillProgress},
	}
}

func staffOpen(e *Engine) bool         { return e.Notes.Open }
func commandsPending(e *Engine) bool   { return e.Notes.Sent.Pending() }
func canMove(e *Engine) bool           { return e.Contexts.Movement.Enabled && e.Menus.Len() == 0 }
func playerEnabled(e *Engine) bool     { return e.Contexts.Player.Enabled }
func collisionsPending(e *Engine) bool { return e.Space.Collisions.Pending() }
func damagePending(e *Engine) bool     { return e.Combat.Damage.Pending() }
func killsPending(e *Engine) bool      { return e.Combat.Kills.Pending() }

func (e *Engine) phaseStaff(time.Duration) {
	if e.Notes.Toggle() {
		e.emit("staff_toggled", map[string]any{"open": e.Notes.Open})
	}
}

func (e *Engine) phaseNotes(time.Duration) {
	for _, n := range e.Notes.ReadKeys() {
		e.emit("note_played", map[string]any{"note": string(n)})
	}
}

func (e *Engine) phaseCommands(time.Duration) {
	for _, c := range e.Notes.Sent.Peek() {
		e.emit("command_sent", map[string]any{"command": c.Command})
	}
	e.Notes.Dispatch()
}

func (e *Engine) phaseMove(dt time.Duration) {
	mv := e.Contexts.Movement
	var a player.Axes
	if e.Input.ActionPressed(mv, types.ActionMoveForward) {
		a.Forward++
	}
	if e.Input.ActionPressed(mv, types.ActionMoveBack) {
		a.Forward--
	}
	if e.Input.ActionPressed(mv, types.ActionMoveRight) {
		a.Right++
	}
	if e.Input.ActionPressed(mv, types.ActionMoveLeft) {
		a.Right--
	}
	if a != (player.Axes{}) {
		e.Camera.Move(a, e.Input.ActionPressed(mv, types.ActionSprint), dt)
	}

	var dx, dy float64
	if e.Input.ActionJustPressed(mv, types.ActionLookLeft) {
		dx -= LookStep
	}
	if e.Input.ActionJustPressed(mv, types.ActionLookRight) {
		dx += LookStep
	}
	if e.Input.ActionJustPressed(mv, types.ActionLookUp) {
		dy -= LookStep
	}
	if e.Input.ActionJustPressed(mv, types.ActionLookDown) {
		dy += LookStep
	}
	if dx != 0 || dy != 0 {
		e.Camera.Rotate(dx, dy)
	}
}

func (e *Engine) phaseInteract(time.Duration) {
	if id, ok := e.Questing.Interact(); ok {
		q := e.Registry.MustGet(id)
		e.emit("quest_offered", map[string]any{"quest": id.String(), "name": q.Name, "kind": q.Type.Kind.String()})
		e.say(questing.ProposalText(q))
	}
}

func (e *Engine) phaseScreenSync(time.Duration) {
	e.Questing.SyncScreen()
}

func (e *Engine) phaseDecline(time.Duration) {
	for _, id := range e.Questing.ResolveDeclines() {
		e.emit("quest_declined", map[string]any{"quest": id.String()})
	}
}

func (e *Engine) phaseCloseAccept(time.Duration) {
	accepted := e.Questing.PendingAccepts()
	e.Menus.CloseOn(types.ActionAccept)
	for _, id := range accepted {
		e.emit("quest_accepted", map[string]any{"quest": id.String()})
	}
}

func (e *Engine) phaseCloseDecline(time.Duration) {
	e.Menus.CloseOn(types.ActionDecline)
}

func (e *Engine) phaseCloseMenu(time.Duration) {
	for _, m := range e.Menus.CloseOn(types.ActionCloseMenu) {
		if m == e.Questing.Screen.Root {
			e.emit("quest_screen", map[string]any{"open": false})
		}
	}
}

func (e *Engine) phaseShowQuestScreen(time.Duration) {
	if e.Menus.ShowOn(types.ActionOpenQuestScreen, e.Questing.Screen.Root) {
		e.emit("quest_screen", map[string]any{"open": true})
	}
}

func (e *Engine) phaseSelect(time.Duration) {
	e.Questing.ApplySelections()
}

func (e *Engine) phaseProgress(time.Duration) {
	e.Questing.RefreshProgress()
}

func (e *Engine) phaseAttack(time.Duration) {
	if !e.Input.ConsumeAction(e.Contexts.Player, types.ActionAttack) {
		return
	}
	if e.Combat.Attack() > 0 {
		e.emit("swing_started", nil)
	}
}

func (e *Engine) phaseAnimate(dt time.Duration) {
	e.Combat.FollowCamera(e.Camera)
	armed := e.Combat.Armed(e.Head)
	e.Combat.Animate(dt)
	if now := e.Combat.Armed(e.Head); now != armed {
		e.emit("hammer_armed", map[string]any{"armed": now})
	}
}

func (e *Engine) phasePhysics(time.Duration) {
	e.Space.Step()
}

func (e *Engine) phaseCollide(time.Duration) {
	e.Combat.Collide(e.Space.Collisions.Drain())
}

func (e *Engine) phaseDamage(time.Duration) {
	for _, ev := range e.Combat.Damage.Peek() {
		e.emit("damage", map[string]any{"victim": e.World.NameOf(ev.Victim), "damage": ev.Damage})
	}
	e.Combat.DealDamage()
}

func (e *Engine) phaseKillProgress(time.Duration) {
	kills := e.Combat.Kills.Drain()
	for _, k := range kills {
		e.emit("kill", map[string]any{"victim": k.Name})
		e.say(k.Name + " was destroyed.")
		for id, t := range e.Targets {
			if t == k.Victim {
				delete(e.Targets, id)
			}
		}
	}
	for _, q := range e.Questing.CompleteKills(len(kills)) {
		e.emit("quest_completed", map[string]any{"quest": q.ID.String(), "name": q.Name})
		e.say(q.Name + " complete!")
	}
}

func (e *Engine) ping(notes.CommandSent) {
	e.logger.Info("pong")
	e.say("pong")
}

func (e *Engine) kill(notes.CommandSent) {
	victim, ok := e.Space.CastRay(e.Camera.Ray(), KillRange, func(ent donburi.Entity) bool {
		return e.World.Has(ent, world.Health)
	})
	if !ok {
		e.say("Nothing to kill.")
		return
	}
	hp := world.Health.Get(e.World.Entry(victim)).Value
	e.Combat.Damage.Send(types.DamageEvent{Victim: victim, Damage: float32(math.Max(float64(hp), 0)) + 1})
}

// SelectNth queues selection of the n-th quest on the screen, 1-based.
func (e *Engine) SelectNth(n int) bool {
	ids := e.Questing.Screen.Ordered()
	if n < 1 || n > len(ids) {
		return false
	}
	e.Questing.QueueSelect(ids[n-1])
	return true
}
