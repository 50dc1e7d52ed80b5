// Package cli drives the engine from line-oriented scripts: each line is a
// verb that presses keys or lets time pass, and the engine ticks at a fixed
// rate in between.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nathoo/beatquest/engine"
	"github.com/nathoo/beatquest/engine/input"
	"github.com/nathoo/beatquest/engine/notes"
	"github.com/nathoo/beatquest/engine/parser"
	"github.com/nathoo/beatquest/types"
)

// DefaultTickRate is used when TickRate is zero.
const DefaultTickRate = 60

// MaxWait bounds a single wait, walk or sprint.
const MaxWait = time.Minute

// CLI plays a script against an engine.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	TickRate  int
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine:   eng,
		In:       os.Stdin,
		Out:      os.Stdout,
		TickRate: DefaultTickRate,
	}
}

// Step is the duration of one tick.
func (c *CLI) Step() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return time.Second / time.Duration(rate)
}

// Run reads lines until EOF or /quit.
func (c *CLI) Run() error {
	if t := c.Engine.Scenario.Title; t != "" {
		c.printLine(t)
		c.printLine("")
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(line, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(line)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(line, "/") {
			if c.handleMeta(line) {
				return nil // /quit
			}
			continue
		}

		// "again" / "g" repeats the last command.
		lower := strings.ToLower(line)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			line = c.lastCmd
		} else {
			c.lastCmd = line
		}

		result, err := c.Exec(parser.Parse(line))
		if err != nil {
			c.printSystem(err.Error())
			continue
		}
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return nil
}

// Exec carries out one intent and returns everything the engine reported
// while doing it.
func (c *CLI) Exec(in types.Intent) (types.Result, error) {
	e := c.Engine
	ctxs := e.Contexts
	switch in.Verb {
	case "interact":
		return c.tapAction(ctxs.Player, types.ActionInteract)
	case "accept":
		return c.tapAction(ctxs.Proposal, types.ActionAccept)
	case "decline":
		return c.tapAction(ctxs.Proposal, types.ActionDecline)
	case "quests":
		if e.Questing.ScreenOpen() {
			return c.tapAction(ctxs.Screen, types.ActionCloseMenu)
		}
		return c.tapAction(ctxs.Player, types.ActionOpenQuestScreen)
	case "attack":
		return c.tapAction(ctxs.Player, types.ActionAttack)
	case "staff":
		return c.tapAction(ctxs.Global, types.ActionToggleStaff)
	case "note":
		return c.playNotes(in.Object)
	case "notes":
		return c.playNotes(in.Object)
	case "press":
		if in.Object == "" {
			return types.Result{}, fmt.Errorf("press what?")
		}
		e.Input.Tap(input.Key(in.Object))
		return c.tick(), nil
	case "wait":
		d, err := parseDuration(in.Object, time.Second)
		if err != nil {
			return types.Result{}, err
		}
		return e.Run(d, c.Step()), nil
	case "walk", "sprint":
		return c.walk(in.Verb == "sprint", in.Object, in.Target)
	case "look":
		return c.look(in.Object, in.Target)
	case "select":
		n, err := strconv.Atoi(in.Object)
		if err != nil {
			return types.Result{}, fmt.Errorf("select needs a quest number, got %q", in.Object)
		}
		if !e.SelectNth(n) {
			return types.Result{}, fmt.Errorf("no quest %d on the screen", n)
		}
		return c.tick(), nil
	case "status":
		return types.Result{Output: c.status()}, nil
	case "help":
		return types.Result{Output: helpLines}, nil
	default:
		return types.Result{}, fmt.Errorf("unknown command: %s. Type /help for available commands", in.Verb)
	}
}

func (c *CLI) tick() types.Result {
	return c.Engine.Tick(c.Step())
}

// tapAction taps the first key bound to a and ticks once.
func (c *CLI) tapAction(ctx *input.Context, a types.Action) (types.Result, error) {
	keys := ctx.Keys(a)
	if len(keys) == 0 {
		return types.Result{}, fmt.Errorf("no key bound to %s", a)
	}
	c.Engine.Input.Tap(keys[0])
	return c.tick(), nil
}

// playNotes taps each note key on its own tick.
func (c *CLI) playNotes(list string) (types.Result, error) {
	fields := strings.Fields(list)
	if len(fields) == 0 {
		return types.Result{}, fmt.Errorf("play which note?")
	}
	var out types.Result
	for _, f := range fields {
		n := notes.Note(strings.ToUpper(f))
		if !notes.Valid(n) {
			return out, fmt.Errorf("unknown note %q", f)
		}
		keys := c.Engine.Notes.Notes.Keys(notes.Action(n))
		c.Engine.Input.Tap(keys[0])
		merge(&out, c.tick())
	}
	return out, nil
}

var walkActions = map[string]types.Action{
	"forward": types.ActionMoveForward,
	"back":    types.ActionMoveBack,
	"left":    types.ActionMoveLeft,
	"right":   types.ActionMoveRight,
}

// walk holds a movement key for a duration.
func (c *CLI) walk(sprint bool, dir, dur string) (types.Result, error) {
	a, ok := walkActions[dir]
	if !ok {
		return types.Result{}, fmt.Errorf("walk which way? forward, back, left or right")
	}
	d, err := parseDuration(dur, time.Second)
	if err != nil {
		return types.Result{}, err
	}
	mv := c.Engine.Contexts.Movement
	held := holdKeys(mv, a, sprint)
	if len(held) == 0 {
		return types.Result{}, fmt.Errorf("no key bound to %s", a)
	}
	in := c.Engine.Input
	for _, k := range held {
		in.Press(k)
	}
	out := c.Engine.Run(d, c.Step())
	for _, k := range held {
		in.Release(k)
	}
	return out, nil
}

// holdKeys picks the keys to hold for a move. A sprint prefers a single key
// bound to both the move and sprint.
func holdKeys(mv *input.Context, a types.Action, sprint bool) []input.Key {
	moveKeys := mv.Keys(a)
	if len(moveKeys) == 0 {
		return nil
	}
	if !sprint {
		return moveKeys[:1]
	}
	sprintKeys := mv.Keys(types.ActionSprint)
	for _, k := range moveKeys {
		for _, s := range sprintKeys {
			if k == s {
				return []input.Key{k}
			}
		}
	}
	if len(sprintKeys) == 0 {
		return moveKeys[:1]
	}
	return []input.Key{moveKeys[0], sprintKeys[0]}
}

var lookActions = map[string]types.Action{
	"left":  types.ActionLookLeft,
	"right": types.ActionLookRight,
	"up":    types.ActionLookUp,
	"down":  types.ActionLookDown,
}

// look either taps a look key or sets yaw and pitch in degrees.
func (c *CLI) look(a, b string) (types.Result, error) {
	if act, ok := lookActions[strings.ToLower(a)]; ok {
		return c.tapAction(c.Engine.Contexts.Movement, act)
	}
	yaw, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return types.Result{}, fmt.Errorf("look needs a direction or yaw and pitch in degrees")
	}
	var pitch float64
	if b != "" {
		if pitch, err = strconv.ParseFloat(b, 64); err != nil {
			return types.Result{}, fmt.Errorf("bad pitch %q", b)
		}
	}
	c.Engine.Camera.Face(yaw*math.Pi/180, pitch*math.Pi/180)
	return c.tick(), nil
}

func (c *CLI) status() []string {
	e := c.Engine
	cam := e.Camera
	lines := []string{
		fmt.Sprintf("Time: %s (tick %d)", e.Elapsed.Round(time.Millisecond), e.Ticks),
		fmt.Sprintf("Position: %.2f %.2f %.2f  Facing: %.0f° %.0f°",
			cam.Position.X, cam.Position.Y, cam.Position.Z,
			cam.Yaw*180/math.Pi, cam.Pitch*180/math.Pi),
	}
	if phase, ok := e.Combat.Swinging(e.Pivot); ok {
		lines = append(lines, fmt.Sprintf("Hammer: %s (armed: %t)", phase, e.Combat.Armed(e.Head)))
	} else {
		lines = append(lines, "Hammer: ready")
	}
	if e.Notes.Open {
		lines = append(lines, "Staff: "+noteList(e.Notes.Holder))
	}
	if n := e.Menus.Len(); n > 0 {
		lines = append(lines, fmt.Sprintf("Menus open: %d", n))
	}

	ids := e.Questing.Screen.Ordered()
	if len(ids) == 0 {
		lines = append(lines, "Quests: none")
	}
	for i, id := range ids {
		q, ok := e.Registry.Get(id)
		if !ok {
			continue
		}
		mark := " "
		if q.Completed {
			mark = "x"
		}
		lines = append(lines, fmt.Sprintf("%d. [%s] %s %d/%d", i+1, mark, q.Name, q.Progress, q.Type.MaxProgress()))
	}

	alive := make([]string, 0, len(e.Targets))
	for id := range e.Targets {
		alive = append(alive, id)
	}
	sort.Strings(alive)
	if len(alive) > 0 {
		lines = append(lines, "Targets: "+strings.Join(alive, ", "))
	}
	return lines
}

func noteList(ns []notes.Note) string {
	if len(ns) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = string(n)
	}
	return strings.Join(parts, " ")
}

// parseDuration accepts Go durations ("1.5s", "250ms") or bare seconds.
func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		secs, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, fmt.Errorf("bad duration %q", s)
		}
		d = time.Duration(secs * float64(time.Second))
	}
	if d <= 0 || d > MaxWait {
		return 0, fmt.Errorf("duration must be in (0, %s], got %s", MaxWait, d)
	}
	return d, nil
}

func merge(dst *types.Result, r types.Result) {
	dst.Events = append(dst.Events, r.Events...)
	dst.Output = append(dst.Output, r.Output...)
}

// handleMeta dispatches meta-commands. Returns true if the session should exit.
func (c *CLI) handleMeta(line string) bool {
	cmd := strings.Fields(line)[0]
	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		for _, l := range c.status() {
			c.printSystem(l)
		}

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

var helpLines = []string{
	"Commands:",
	"  interact (e)           Talk to the quest giver you are looking at",
	"  accept (y) / decline (n)",
	"  quests (j)             Open or close the quest screen",
	"  select <n>             Show the details of quest n",
	"  attack (swing)         Swing the hammer",
	"  staff (`)              Open or close the staff",
	"  note <note>            Play a note, e.g. note C4",
	"  notes <n1> <n2> ...    Play several notes, one per tick",
	"  walk <dir> [dur]       Walk forward, back, left or right",
	"  sprint <dir> [dur]     Same, faster",
	"  look <dir>             Turn left, right, up or down",
	"  look <yaw> [pitch]     Face a direction, in degrees",
	"  wait [dur] (z)         Let time pass, e.g. wait 500ms",
	"  press <key>            Tap a raw key",
	"  status                 Show the game state",
	"  again (g)              Repeat your last command",
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit   Exit",
		"  /help   Show this help",
		"  /state  Show the game state",
		"  /trace  Toggle event trace output",
		"",
	}
	for _, line := range append(help, helpLines...) {
		c.printLine(line)
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) == 0 {
		return
	}
	c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
	for _, e := range result.Events {
		if len(e.Data) == 0 {
			c.printSystem(fmt.Sprintf("[trace]   %s", e.Type))
			continue
		}
		c.printSystem(fmt.Sprintf("[trace]   %s %s", e.Type, formatData(e.Data)))
	}
}

func formatData(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, data[k])
	}
	return strings.Join(parts, " ")
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
