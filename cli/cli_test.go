package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nathoo/beatquest/engine"
	"github.com/nathoo/beatquest/engine/parser"
	"github.com/nathoo/beatquest/types"
)

// testScenario puts a giver straight ahead within reach and a target off to
// the side.
func testScenario() types.Scenario {
	return types.Scenario{
		Title: "Test Scenario",
		Seed:  42,
		Tempo: types.TempoDef{BPM: 120},
		Givers: []types.GiverDef{
			{ID: "granny", Position: types.Vec3{Z: -2}},
		},
		Targets: []types.TargetDef{
			{ID: "imp", Name: "Imp", Position: types.Vec3{X: 20}, Health: 1},
		},
	}
}

func newTestCLI(t *testing.T, sc types.Scenario, script string) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := &CLI{
		Engine:   engine.New(sc),
		In:       strings.NewReader(script),
		Out:      &out,
		TickRate: 100,
	}
	return c, &out
}

func run(t *testing.T, c *CLI) {
	t.Helper()
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestCLI_TitleShown(t *testing.T) {
	c, out := newTestCLI(t, testScenario(), "/quit\n")
	run(t, c)
	if !strings.Contains(out.String(), "Test Scenario") {
		t.Error("expected title in output")
	}
	if !strings.Contains(out.String(), "[Goodbye.]") {
		t.Error("expected goodbye")
	}
}

func TestCLI_OfferAndDecline(t *testing.T) {
	c, out := newTestCLI(t, testScenario(), "interact\ndecline\nstatus\n")
	run(t, c)

	output := out.String()
	if !strings.Contains(output, "[E] to accept or [Space] to decline") {
		t.Errorf("expected proposal text, got:\n%s", output)
	}
	if !strings.Contains(output, "Quests: none") {
		t.Errorf("declined quest should be gone, got:\n%s", output)
	}
	if c.Engine.Registry.Len() != 0 {
		t.Errorf("registry has %d quests", c.Engine.Registry.Len())
	}
}

func TestCLI_AcceptListsQuest(t *testing.T) {
	c, out := newTestCLI(t, testScenario(), "e\ny\nstatus\n")
	run(t, c)
	if !strings.Contains(out.String(), "1. [ ] ") {
		t.Errorf("expected the accepted quest in status, got:\n%s", out.String())
	}
}

func TestCLI_AttackKillsTarget(t *testing.T) {
	sc := testScenario()
	sc.Targets[0].Position = types.Vec3{Z: -1.5}
	sc.Givers[0].Position = types.Vec3{X: 20}
	c, out := newTestCLI(t, sc, "# swing on the beat\nattack\nwait 1s\n")
	run(t, c)

	if !strings.Contains(out.String(), "Imp was destroyed.") {
		t.Errorf("expected kill output, got:\n%s", out.String())
	}
	if len(c.Engine.Targets) != 0 {
		t.Error("target should be gone")
	}
}

func TestCLI_StaffPing(t *testing.T) {
	c, out := newTestCLI(t, testScenario(), "staff\nnotes C4 E4 G4\n")
	run(t, c)
	if !strings.Contains(out.String(), "pong") {
		t.Errorf("expected pong, got:\n%s", out.String())
	}
}

func TestCLI_Trace(t *testing.T) {
	c, out := newTestCLI(t, testScenario(), "/trace\ninteract\n")
	run(t, c)
	output := out.String()
	if !strings.Contains(output, "[Trace output enabled.]") {
		t.Error("expected trace toggle message")
	}
	if !strings.Contains(output, "quest_offered") {
		t.Errorf("expected traced event, got:\n%s", output)
	}
}

func TestCLI_WalkMovesCamera(t *testing.T) {
	c, _ := newTestCLI(t, testScenario(), "walk forward 500ms\n")
	run(t, c)
	z := c.Engine.Camera.Position.Z
	// Default speed is 10 units per second.
	if z > -4.9 || z < -5.1 {
		t.Errorf("z = %v, want about -5", z)
	}
	if c.Engine.Input.Pressed("w") {
		t.Error("walk must release its key")
	}
}

func TestCLI_SprintIsFaster(t *testing.T) {
	c, _ := newTestCLI(t, testScenario(), "sprint f 500ms\n")
	run(t, c)
	if z := c.Engine.Camera.Position.Z; z > -9.9 {
		t.Errorf("z = %v, want about -10", z)
	}
}

func TestCLI_LookDegrees(t *testing.T) {
	c, _ := newTestCLI(t, testScenario(), "look 90 -30\n")
	run(t, c)
	cam := c.Engine.Camera
	if cam.Yaw < 1.57 || cam.Yaw > 1.571 {
		t.Errorf("yaw = %v", cam.Yaw)
	}
	if cam.Pitch > -0.52 || cam.Pitch < -0.53 {
		t.Errorf("pitch = %v", cam.Pitch)
	}
}

func TestCLI_Errors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"dance", "unknown command: dance"},
		{"select 3", "no quest 3"},
		{"select x", "needs a quest number"},
		{"wait forever", "bad duration"},
		{"wait 2h", "duration must be"},
		{"walk up", "walk which way"},
		{"note H2", "unknown note"},
		{"press", "press what"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			c, _ := newTestCLI(t, testScenario(), "")
			_, err := c.Exec(parser.Parse(tt.line))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, _ := newTestCLI(t, testScenario(), "wait 100ms\nagain\ng\n")
	run(t, c)
	if got := c.Engine.Elapsed; got != 300*time.Millisecond {
		t.Errorf("elapsed = %v, want 300ms", got)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, testScenario(), "again\n")
	run(t, c)
	if !strings.Contains(out.String(), "Nothing to repeat.") {
		t.Error("expected nothing-to-repeat message")
	}
}

func TestCLI_HelpAndUnknownMeta(t *testing.T) {
	c, out := newTestCLI(t, testScenario(), "/help\n/bogus\n")
	run(t, c)
	output := out.String()
	if !strings.Contains(output, "/quit") || !strings.Contains(output, "attack") {
		t.Error("help should list system and game commands")
	}
	if !strings.Contains(output, "Unknown command: /bogus") {
		t.Error("expected unknown meta-command message")
	}
}

func TestCLI_QuestsTogglesScreen(t *testing.T) {
	c, _ := newTestCLI(t, testScenario(), "quests\n")
	run(t, c)
	if !c.Engine.Questing.ScreenOpen() {
		t.Fatal("screen should be open")
	}
	if _, err := c.Exec(parser.Parse("quests")); err != nil {
		t.Fatal(err)
	}
	if c.Engine.Questing.ScreenOpen() {
		t.Error("screen should be closed")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", time.Second},
		{"250ms", 250 * time.Millisecond},
		{"1.5", 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in, time.Second)
		if err != nil || got != tt.want {
			t.Errorf("parseDuration(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
