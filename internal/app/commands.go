package app

import (
	"context"
	"fmt"
	"log/slog"

	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/system"
	"tower-siege/pkg/gridmap"
)

// CommandKind names a player action.
type CommandKind string

const (
	CmdPlace        CommandKind = "place"
	CmdUpgrade      CommandKind = "upgrade"
	CmdSell         CommandKind = "sell"
	CmdStartWave    CommandKind = "start_wave"
	CmdPause        CommandKind = "pause"
	CmdResume       CommandKind = "resume"
	CmdSpeed        CommandKind = "speed"
	CmdMeteor       CommandKind = "meteor"
	CmdBlizzard     CommandKind = "blizzard"
	CmdUpgradeSkill CommandKind = "upgrade_skill"
	CmdRestore      CommandKind = "restore_checkpoint"
	CmdReset        CommandKind = "reset"
)

// Command is a serialisable player action.
type Command struct {
	Kind     CommandKind       `json:"kind"`
	Defender defs.DefenderType `json:"defender,omitempty"`
	Cell     gridmap.Cell      `json:"cell"`
	ID       int               `json:"id,omitempty"`
	Skill    defs.SkillID      `json:"skill,omitempty"`
	Speed    float64           `json:"speed,omitempty"`
}

// Execute applies a command. It returns the resulting snapshot and the
// rejection reason, if any; on rejection the snapshot is the unchanged one.
func (g *Game) Execute(c Command) (*entity.GameState, error) {
	switch c.Kind {
	case CmdPlace:
		return g.applyErr(string(c.Kind), func(st *entity.GameState, ctx *system.TickContext) error {
			_, err := g.Factory.PlaceDefender(st, ctx, c.Defender, c.Cell)
			return err
		})
	case CmdUpgrade:
		return g.applyErr(string(c.Kind), func(st *entity.GameState, ctx *system.TickContext) error {
			return g.Progression.UpgradeDefender(st, ctx, c.ID)
		})
	case CmdSell:
		return g.applyErr(string(c.Kind), func(st *entity.GameState, ctx *system.TickContext) error {
			return g.Progression.SellDefender(st, ctx, c.ID)
		})
	case CmdStartWave:
		return g.applyErr(string(c.Kind), g.StateSystem.StartWave)
	case CmdPause:
		return g.applyErr(string(c.Kind), func(st *entity.GameState, _ *system.TickContext) error {
			return g.StateSystem.Pause(st)
		})
	case CmdResume:
		return g.applyErr(string(c.Kind), func(st *entity.GameState, _ *system.TickContext) error {
			return g.StateSystem.Resume(st)
		})
	case CmdSpeed:
		return g.applyErr(string(c.Kind), func(st *entity.GameState, _ *system.TickContext) error {
			if c.Speed == 0 {
				g.StateSystem.NextSpeed(st)
				return nil
			}
			return g.StateSystem.SetSpeed(st, c.Speed)
		})
	case CmdMeteor:
		return g.applyErr(string(c.Kind), g.SkillSystem.TriggerMeteor)
	case CmdBlizzard:
		return g.applyErr(string(c.Kind), g.SkillSystem.TriggerBlizzard)
	case CmdUpgradeSkill:
		return g.applyErr(string(c.Kind), func(st *entity.GameState, _ *system.TickContext) error {
			return g.SkillSystem.UpgradeSkill(st, c.Skill)
		})
	case CmdRestore:
		return g.applyErr(string(c.Kind), g.Progression.RestoreCheckpoint)
	case CmdReset:
		return g.Reset(), nil
	}
	return g.Snapshot(), fmt.Errorf("unknown command %q", c.Kind)
}

// StartWave moves Idle to Playing.
func (g *Game) StartWave() (*entity.GameState, bool) {
	return g.apply("start_wave", g.StateSystem.StartWave)
}

func (g *Game) Pause() (*entity.GameState, bool) {
	st, err := g.Execute(Command{Kind: CmdPause})
	return st, err == nil
}

func (g *Game) Resume() (*entity.GameState, bool) {
	st, err := g.Execute(Command{Kind: CmdResume})
	return st, err == nil
}

// SetSpeed selects a game speed multiplier; 0 cycles to the next one.
func (g *Game) SetSpeed(multiplier float64) (*entity.GameState, bool) {
	st, err := g.Execute(Command{Kind: CmdSpeed, Speed: multiplier})
	return st, err == nil
}

func (g *Game) TriggerMeteor() (*entity.GameState, bool) {
	return g.apply("meteor", g.SkillSystem.TriggerMeteor)
}

func (g *Game) TriggerBlizzard() (*entity.GameState, bool) {
	return g.apply("blizzard", g.SkillSystem.TriggerBlizzard)
}

func (g *Game) UpgradeSkill(id defs.SkillID) (*entity.GameState, bool) {
	st, err := g.Execute(Command{Kind: CmdUpgradeSkill, Skill: id})
	return st, err == nil
}

// RestoreCheckpoint reverts to the last checkpoint.
func (g *Game) RestoreCheckpoint() (*entity.GameState, bool) {
	return g.apply("restore_checkpoint", g.Progression.RestoreCheckpoint)
}

// Reset discards the map save and starts the map over. Global progress is
// kept.
func (g *Game) Reset() *entity.GameState {
	g.mu.Lock()
	st := g.NewState()
	g.state = st
	g.saved = keyOf(st)
	g.mu.Unlock()
	if g.storage != nil {
		if err := g.storage.ClearGame(context.Background(), g.Map.ID); err != nil {
			slog.Error("failed to clear game", "map", g.Map.ID, "error", err)
		}
	}
	return st
}
