package terminal

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/command"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
	"github.com/cory-johannsen/turnbattle/internal/game/npc"
	"github.com/cory-johannsen/turnbattle/internal/history"
)

// RenderEvent formats a session event as one colored line.
func RenderEvent(ev battle.Event) string {
	switch ev.Kind {
	case battle.EventRoundStart:
		return Colorf(BrightYellow, "=== %s ===", ev.Narrative)
	case battle.EventRoundEnd:
		return Colorize(Dim, ev.Narrative)
	case battle.EventAction:
		return Colorize(BrightWhite, ev.Narrative)
	case battle.EventTurnLost:
		return Colorize(Magenta, ev.Narrative)
	case battle.EventFailure, battle.EventPersistenceFailed:
		return Colorize(Red, ev.Narrative)
	case battle.EventSaved, battle.EventLoaded:
		return Colorize(Green, ev.Narrative)
	case battle.EventUndo, battle.EventRedo:
		return Colorize(Cyan, ev.Narrative)
	case battle.EventTaunt:
		return Colorize(Yellow, ev.Narrative)
	case battle.EventScript:
		return Colorize(BrightMagenta, ev.Narrative)
	case battle.EventVictory:
		return Colorize(Bold+BrightGreen, ev.Narrative)
	case battle.EventDefeat:
		return Colorize(Bold+BrightRed, ev.Narrative)
	default:
		return ev.Narrative
	}
}

// RenderRoster formats both sides of a battle, one combatant per line.
// Enemy lines carry a health description instead of relying on numbers alone.
//
// Precondition: r is non-nil.
func RenderRoster(r *combat.Roster) string {
	var b strings.Builder
	side := func(title string, cs []*combat.Combatant, describe bool) {
		b.WriteString(Colorf(BrightWhite, "=== %s ===", title))
		b.WriteString("\n")
		for _, c := range cs {
			color := White
			if !c.IsAlive() {
				color = Dim
			}
			line := c.Status()
			if describe {
				line += " (" + npc.HealthDescription(c) + ")"
			}
			b.WriteString("  ")
			b.WriteString(Colorize(color, line))
			b.WriteString("\n")
		}
	}
	side("Heroes", r.Heroes(), false)
	side("Enemies", r.Enemies(), true)
	return b.String()
}

// RenderActionMenu formats the prompt of a hero's turn.
func RenderActionMenu(hero *combat.Combatant) string {
	return Colorf(BrightCyan, "What will %s do?", hero.Name) + "\n" +
		fmt.Sprintf("  %d) Attack  %d) Skill  %d) Item  %d) Save  %d) Load  %d) Undo  %d) Redo",
			battle.MenuAttack, battle.MenuSkill, battle.MenuItem, battle.MenuSave, battle.MenuLoad, battle.MenuUndo, battle.MenuRedo) +
		"\n"
}

// RenderSkills formats a numbered skill list with MP costs. With a roster the
// cost of SkillProvokeAll is the one that would be charged right now.
func RenderSkills(hero *combat.Combatant, skills []combat.Skill, r *combat.Roster) string {
	var b strings.Builder
	b.WriteString(Colorf(BrightCyan, "%s's skills (MP %d/%d):", hero.Name, hero.MP, hero.MaxMP))
	b.WriteString("\n")
	for i, s := range skills {
		cost := fmt.Sprintf("%d MP", s.Cost())
		if s == combat.SkillProvokeAll {
			if r != nil {
				cost = fmt.Sprintf("%d MP", r.ProvokeAllCost())
			} else {
				cost = fmt.Sprintf("%d MP per enemy", combat.ProvokeAllCostPerEnemy)
			}
		}
		fmt.Fprintf(&b, "  %d) %s (%s)\n", i+1, s, cost)
	}
	return b.String()
}

// RenderItems formats a numbered pouch listing.
func RenderItems(hero *combat.Combatant, stacks []inventory.Stack) string {
	var b strings.Builder
	b.WriteString(Colorf(BrightCyan, "%s's pouch:", hero.Name))
	b.WriteString("\n")
	for i, s := range stacks {
		fmt.Fprintf(&b, "  %d) %s x%d\n", i+1, s.Name, s.Count)
	}
	return b.String()
}

// RenderTargets formats a numbered target list under prompt.
func RenderTargets(prompt string, candidates []*combat.Combatant) string {
	var b strings.Builder
	b.WriteString(Colorize(BrightCyan, prompt))
	b.WriteString("\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "  %d) %s HP %d/%d\n", i+1, c.Name, c.HP, c.MaxHP)
	}
	return b.String()
}

// RenderHelp lists the commands of reg grouped by category. Commands that
// spend the hero's turn are flagged.
func RenderHelp(reg *command.Registry) string {
	var b strings.Builder
	cats := reg.CommandsByCategory()
	for _, cat := range []string{command.CategoryAction, command.CategoryTimeline, command.CategorySystem} {
		b.WriteString(Colorf(BrightWhite, "%s:", cat))
		b.WriteString("\n")
		for _, cmd := range cats[cat] {
			help := cmd.Help
			if command.IsTurnAction(cmd.Name) {
				help += " (uses turn)"
			}
			fmt.Fprintf(&b, "  %-8s %-16s %s\n", cmd.Name, strings.Join(cmd.Aliases, ", "), help)
		}
	}
	return b.String()
}

// RenderHistory formats past battles, newest first, followed by their summary.
func RenderHistory(records []history.Record) string {
	if len(records) == 0 {
		return Colorize(Dim, "No battles recorded.") + "\n"
	}
	var b strings.Builder
	for _, r := range records {
		color := Green
		if !r.Victory {
			color = Red
		}
		b.WriteString(Colorize(color, r.String()))
		b.WriteString("\n")
	}
	b.WriteString(Colorize(BrightWhite, history.Summarize(records).String()))
	b.WriteString("\n")
	return b.String()
}
