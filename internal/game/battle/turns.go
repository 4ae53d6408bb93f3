package battle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// errRetry sends the hero back to the action menu without consuming the turn.
var errRetry = errors.New("battle: choose again")

// blocked consumes one blocking-status tick of actor.
//
// Postcondition: returns true iff the turn is lost.
func (s *Session) blocked(actor *combat.Combatant) bool {
	status, lost := actor.ConsumeBlockedTurn()
	if !lost {
		return false
	}
	s.emit(Event{Kind: EventTurnLost, Actor: actor.Name, Narrative: fmt.Sprintf("%s is %s and loses the turn.", actor.Name, status)})
	return true
}

// heroTurn prompts until the hero takes an action that consumes the turn.
// Save, load, undo, redo and rejected choices prompt again.
func (s *Session) heroTurn(ctx context.Context, ref combat.Ref) error {
	if s.blocked(s.roster.At(ref)) {
		return nil
	}
	for s.state == StateInProgress {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Load and undo can replace or revive the hero in this slot.
		hero := s.roster.At(ref)
		if !hero.IsAlive() {
			return nil
		}
		code, err := s.deps.Input.ChooseAction(hero)
		if errors.Is(err, ErrBack) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading action for %s: %w", hero.Name, err)
		}
		done, err := s.menu(ctx, ref, hero, code)
		switch {
		case errors.Is(err, errRetry), errors.Is(err, ErrBack):
			continue
		case err != nil:
			return err
		case done:
			return nil
		}
	}
	return nil
}

// menu dispatches one action menu code.
//
// Postcondition: done is true iff the hero's turn was consumed.
func (s *Session) menu(ctx context.Context, ref combat.Ref, hero *combat.Combatant, code int) (done bool, err error) {
	switch code {
	case MenuAttack:
		target, err := s.pickTarget(hero, "Attack whom?", s.roster.Living(combat.SideEnemies))
		if err != nil {
			return false, err
		}
		return s.act(ctx, ref, "", func() (combat.Outcome, error) { return s.resolver.Attack(hero, target) })
	case MenuSkill:
		return s.skillMenu(ctx, ref, hero)
	case MenuItem:
		return s.itemMenu(ctx, ref, hero)
	case MenuSave:
		path, err := s.choosePath("Save to")
		if err != nil {
			return false, err
		}
		s.Save(path)
		return false, nil
	case MenuLoad:
		path, err := s.choosePath("Load from")
		if err != nil {
			return false, err
		}
		s.Load(ctx, path)
		return false, nil
	case MenuUndo:
		s.Undo(ctx)
		return false, nil
	case MenuRedo:
		s.Redo(ctx)
		return false, nil
	default:
		s.fail(hero, fmt.Sprintf("%d is not an option.", code))
		return false, nil
	}
}

// act applies a hero action. A resolver rejection is reported and the hero
// chooses again.
func (s *Session) act(ctx context.Context, ref combat.Ref, item string, fn func() (combat.Outcome, error)) (bool, error) {
	if err := s.apply(ctx, ref, item, fn); err != nil {
		s.fail(s.roster.At(ref), failureMessage(err))
		return false, errRetry
	}
	return true, nil
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, combat.ErrInsufficientMP):
		return "Not enough MP."
	case errors.Is(err, combat.ErrNotCapable):
		return "That ability is not available."
	case errors.Is(err, combat.ErrItemUnavailable):
		return "That item is not available."
	case errors.Is(err, combat.ErrTargetAlive):
		return "That target is still standing."
	case errors.Is(err, combat.ErrInvalidTarget):
		return "Invalid target."
	default:
		return err.Error()
	}
}

func (s *Session) skillMenu(ctx context.Context, ref combat.Ref, hero *combat.Combatant) (bool, error) {
	skills := combat.SkillsFor(hero.Class)
	if len(skills) == 0 {
		s.fail(hero, fmt.Sprintf("%s has no skills.", hero.Name))
		return false, errRetry
	}
	var skill combat.Skill
	for {
		i, err := s.deps.Input.ChooseSkill(hero, skills)
		if err != nil {
			return false, s.inputErr(hero, err)
		}
		if i >= 0 && i < len(skills) {
			skill = skills[i]
			break
		}
		s.fail(hero, "Invalid skill.")
	}

	var target *combat.Combatant
	switch skill.Target() {
	case combat.TargetLivingAlly:
		candidates := s.roster.Living(combat.SideHeroes)
		if skill == combat.SkillDefend {
			candidates = without(candidates, hero)
		}
		t, err := s.pickTarget(hero, skill.String()+" whom?", candidates)
		if err != nil {
			return false, err
		}
		target = t
	case combat.TargetFallenAlly:
		t, err := s.pickTarget(hero, skill.String()+" whom?", s.roster.Fallen(combat.SideHeroes))
		if err != nil {
			return false, err
		}
		target = t
	case combat.TargetLivingEnemy:
		t, err := s.pickTarget(hero, skill.String()+" whom?", s.roster.Living(combat.SideEnemies))
		if err != nil {
			return false, err
		}
		target = t
	case combat.TargetLivingAny:
		candidates := append(s.roster.Living(combat.SideHeroes), s.roster.Living(combat.SideEnemies)...)
		t, err := s.pickTarget(hero, skill.String()+" whom?", candidates)
		if err != nil {
			return false, err
		}
		target = t
	}
	return s.act(ctx, ref, "", func() (combat.Outcome, error) { return s.resolver.UseSkill(hero, skill, target) })
}

func (s *Session) itemMenu(ctx context.Context, ref combat.Ref, hero *combat.Combatant) (bool, error) {
	stacks := hero.Pouch.Stacks()
	if len(stacks) == 0 {
		s.fail(hero, fmt.Sprintf("%s has no items.", hero.Name))
		return false, errRetry
	}
	var item string
	for {
		i, err := s.deps.Input.ChooseItem(hero, stacks)
		if err != nil {
			return false, s.inputErr(hero, err)
		}
		if i >= 0 && i < len(stacks) {
			item = stacks[i].Name
			break
		}
		s.fail(hero, "Invalid item.")
	}

	var target *combat.Combatant
	if def, ok := s.deps.Catalog.Item(item); ok && def.NeedsEnemyTarget() {
		t, err := s.pickTarget(hero, fmt.Sprintf("Use %s on whom?", item), s.roster.Living(combat.SideEnemies))
		if err != nil {
			return false, err
		}
		target = t
	}
	return s.act(ctx, ref, item, func() (combat.Outcome, error) { return s.resolver.UseItem(hero, item, target) })
}

// pickTarget asks until a valid candidate index is given.
func (s *Session) pickTarget(hero *combat.Combatant, prompt string, candidates []*combat.Combatant) (*combat.Combatant, error) {
	if len(candidates) == 0 {
		s.fail(hero, "No valid targets.")
		return nil, errRetry
	}
	for {
		i, err := s.deps.Input.ChooseTarget(prompt, candidates)
		if err != nil {
			return nil, s.inputErr(hero, err)
		}
		if i >= 0 && i < len(candidates) {
			return candidates[i], nil
		}
		s.fail(hero, "Invalid target.")
	}
}

func (s *Session) choosePath(prompt string) (string, error) {
	path, err := s.deps.Input.ChoosePath(prompt)
	if err != nil {
		if errors.Is(err, ErrBack) {
			return "", errRetry
		}
		return "", fmt.Errorf("reading snapshot path: %w", err)
	}
	if path == "" {
		path = s.deps.SavePath
	}
	return path, nil
}

func (s *Session) inputErr(hero *combat.Combatant, err error) error {
	if errors.Is(err, ErrBack) {
		return errRetry
	}
	return fmt.Errorf("reading choice for %s: %w", hero.Name, err)
}

func without(cs []*combat.Combatant, skip *combat.Combatant) []*combat.Combatant {
	out := make([]*combat.Combatant, 0, len(cs))
	for _, c := range cs {
		if c != skip {
			out = append(out, c)
		}
	}
	return out
}

// enemyTurn lets the tactician decide and applies the decision. The
// decision and the boss countdown fall inside the recorded action so undo
// restores both.
func (s *Session) enemyTurn(ctx context.Context, ref combat.Ref) {
	actor := s.roster.At(ref)
	if s.blocked(actor) {
		return
	}
	err := s.apply(ctx, ref, "", func() (combat.Outcome, error) {
		d, err := s.tactician.Decide(actor)
		if err != nil {
			return combat.Outcome{}, err
		}
		target := s.roster.At(d.Target)
		var out combat.Outcome
		if d.Kind == combat.ActionSpecial {
			out, err = s.resolver.Special(actor, target)
		} else {
			out, err = s.resolver.Attack(actor, target)
		}
		if err != nil {
			return combat.Outcome{}, err
		}
		if actor.Boss != nil {
			actor.Boss.EndTurn()
		}
		return out, nil
	})
	if err != nil {
		s.logger.Warn("enemy turn skipped", zap.String("enemy", actor.Name), zap.Error(err))
		return
	}
	if s.state == StateInProgress && s.deps.Bestiary != nil && actor.IsAlive() {
		if line, ok := s.deps.Bestiary.Taunt(actor, s.deps.Roller); ok {
			s.emit(Event{Kind: EventTaunt, Actor: actor.Name, Narrative: fmt.Sprintf("%s: %q", actor.Name, line)})
		}
	}
}
