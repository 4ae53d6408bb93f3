package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/game/condition"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
)

// Resolver failures. Each leaves every combatant untouched.
var (
	ErrNotCapable      = errors.New("combat: actor cannot use this ability")
	ErrInsufficientMP  = errors.New("combat: not enough MP")
	ErrInvalidTarget   = errors.New("combat: invalid target")
	ErrItemUnavailable = errors.New("combat: item not available")
	ErrTargetAlive     = errors.New("combat: target is still alive")
)

// Fixed magnitudes of the class skills.
const (
	HealAmount      = 30
	ReviveHP        = 50
	RestoreMPAmount = 25
	FireboltDamage  = 40
	EmpowerAmount   = 60
	ParalyzeTurns   = 1
	SpecialFactor   = 3

	DefaultFortifyAmount = 10
)

// Resolver applies actions to the combatants of one Roster.
// It is not safe for concurrent use.
type Resolver struct {
	roster        *Roster
	catalog       *inventory.Catalog
	logger        *zap.Logger
	fortifyAmount int
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithFortifyAmount sets the defense gained by SkillFortify.
//
// Precondition: n >= 1.
func WithFortifyAmount(n int) ResolverOption {
	return func(r *Resolver) { r.fortifyAmount = n }
}

// NewResolver creates a Resolver over roster using catalog for item effects.
//
// Precondition: roster, catalog and logger must be non-nil.
func NewResolver(roster *Roster, catalog *inventory.Catalog, logger *zap.Logger, opts ...ResolverOption) *Resolver {
	if roster == nil || catalog == nil || logger == nil {
		panic("combat: NewResolver precondition violated: nil dependency")
	}
	r := &Resolver{roster: roster, catalog: catalog, logger: logger, fortifyAmount: DefaultFortifyAmount}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Roster returns the roster the resolver mutates.
func (r *Resolver) Roster() *Roster { return r.roster }

// Catalog returns the item catalog.
func (r *Resolver) Catalog() *inventory.Catalog { return r.catalog }

func mustAct(actor *Combatant) {
	if actor == nil || !actor.IsAlive() {
		panic("combat: resolver precondition violated: actor must be a living combatant")
	}
}

func sideOf(c *Combatant) Side {
	if c.IsHero() {
		return SideHeroes
	}
	return SideEnemies
}

// requireSkill checks capability, then MP.
func requireSkill(actor *Combatant, s Skill, cost int) error {
	if !actor.Can(s) {
		return fmt.Errorf("%s cannot use %s: %w", actor.Name, s, ErrNotCapable)
	}
	if actor.MP < cost {
		return fmt.Errorf("%s needs %d MP for %s, has %d: %w", actor.Name, cost, s, actor.MP, ErrInsufficientMP)
	}
	return nil
}

func (r *Resolver) requireLivingOpponent(actor, target *Combatant) error {
	if target == nil || sideOf(target) == sideOf(actor) || !target.IsAlive() {
		return fmt.Errorf("%s cannot target that combatant: %w", actor.Name, ErrInvalidTarget)
	}
	return nil
}

func (r *Resolver) requireLivingAlly(actor, target *Combatant) error {
	if target == nil || sideOf(target) != sideOf(actor) || !target.IsAlive() {
		return fmt.Errorf("%s cannot target that combatant: %w", actor.Name, ErrInvalidTarget)
	}
	return nil
}

// strike routes damage through ReceiveDamage and releases relations on death.
func (r *Resolver) strike(target *Combatant, incoming int, out *Outcome) int {
	ref := r.roster.RefOf(target)
	dmg := target.ReceiveDamage(incoming, r.roster.Resolve(target.DefendedBy))
	r.afterHit(target, ref, out)
	return dmg
}

// pierce removes HP with no defense and no floor.
func (r *Resolver) pierce(target *Combatant, amount int, out *Outcome) {
	ref := r.roster.RefOf(target)
	target.LoseHP(amount)
	r.afterHit(target, ref, out)
}

func (r *Resolver) afterHit(target *Combatant, ref Ref, out *Outcome) {
	if !target.IsAlive() {
		r.roster.ReleaseRelations(ref)
		out.Defeated = append(out.Defeated, ref)
	}
}

func (r *Resolver) log(actor *Combatant, out Outcome) {
	targets := make([]string, len(out.Targets))
	for i, t := range out.Targets {
		targets[i] = t.String()
	}
	r.logger.Debug("action resolved",
		zap.String("actor", actor.Name),
		zap.String("kind", out.Kind.String()),
		zap.Strings("targets", targets),
		zap.Int("damage", out.Damage),
		zap.String("item", out.Item),
		zap.Int("defeated", len(out.Defeated)),
	)
}

func defeatSuffix(target *Combatant) string {
	if target.IsAlive() {
		return ""
	}
	return fmt.Sprintf(" %s falls!", target.Name)
}

// Attack performs a basic attack. Heroes and enemies share the formula
// max(1, attack - (defense + living protector defense)).
//
// Precondition: actor is alive.
// Postcondition: on success target.HP decreased by Outcome.Damage (>= 1).
func (r *Resolver) Attack(actor, target *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := r.requireLivingOpponent(actor, target); err != nil {
		return Outcome{}, err
	}
	out := Outcome{Kind: ActionAttack, Targets: []Ref{r.roster.RefOf(target)}}
	out.Damage = r.strike(target, actor.Attack, &out)
	out.Narrative = fmt.Sprintf("%s attacks %s for %d damage.%s", actor.Name, target.Name, out.Damage, defeatSuffix(target))
	r.log(actor, out)
	return out, nil
}

// Defend makes actor the protector of ally, replacing any previous protector.
//
// Precondition: actor is alive.
// Postcondition: on success ally.DefendedBy refers to actor.
func (r *Resolver) Defend(actor, ally *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := requireSkill(actor, SkillDefend, SkillDefend.Cost()); err != nil {
		return Outcome{}, err
	}
	if err := r.requireLivingAlly(actor, ally); err != nil {
		return Outcome{}, err
	}
	if ally == actor {
		return Outcome{}, fmt.Errorf("%s cannot defend itself: %w", actor.Name, ErrInvalidTarget)
	}
	actor.MP -= SkillDefend.Cost()
	self := r.roster.RefOf(actor)
	ally.DefendedBy = &self
	out := Outcome{
		Kind:      ActionDefend,
		Targets:   []Ref{r.roster.RefOf(ally)},
		Narrative: fmt.Sprintf("%s stands guard over %s.", actor.Name, ally.Name),
	}
	r.log(actor, out)
	return out, nil
}

// Provoke forces enemy to target actor, replacing any previous provoker.
//
// Precondition: actor is alive.
// Postcondition: on success enemy.ProvokedBy refers to actor.
func (r *Resolver) Provoke(actor, enemy *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := requireSkill(actor, SkillProvoke, SkillProvoke.Cost()); err != nil {
		return Outcome{}, err
	}
	if err := r.requireLivingOpponent(actor, enemy); err != nil {
		return Outcome{}, err
	}
	actor.MP -= SkillProvoke.Cost()
	self := r.roster.RefOf(actor)
	enemy.ProvokedBy = &self
	out := Outcome{
		Kind:      ActionProvoke,
		Targets:   []Ref{r.roster.RefOf(enemy)},
		Narrative: fmt.Sprintf("%s provokes %s.", actor.Name, enemy.Name),
	}
	r.log(actor, out)
	return out, nil
}

// ProvokeAll provokes every living enemy. The MP check covers the whole
// group, so either every living enemy is provoked or none is.
//
// Precondition: actor is alive.
// Postcondition: on success every living enemy's ProvokedBy refers to actor.
func (r *Resolver) ProvokeAll(actor *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := requireSkill(actor, SkillProvokeAll, r.roster.ProvokeAllCost()); err != nil {
		return Outcome{}, err
	}
	living := r.roster.Living(SideEnemies)
	if len(living) == 0 {
		return Outcome{}, fmt.Errorf("no living enemies to provoke: %w", ErrInvalidTarget)
	}
	cost := r.roster.ProvokeAllCost()
	actor.MP -= cost
	self := r.roster.RefOf(actor)
	out := Outcome{Kind: ActionProvoke}
	for _, e := range living {
		ref := self
		e.ProvokedBy = &ref
		out.Targets = append(out.Targets, r.roster.RefOf(e))
	}
	out.Narrative = fmt.Sprintf("%s provokes every enemy (%d MP).", actor.Name, cost)
	r.log(actor, out)
	return out, nil
}

// Fortify raises the actor's own defense.
//
// Precondition: actor is alive.
// Postcondition: on success actor.Defense increased by the fortify amount.
func (r *Resolver) Fortify(actor *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := requireSkill(actor, SkillFortify, SkillFortify.Cost()); err != nil {
		return Outcome{}, err
	}
	actor.MP -= SkillFortify.Cost()
	actor.Defense += r.fortifyAmount
	out := Outcome{
		Kind:      ActionDefend,
		Narrative: fmt.Sprintf("%s raises defense by %d (now %d).", actor.Name, r.fortifyAmount, actor.Defense),
	}
	r.log(actor, out)
	return out, nil
}

// Heal restores HealAmount HP to a living ally, clamped to MaxHP.
//
// Precondition: actor is alive.
func (r *Resolver) Heal(actor, target *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := requireSkill(actor, SkillHeal, SkillHeal.Cost()); err != nil {
		return Outcome{}, err
	}
	if err := r.requireLivingAlly(actor, target); err != nil {
		return Outcome{}, err
	}
	actor.MP -= SkillHeal.Cost()
	before := target.HP
	target.HP = min(target.HP+HealAmount, target.MaxHP)
	out := Outcome{
		Kind:      ActionHeal,
		Targets:   []Ref{r.roster.RefOf(target)},
		Narrative: fmt.Sprintf("%s heals %s for %d HP.", actor.Name, target.Name, target.HP-before),
	}
	r.log(actor, out)
	return out, nil
}

// Revive brings a fallen ally back with min(ReviveHP, MaxHP) HP.
//
// Precondition: actor is alive.
// Postcondition: on success target.IsAlive().
func (r *Resolver) Revive(actor, target *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := requireSkill(actor, SkillRevive, SkillRevive.Cost()); err != nil {
		return Outcome{}, err
	}
	if target == nil || sideOf(target) != sideOf(actor) {
		return Outcome{}, fmt.Errorf("%s cannot revive that combatant: %w", actor.Name, ErrInvalidTarget)
	}
	if target.IsAlive() {
		return Outcome{}, fmt.Errorf("%s is not fallen: %w", target.Name, ErrTargetAlive)
	}
	actor.MP -= SkillRevive.Cost()
	target.HP = min(ReviveHP, target.MaxHP)
	out := Outcome{
		Kind:      ActionHeal,
		Targets:   []Ref{r.roster.RefOf(target)},
		Narrative: fmt.Sprintf("%s revives %s with %d HP.", actor.Name, target.Name, target.HP),
	}
	r.log(actor, out)
	return out, nil
}

// RestoreMP gives RestoreMPAmount MP to a living ally, clamped to MaxMP.
//
// Precondition: actor is alive.
func (r *Resolver) RestoreMP(actor, target *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := requireSkill(actor, SkillRestoreMP, SkillRestoreMP.Cost()); err != nil {
		return Outcome{}, err
	}
	if err := r.requireLivingAlly(actor, target); err != nil {
		return Outcome{}, err
	}
	actor.MP -= SkillRestoreMP.Cost()
	before := target.MP
	target.MP = min(target.MP+RestoreMPAmount, target.MaxMP)
	out := Outcome{
		Kind:      ActionHeal,
		Targets:   []Ref{r.roster.RefOf(target)},
		Narrative: fmt.Sprintf("%s restores %d MP to %s.", actor.Name, target.MP-before, target.Name),
	}
	r.log(actor, out)
	return out, nil
}

// Cleanse removes paralysis, sleep and provocation from a living combatant of
// either side. On an enemy this lifts the provoke that ties it to a hero.
//
// Precondition: actor is alive.
func (r *Resolver) Cleanse(actor, target *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := requireSkill(actor, SkillCleanse, SkillCleanse.Cost()); err != nil {
		return Outcome{}, err
	}
	if target == nil || !target.IsAlive() {
		return Outcome{}, fmt.Errorf("%s cannot target that combatant: %w", actor.Name, ErrInvalidTarget)
	}
	target.Conditions.Cleanse()
	target.ProvokedBy = nil
	out := Outcome{
		Kind:      ActionHeal,
		Targets:   []Ref{r.roster.RefOf(target)},
		Narrative: fmt.Sprintf("%s cleanses %s.", actor.Name, target.Name),
	}
	r.log(actor, out)
	return out, nil
}

// Firebolt deals FireboltDamage flat damage, ignoring defense and the floor.
//
// Precondition: actor is alive.
func (r *Resolver) Firebolt(actor, target *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := requireSkill(actor, SkillFirebolt, SkillFirebolt.Cost()); err != nil {
		return Outcome{}, err
	}
	if err := r.requireLivingOpponent(actor, target); err != nil {
		return Outcome{}, err
	}
	actor.MP -= SkillFirebolt.Cost()
	out := Outcome{Kind: ActionSpell, Targets: []Ref{r.roster.RefOf(target)}}
	r.pierce(target, FireboltDamage, &out)
	out.Damage = FireboltDamage
	out.Narrative = fmt.Sprintf("%s hurls a firebolt at %s for %d damage.%s", actor.Name, target.Name, out.Damage, defeatSuffix(target))
	r.log(actor, out)
	return out, nil
}

// Empower raises a living ally's attack by EmpowerAmount.
//
// Precondition: actor is alive.
func (r *Resolver) Empower(actor, target *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := requireSkill(actor, SkillEmpower, SkillEmpower.Cost()); err != nil {
		return Outcome{}, err
	}
	if err := r.requireLivingAlly(actor, target); err != nil {
		return Outcome{}, err
	}
	actor.MP -= SkillEmpower.Cost()
	target.Attack += EmpowerAmount
	out := Outcome{
		Kind:      ActionSpell,
		Targets:   []Ref{r.roster.RefOf(target)},
		Narrative: fmt.Sprintf("%s empowers %s (attack %d).", actor.Name, target.Name, target.Attack),
	}
	r.log(actor, out)
	return out, nil
}

// Paralyze sets the target's paralysis timer to max(current, ParalyzeTurns).
//
// Precondition: actor is alive.
func (r *Resolver) Paralyze(actor, target *Combatant) (Outcome, error) {
	mustAct(actor)
	if err := requireSkill(actor, SkillParalyze, SkillParalyze.Cost()); err != nil {
		return Outcome{}, err
	}
	if err := r.requireLivingOpponent(actor, target); err != nil {
		return Outcome{}, err
	}
	def := r.roster.Conditions().MustGet(condition.Paralyzed)
	if err := target.Conditions.Apply(def, ParalyzeTurns); err != nil {
		return Outcome{}, fmt.Errorf("paralyzing %s: %w", target.Name, err)
	}
	actor.MP -= SkillParalyze.Cost()
	out := Outcome{
		Kind:      ActionSpell,
		Targets:   []Ref{r.roster.RefOf(target)},
		Narrative: fmt.Sprintf("%s paralyzes %s.", actor.Name, target.Name),
	}
	r.log(actor, out)
	return out, nil
}

// UseSkill dispatches s to the matching operation. target is ignored by
// skills with TargetNone or TargetAllEnemies.
//
// Precondition: actor is alive.
func (r *Resolver) UseSkill(actor *Combatant, s Skill, target *Combatant) (Outcome, error) {
	switch s {
	case SkillDefend:
		return r.Defend(actor, target)
	case SkillProvoke:
		return r.Provoke(actor, target)
	case SkillProvokeAll:
		return r.ProvokeAll(actor)
	case SkillFortify:
		return r.Fortify(actor)
	case SkillHeal:
		return r.Heal(actor, target)
	case SkillRevive:
		return r.Revive(actor, target)
	case SkillRestoreMP:
		return r.RestoreMP(actor, target)
	case SkillCleanse:
		return r.Cleanse(actor, target)
	case SkillFirebolt:
		return r.Firebolt(actor, target)
	case SkillEmpower:
		return r.Empower(actor, target)
	case SkillParalyze:
		return r.Paralyze(actor, target)
	default:
		return Outcome{}, fmt.Errorf("unknown skill %d: %w", int(s), ErrNotCapable)
	}
}

// UseItem consumes one unit of item from the actor's pouch and applies its
// effect. Enemy-targeted items need a living enemy; every other item
// affects the actor. Nothing is consumed on failure.
//
// Precondition: actor is alive.
// Postcondition: on success the pouch count of item decreased by one.
func (r *Resolver) UseItem(actor *Combatant, item string, target *Combatant) (Outcome, error) {
	mustAct(actor)
	if !actor.IsHero() || actor.Pouch == nil {
		return Outcome{}, fmt.Errorf("%s cannot use items: %w", actor.Name, ErrNotCapable)
	}
	def, ok := r.catalog.Item(item)
	if !ok || !actor.Pouch.Has(item) {
		return Outcome{}, fmt.Errorf("%s has no %q: %w", actor.Name, item, ErrItemUnavailable)
	}
	if def.NeedsEnemyTarget() {
		if err := r.requireLivingOpponent(actor, target); err != nil {
			return Outcome{}, err
		}
	} else {
		target = actor
	}

	out := Outcome{Kind: ActionItem, Item: item}
	if target != actor {
		out.Targets = []Ref{r.roster.RefOf(target)}
	}
	var effect string
	switch def.Effect {
	case inventory.EffectHealHP:
		before := target.HP
		target.HP = min(target.HP+def.Magnitude, target.MaxHP)
		effect = fmt.Sprintf("recovers %d HP", target.HP-before)
	case inventory.EffectRestoreMP:
		before := target.MP
		target.MP = min(target.MP+def.Magnitude, target.MaxMP)
		effect = fmt.Sprintf("recovers %d MP", target.MP-before)
	case inventory.EffectRestoreAll:
		target.HP = min(target.HP+def.Magnitude, target.MaxHP)
		target.MP = min(target.MP+def.Magnitude, target.MaxMP)
		effect = "is fully restored"
	case inventory.EffectCleanse:
		target.Conditions.Cleanse()
		target.ProvokedBy = nil
		effect = "is cleansed"
	case inventory.EffectDamage:
		out.Damage = r.strike(target, def.Magnitude, &out)
		effect = fmt.Sprintf("takes %d damage.%s", out.Damage, defeatSuffix(target))
	case inventory.EffectRaiseAttack:
		target.Attack += def.Magnitude
		effect = fmt.Sprintf("gains %d attack", def.Magnitude)
	case inventory.EffectRaiseDefense:
		target.Defense += def.Magnitude
		effect = fmt.Sprintf("gains %d defense", def.Magnitude)
	default:
		return Outcome{}, fmt.Errorf("item %q has unsupported effect %q: %w", item, def.Effect, ErrItemUnavailable)
	}
	if err := actor.Pouch.Remove(item, 1); err != nil {
		// Has() was checked above; reaching this is a broken pouch invariant.
		panic(fmt.Sprintf("combat: UseItem precondition violated: %v", err))
	}
	out.Narrative = fmt.Sprintf("%s uses %s: %s %s", actor.Name, item, target.Name, effect)
	r.log(actor, out)
	return out, nil
}

// Special is the boss attack: max(1, attack*SpecialFactor - target.Defense)
// applied directly, ignoring any protector.
//
// Precondition: actor is alive.
func (r *Resolver) Special(actor, target *Combatant) (Outcome, error) {
	mustAct(actor)
	if !actor.IsBoss() {
		return Outcome{}, fmt.Errorf("%s has no special attack: %w", actor.Name, ErrNotCapable)
	}
	if !actor.Boss.SpecialReady() {
		return Outcome{}, fmt.Errorf("%s special ready in %d turns: %w", actor.Name, actor.Boss.TurnsUntilSpecial, ErrNotCapable)
	}
	if err := r.requireLivingOpponent(actor, target); err != nil {
		return Outcome{}, err
	}
	out := Outcome{Kind: ActionSpecial, Targets: []Ref{r.roster.RefOf(target)}}
	out.Damage = max(1, actor.Attack*SpecialFactor-target.Defense)
	r.pierce(target, out.Damage, &out)
	out.Narrative = fmt.Sprintf("%s unleashes its special on %s for %d damage!%s", actor.Name, target.Name, out.Damage, defeatSuffix(target))
	r.log(actor, out)
	return out, nil
}
