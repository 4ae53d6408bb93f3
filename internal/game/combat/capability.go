package combat

import "sort"

// Skill is a class ability chosen from the hero's skill menu.
type Skill int

const (
	SkillDefend Skill = iota + 1
	SkillProvoke
	SkillProvokeAll
	SkillFortify
	SkillHeal
	SkillRevive
	SkillRestoreMP
	SkillCleanse
	SkillFirebolt
	SkillEmpower
	SkillParalyze
)

// TargetRule says which combatant a skill is aimed at.
type TargetRule int

const (
	TargetNone TargetRule = iota
	TargetLivingAlly
	TargetFallenAlly
	TargetLivingEnemy
	TargetAllEnemies
	// TargetLivingAny accepts a living combatant of either side.
	TargetLivingAny
)

// ProvokeAllCostPerEnemy is multiplied by the number of living enemies.
const ProvokeAllCostPerEnemy = 3

type skillInfo struct {
	name   string
	cost   int
	target TargetRule
}

var skills = map[Skill]skillInfo{
	SkillDefend:     {"Defend ally", 10, TargetLivingAlly},
	SkillProvoke:    {"Provoke", 5, TargetLivingEnemy},
	SkillProvokeAll: {"Provoke all", 0, TargetAllEnemies},
	SkillFortify:    {"Raise defense", 10, TargetNone},
	SkillHeal:       {"Heal", 15, TargetLivingAlly},
	SkillRevive:     {"Revive", 25, TargetFallenAlly},
	SkillRestoreMP:  {"Restore MP", 20, TargetLivingAlly},
	SkillCleanse:    {"Cleanse", 0, TargetLivingAny},
	SkillFirebolt:   {"Firebolt", 20, TargetLivingEnemy},
	SkillEmpower:    {"Empower", 20, TargetLivingAlly},
	SkillParalyze:   {"Paralyze", 25, TargetLivingEnemy},
}

// String returns the menu label.
func (s Skill) String() string {
	if info, ok := skills[s]; ok {
		return info.name
	}
	return "unknown"
}

// Cost returns the fixed MP cost. SkillProvokeAll reports 0 here; its cost
// depends on the living enemy count (see ProvokeAllCostPerEnemy).
func (s Skill) Cost() int { return skills[s].cost }

// Target returns the targeting rule of the skill.
func (s Skill) Target() TargetRule { return skills[s].target }

type capabilitySet map[Skill]bool

// capabilities is the single source of truth for which class may use which skill.
var capabilities = map[Class]capabilitySet{
	ClassWarrior: {SkillDefend: true, SkillProvoke: true, SkillProvokeAll: true, SkillFortify: true},
	ClassPaladin: {SkillDefend: true, SkillProvoke: true, SkillProvokeAll: true, SkillFortify: true,
		SkillHeal: true, SkillRevive: true, SkillCleanse: true},
	ClassDruid: {SkillHeal: true, SkillRestoreMP: true, SkillCleanse: true,
		SkillFirebolt: true, SkillEmpower: true, SkillParalyze: true},
	ClassMage: {SkillFirebolt: true, SkillEmpower: true, SkillParalyze: true},
}

// Can reports whether c is allowed to use s. Enemies have no skills.
func (c *Combatant) Can(s Skill) bool {
	if !c.IsHero() {
		return false
	}
	return capabilities[c.Class][s]
}

// SkillsFor returns the skills enabled for class in menu order.
func SkillsFor(class Class) []Skill {
	var out []Skill
	for s := range capabilities[class] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
