// Package stats computes a character's effective combat statistics from
// base values plus equipped-item modifiers.
//
// Derived stats are never stored: they are recomputed on every read so that
// equip toggles and authoritative stat corrections take effect immediately.
package stats

import (
	"github.com/tabletopkit/companion/internal/game/character"
	"github.com/tabletopkit/companion/internal/game/item"
)

// Derived holds effective combat statistics after equipment bonuses.
type Derived struct {
	DamageTotal  int            `json:"damage_total"`
	DefenseTotal int            `json:"defense_total"`
	HPMaxTotal   int            `json:"hp_max_total"`
	StatsTotal   item.StatBlock `json:"stats_total"`
}

// Compute derives effective stats from the character's base values and the
// given inventory. Only items with Equipped set contribute. Pure: no side
// effects, no I/O, deterministic for fixed inputs.
//
// Postcondition: DamageTotal == c.DamageBase + sum of equipped damage
// bonuses; DefenseTotal is the bonus sum alone (there is no base defense
// stat); HPMaxTotal == c.HPMax + sum of equipped HP bonuses.
func Compute(c character.Character, inventory []item.Item) Derived {
	var damage, defense, hp int
	var statBonus item.StatBlock

	for _, it := range inventory {
		if !it.Equipped {
			continue
		}
		damage += it.Modifiers.DamageBonus
		defense += it.Modifiers.DefenseBonus
		hp += it.Modifiers.HPBonus
		statBonus = statBonus.Add(it.Modifiers.StatBonus)
	}

	return Derived{
		DamageTotal:  c.DamageBase + damage,
		DefenseTotal: defense,
		HPMaxTotal:   c.HPMax + hp,
		StatsTotal:   c.Stats.Add(statBonus),
	}
}

// ClampHP returns the character's current HP bounded by the effective
// maximum. Any caller that mutates equipment affecting HPMaxTotal must
// apply the result; reads do not clamp automatically.
//
// Postcondition: return value == min(c.HPCurrent, hpMaxTotal).
func ClampHP(c character.Character, hpMaxTotal int) int {
	if c.HPCurrent > hpMaxTotal {
		return hpMaxTotal
	}
	return c.HPCurrent
}
