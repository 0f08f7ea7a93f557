package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/tabletopkit/companion/internal/game/character"
	"github.com/tabletopkit/companion/internal/game/item"
)

func baseCharacter() character.Character {
	return character.Character{
		ID:         1,
		Name:       "Vera",
		HPCurrent:  10,
		HPMax:      10,
		DamageBase: 2,
		Stats:      item.StatBlock{Str: 3, Dex: 2},
	}
}

func TestComputeNoInventory(t *testing.T) {
	c := baseCharacter()
	d := Compute(c, nil)
	assert.Equal(t, 2, d.DamageTotal)
	assert.Equal(t, 0, d.DefenseTotal)
	assert.Equal(t, 10, d.HPMaxTotal)
	assert.Equal(t, c.Stats, d.StatsTotal)
}

func TestComputeOnlyEquippedCount(t *testing.T) {
	c := baseCharacter()
	inv := []item.Item{
		{Name: "Sword", Equipped: true, Modifiers: item.Modifiers{DamageBonus: 3}},
		{Name: "Axe", Equipped: false, Modifiers: item.Modifiers{DamageBonus: 100}},
		{Name: "Shield", Equipped: true, Modifiers: item.Modifiers{DefenseBonus: 2}},
		{Name: "Charm", Equipped: true, Modifiers: item.Modifiers{HPBonus: 5, StatBonus: item.StatBlock{Dex: 1}}},
	}
	d := Compute(c, inv)
	assert.Equal(t, 5, d.DamageTotal)
	assert.Equal(t, 2, d.DefenseTotal)
	assert.Equal(t, 15, d.HPMaxTotal)
	assert.Equal(t, item.StatBlock{Str: 3, Dex: 3}, d.StatsTotal)
}

func TestComputeNegativeBonuses(t *testing.T) {
	c := baseCharacter()
	inv := []item.Item{
		{Name: "Cursed Ring", Equipped: true, Modifiers: item.Modifiers{HPBonus: -4, DamageBonus: -1}},
	}
	d := Compute(c, inv)
	assert.Equal(t, 1, d.DamageTotal)
	assert.Equal(t, 6, d.HPMaxTotal)
}

func TestClampHP(t *testing.T) {
	c := baseCharacter()
	c.HPCurrent = 15
	assert.Equal(t, 12, ClampHP(c, 12))

	c.HPCurrent = 8
	assert.Equal(t, 8, ClampHP(c, 12))

	c.HPCurrent = 12
	assert.Equal(t, 12, ClampHP(c, 12))
}

func TestPropertyComputeIsPure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := baseCharacter()
		c.DamageBase = rapid.IntRange(-10, 10).Draw(t, "damage_base")
		c.HPMax = rapid.IntRange(0, 100).Draw(t, "hp_max")

		n := rapid.IntRange(0, 5).Draw(t, "items")
		inv := make([]item.Item, n)
		for i := range inv {
			inv[i] = item.Item{
				Name:     rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "name"),
				Equipped: rapid.Bool().Draw(t, "equipped"),
				Modifiers: item.Modifiers{
					DamageBonus:  rapid.IntRange(-5, 5).Draw(t, "dmg"),
					DefenseBonus: rapid.IntRange(-5, 5).Draw(t, "def"),
					HPBonus:      rapid.IntRange(-5, 5).Draw(t, "hp"),
				},
			}
		}

		first := Compute(c, inv)
		second := Compute(c, inv)
		if first != second {
			t.Fatalf("compute not deterministic: %+v != %+v", first, second)
		}
	})
}

func TestPropertyClampNeverExceedsMax(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := baseCharacter()
		c.HPCurrent = rapid.IntRange(-50, 200).Draw(t, "hp_current")
		max := rapid.IntRange(0, 100).Draw(t, "max")
		got := ClampHP(c, max)
		if got > max {
			t.Fatalf("clamp returned %d above max %d", got, max)
		}
	})
}
