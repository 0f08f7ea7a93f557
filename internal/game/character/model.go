// Package character defines the player character domain model.
package character

import (
	"encoding/json"

	"github.com/tabletopkit/companion/internal/game/item"
	"github.com/tabletopkit/companion/internal/game/status"
)

// Goals holds a character's public and secret goals. Opaque narrative data.
type Goals struct {
	Public string `json:"public"`
	Secret string `json:"secret"`
}

// Character is a player character's persistent state.
//
// Narrative fields (Description, Backstory, Abilities, Role, Goals, Fears)
// are opaque to the engine: they are carried, merged, and persisted but
// never interpreted. HPCurrent must never exceed the effective maximum HP
// after equipment bonuses; callers that change equipment must re-clamp.
type Character struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age,omitempty"`

	Description string `json:"description"`
	Backstory   string `json:"backstory"`

	HPCurrent  int `json:"hp_current"`
	HPMax      int `json:"hp_max"`
	DamageBase int `json:"damage_base"`

	Stats item.StatBlock `json:"stats"`

	Abilities      []string       `json:"abilities,omitempty"`
	Role           string         `json:"role,omitempty"`
	Goals          Goals          `json:"goals,omitempty"`
	Fears          []string       `json:"fears,omitempty"`
	ResourcePoints map[string]int `json:"resource_points,omitempty"`

	Inventory []item.Item `json:"inventory"`

	// Player-facing note lists are owned by the UI layer; the engine
	// round-trips them without inspection.
	NotesVisibleToPlayer  []json.RawMessage `json:"notes_visible_to_player,omitempty"`
	NotesHiddenFromPlayer []json.RawMessage `json:"notes_hidden_from_player,omitempty"`

	LocationID int64 `json:"location_id"`

	StatusEffects []status.Effect `json:"status_effects,omitempty"`
}

// FindItem returns a pointer to the inventory item with the given name.
//
// Postcondition: the returned pointer aliases the character's inventory
// slice; mutations through it are visible on the character.
func (c *Character) FindItem(name string) (*item.Item, bool) {
	for i := range c.Inventory {
		if c.Inventory[i].Name == name {
			return &c.Inventory[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the character safe for independent mutation.
func (c Character) Clone() Character {
	out := c
	out.Inventory = cloneItems(c.Inventory)
	out.Abilities = append([]string(nil), c.Abilities...)
	out.Fears = append([]string(nil), c.Fears...)
	if c.ResourcePoints != nil {
		out.ResourcePoints = make(map[string]int, len(c.ResourcePoints))
		for k, v := range c.ResourcePoints {
			out.ResourcePoints[k] = v
		}
	}
	out.NotesVisibleToPlayer = append([]json.RawMessage(nil), c.NotesVisibleToPlayer...)
	out.NotesHiddenFromPlayer = append([]json.RawMessage(nil), c.NotesHiddenFromPlayer...)
	out.StatusEffects = append([]status.Effect(nil), c.StatusEffects...)
	return out
}

func cloneItems(items []item.Item) []item.Item {
	if items == nil {
		return nil
	}
	out := make([]item.Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Vehicle != nil {
			v := *out[i].Vehicle
			out[i].Vehicle = &v
		}
	}
	return out
}
