// Package merge reconciles the authoritative (master-published) dataset
// with locally persisted session state.
//
// The authoritative dataset carries design intent: rosters, narrative
// fields, corrected stat blocks. The local dataset carries session
// progress: HP lost in combat, items picked up, equip toggles. Merging
// must never silently discard session progress and must never let the
// working dataset diverge permanently from authoritative structure. The
// merge runs before every read, so it must be idempotent and cheap.
package merge

import (
	"github.com/tabletopkit/companion/internal/game/character"
	"github.com/tabletopkit/companion/internal/game/dataset"
	"github.com/tabletopkit/companion/internal/game/item"
)

// Dataset merges an authoritative dataset with local session state.
// Both inputs must already be migrated to the current schema version.
//
// Rules:
//   - local == nil (first load): the authoritative dataset is adopted
//     wholesale.
//   - every top-level collection except characters is replaced by the
//     authoritative version when it is non-empty, otherwise the local
//     version is retained — authoritative never overwrites with emptiness.
//   - characters are merged per-character (see mergeCharacters).
//
// Postcondition: deterministic and idempotent — merging the result with
// the same authoritative input again yields an identical dataset.
func Dataset(authoritative dataset.GameData, local *dataset.GameData) dataset.GameData {
	if local == nil {
		return authoritative
	}

	out := *local
	out.SchemaVersion = dataset.CurrentSchemaVersion
	out.Players = pick(authoritative.Players, local.Players)
	out.Locations = pick(authoritative.Locations, local.Locations)
	out.Mobs = pick(authoritative.Mobs, local.Mobs)
	out.Items = pick(authoritative.Items, local.Items)
	out.CharacterItems = pick(authoritative.CharacterItems, local.CharacterItems)
	out.Notes = pick(authoritative.Notes, local.Notes)
	out.DiceRolls = pick(authoritative.DiceRolls, local.DiceRolls)
	out.ItemUseLogs = pick(authoritative.ItemUseLogs, local.ItemUseLogs)
	out.VehicleEvents = pick(authoritative.VehicleEvents, local.VehicleEvents)
	if len(authoritative.StatusEffects) > 0 {
		out.StatusEffects = authoritative.StatusEffects
	}
	out.Characters = mergeCharacters(authoritative.Characters, local.Characters)
	return out
}

// pick returns the authoritative collection when non-empty, else the local one.
func pick[T any](authoritative, local []T) []T {
	if len(authoritative) > 0 {
		return authoritative
	}
	return local
}

// mergeCharacters reconciles the character rosters. The authoritative
// roster is the source of truth for membership: characters present only
// locally are dropped, and characters absent locally are adopted as-is.
// An empty authoritative roster retains the local one.
func mergeCharacters(authoritative, local []character.Character) []character.Character {
	if len(authoritative) == 0 {
		return local
	}

	byID := make(map[int64]*character.Character, len(local))
	for i := range local {
		byID[local[i].ID] = &local[i]
	}

	out := make([]character.Character, 0, len(authoritative))
	for _, auth := range authoritative {
		if loc, ok := byID[auth.ID]; ok {
			out = append(out, mergeCharacter(auth, *loc))
		} else {
			c := auth.Clone()
			c.Inventory = Inventory(auth.Inventory, nil)
			out = append(out, c)
		}
	}
	return out
}

// mergeCharacter takes all structural and narrative fields from the
// authoritative record — design intent wins — and preserves the
// session-mutated fields from the local record: hp_current always comes
// from local, and the inventory is the item merge of both sides.
//
// hp_max follows the authoritative value: a master-driven change
// propagates even when the local copy still holds the old maximum. See
// DESIGN.md for the resolution of the asymmetric hp_max heuristic.
func mergeCharacter(auth, local character.Character) character.Character {
	out := auth.Clone()
	out.HPCurrent = local.HPCurrent
	out.Inventory = Inventory(auth.Inventory, local.Inventory)
	return out
}

// Inventory merges an authoritative item list with a local one.
//
// Items are keyed by name (the inventory's unique key). Authoritative
// items come first in authoritative order; a local item with a matching
// key replaces that entry in place — local session fields such as
// equipped state and durability win — while local-only items are appended
// after all authoritative entries, preserving player-acquired items that
// are absent from the template.
//
// Postcondition: order-stable and deterministic for fixed inputs, and
// idempotent: Inventory(auth, Inventory(auth, local)) == Inventory(auth, local).
func Inventory(authoritative, local []item.Item) []item.Item {
	// Two absent inventories stay absent so the legacy item join keeps
	// applying to characters that never had one.
	if len(authoritative) == 0 && len(local) == 0 {
		return nil
	}

	merged := make([]item.Item, 0, len(authoritative)+len(local))
	index := make(map[string]int, len(authoritative))

	place := func(it item.Item) {
		if pos, ok := index[it.Name]; ok {
			merged[pos] = it
			return
		}
		index[it.Name] = len(merged)
		merged = append(merged, it)
	}

	for _, it := range authoritative {
		place(it)
	}
	for _, it := range local {
		place(it)
	}
	return merged
}
