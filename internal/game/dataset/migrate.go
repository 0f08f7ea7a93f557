package dataset

import (
	"github.com/tabletopkit/companion/internal/game/character"
	"github.com/tabletopkit/companion/internal/game/item"
	"github.com/tabletopkit/companion/internal/game/status"
)

// CurrentSchemaVersion is the schema version this build reads and writes.
//
// Version history:
//
//	1 — original dataset without the inventory system
//	2 — per-character inventories, item use logs, vehicle events,
//	    status effect map
const CurrentSchemaVersion = 2

// Migrate upgrades a decoded dataset to the current schema version.
// A zero (absent) schemaVersion is treated as version 1.
//
// Idempotent: migrating an already-current dataset changes nothing except
// confirming SchemaVersion == CurrentSchemaVersion.
func Migrate(d GameData) GameData {
	version := d.SchemaVersion
	if version == 0 {
		version = 1
	}

	out := d
	if version < 2 {
		out = migrateV1ToV2(out)
	}
	out.SchemaVersion = CurrentSchemaVersion
	return out
}

// migrateV1ToV2 introduces the inventory system: audit-log collections,
// the per-character status-effect map, and normalised item records on
// every character inventory.
func migrateV1ToV2(d GameData) GameData {
	out := d
	if out.ItemUseLogs == nil {
		out.ItemUseLogs = []ItemUseLog{}
	}
	if out.VehicleEvents == nil {
		out.VehicleEvents = []VehicleEvent{}
	}
	if out.StatusEffects == nil {
		out.StatusEffects = map[int64][]status.Effect{}
	}

	// An absent inventory stays nil: those characters are still served by
	// the legacy character_items join, and defaulting it to an empty list
	// would hide their items.
	out.Characters = append([]character.Character(nil), d.Characters...)
	for i := range out.Characters {
		if out.Characters[i].Inventory == nil {
			continue
		}
		out.Characters[i].Inventory = item.MigrateInventory(out.Characters[i].Inventory)
	}
	return out
}
