// Package dataset defines the root game-state aggregate: the single JSON
// document that is both the master's import/export format and the locally
// persisted session state.
package dataset

import (
	"encoding/json"
	"fmt"

	"github.com/tabletopkit/companion/internal/game/character"
	"github.com/tabletopkit/companion/internal/game/item"
	"github.com/tabletopkit/companion/internal/game/status"
)

// Player links a player name to the character they control.
type Player struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CharacterID int64  `json:"character_id"`
}

// Location is a place characters can occupy.
type Location struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	IsActive    bool     `json:"is_active"`
	CreatedAt   int64    `json:"created_at,omitempty"`
}

// Mob is a spawned creature instance at a location.
type Mob struct {
	ID          int64          `json:"id"`
	MobID       int64          `json:"mob_id,omitempty"`
	Name        string         `json:"name,omitempty"`
	LocationID  int64          `json:"location_id"`
	RolledStats map[string]int `json:"rolled_stats,omitempty"`
	HPCurrent   int            `json:"hp_current"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   int64          `json:"created_at,omitempty"`
}

// ItemTemplate is a master-authored item definition in the items collection.
// Unlike inventory entries it carries a numeric id.
type ItemTemplate struct {
	ID int64 `json:"id"`
	item.Item
}

// CharacterItem is a legacy link row granting an item template to a
// character. Kept for datasets predating per-character inventories.
type CharacterItem struct {
	ID          int64  `json:"id"`
	CharacterID int64  `json:"character_id"`
	ItemID      int64  `json:"item_id"`
	Quantity    int    `json:"quantity"`
	State       string `json:"state,omitempty"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

// Note is a master-to-player message.
type Note struct {
	ID          int64  `json:"id"`
	CharacterID int64  `json:"character_id"`
	FromGM      bool   `json:"from_gm"`
	Text        string `json:"text"`
	Visibility  string `json:"visibility"`
	CreatedAt   int64  `json:"created_at"`
}

// Visibility values for notes.
const (
	VisibilityTellAll       = "tell_all"
	VisibilityDecideYourself = "decide_yourself"
)

// DiceRoll records one resolved dice roll.
type DiceRoll struct {
	ID            int64          `json:"id"`
	CharacterID   int64          `json:"character_id"`
	CharacterName string         `json:"character_name,omitempty"`
	Type          string         `json:"type"`
	Value         int            `json:"value"`
	Context       map[string]any `json:"context,omitempty"`
	CreatedAt     int64          `json:"created_at"`
}

// ItemUseLog is an immutable audit record of one item use. Append-only.
type ItemUseLog struct {
	ID            int64             `json:"id"`
	CharacterID   int64             `json:"character_id"`
	CharacterName string            `json:"character_name"`
	ItemName      string            `json:"item_name"`
	EffectType    string            `json:"effect_type"`
	EffectParams  map[string]string `json:"effect_params"`
	TargetID      int64             `json:"target_id,omitempty"`
	TargetName    string            `json:"target_name,omitempty"`
	Timestamp     int64             `json:"timestamp"`
}

// VehicleEvent is an immutable audit record of one vehicle action. Append-only.
type VehicleEvent struct {
	ID            int64  `json:"id"`
	CharacterID   int64  `json:"character_id"`
	CharacterName string `json:"character_name"`
	VehicleName   string `json:"vehicle_name"`
	EventType     string `json:"event_type"`
	Details       string `json:"details"`
	Timestamp     int64  `json:"timestamp"`
}

// GameData is the root aggregate. Ids are unique within each collection
// only; inventory items are keyed by name within their character instead.
type GameData struct {
	SchemaVersion  int                   `json:"schemaVersion"`
	Players        []Player              `json:"players"`
	Characters     []character.Character `json:"characters"`
	Locations      []Location            `json:"locations"`
	Mobs           []Mob                 `json:"mobs"`
	Items          []ItemTemplate        `json:"items"`
	CharacterItems []CharacterItem       `json:"character_items"`
	Notes          []Note                `json:"notes"`
	DiceRolls      []DiceRoll            `json:"dice_rolls"`
	ItemUseLogs    []ItemUseLog          `json:"item_use_logs"`
	VehicleEvents  []VehicleEvent        `json:"vehicle_events"`
	// StatusEffects is a legacy-layout passthrough: migration initialises
	// it and exports carry it, but active effects live on
	// Character.StatusEffects and nothing writes here.
	StatusEffects map[int64][]status.Effect `json:"status_effects,omitempty"`
}

// Empty returns a baseline dataset at the current schema version with all
// collections initialised and empty.
func Empty() GameData {
	return GameData{
		SchemaVersion:  CurrentSchemaVersion,
		Players:        []Player{},
		Characters:     []character.Character{},
		Locations:      []Location{},
		Mobs:           []Mob{},
		Items:          []ItemTemplate{},
		CharacterItems: []CharacterItem{},
		Notes:          []Note{},
		DiceRolls:      []DiceRoll{},
		ItemUseLogs:    []ItemUseLog{},
		VehicleEvents:  []VehicleEvent{},
		StatusEffects:  map[int64][]status.Effect{},
	}
}

// Decode parses a raw JSON document into a GameData.
//
// Postcondition: returns a decoded dataset or a non-nil error; no partial
// result is ever returned on malformed input.
func Decode(raw []byte) (GameData, error) {
	var d GameData
	if err := json.Unmarshal(raw, &d); err != nil {
		return GameData{}, fmt.Errorf("decoding dataset: %w", err)
	}
	return d, nil
}

// Encode serialises the dataset to indented JSON, the shape shared by the
// import, export, and persistence paths.
func (d GameData) Encode() ([]byte, error) {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}
	return raw, nil
}

// MaxID returns the highest id present across every id-keyed collection.
func (d GameData) MaxID() int64 {
	var max int64
	bump := func(id int64) {
		if id > max {
			max = id
		}
	}
	for _, p := range d.Players {
		bump(p.ID)
	}
	for _, c := range d.Characters {
		bump(c.ID)
	}
	for _, l := range d.Locations {
		bump(l.ID)
	}
	for _, m := range d.Mobs {
		bump(m.ID)
	}
	for _, it := range d.Items {
		bump(it.ID)
	}
	for _, ci := range d.CharacterItems {
		bump(ci.ID)
	}
	for _, n := range d.Notes {
		bump(n.ID)
	}
	for _, r := range d.DiceRolls {
		bump(r.ID)
	}
	for _, l := range d.ItemUseLogs {
		bump(l.ID)
	}
	for _, v := range d.VehicleEvents {
		bump(v.ID)
	}
	return max
}

// Character returns a pointer to the character with the given id.
func (d *GameData) Character(id int64) (*character.Character, bool) {
	for i := range d.Characters {
		if d.Characters[i].ID == id {
			return &d.Characters[i], true
		}
	}
	return nil, false
}

// Location returns a pointer to the location with the given id.
func (d *GameData) Location(id int64) (*Location, bool) {
	for i := range d.Locations {
		if d.Locations[i].ID == id {
			return &d.Locations[i], true
		}
	}
	return nil, false
}

// IDAllocator hands out monotonically increasing ids for new records.
// Derived at load time as max(all existing ids) + 1.
type IDAllocator struct {
	next int64
}

// NewIDAllocator creates an allocator positioned after the dataset's
// highest existing id.
//
// Postcondition: the first Next() call returns d.MaxID() + 1.
func NewIDAllocator(d GameData) *IDAllocator {
	return &IDAllocator{next: d.MaxID() + 1}
}

// Next returns the next unused id.
func (a *IDAllocator) Next() int64 {
	id := a.next
	a.next++
	return id
}
