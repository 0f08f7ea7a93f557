// Package item defines the inventory item domain model: item kinds, equip
// slots, modifier blocks, durability, and vehicle state.
package item

// Type classifies an inventory item.
type Type string

const (
	// TypeTool is a plain utility item.
	TypeTool Type = "tool"
	// TypeWeapon is an offensive item.
	TypeWeapon Type = "weapon"
	// TypeArmor is a defensive item.
	TypeArmor Type = "armor"
	// TypeConsumable is a single-use item with an optional use effect.
	TypeConsumable Type = "consumable"
	// TypeVehicle is a drivable item carrying a vehicle sub-record.
	TypeVehicle Type = "vehicle"
	// TypeQuest is a story item.
	TypeQuest Type = "quest"
)

// Slot identifies the equipment slot an item occupies when equipped.
type Slot string

const (
	// SlotNone marks an item that cannot be equipped.
	SlotNone Slot = "none"
	// SlotHand is the main-hand slot.
	SlotHand Slot = "hand"
	// SlotOffhand is the off-hand slot.
	SlotOffhand Slot = "offhand"
	// SlotBody is the body slot.
	SlotBody Slot = "body"
	// SlotHead is the head slot.
	SlotHead Slot = "head"
	// SlotAccessory is the accessory slot.
	SlotAccessory Slot = "accessory"
	// SlotVehicle is the vehicle attachment slot.
	SlotVehicle Slot = "vehicle"
)

// SpeedMode is a vehicle's current speed setting.
type SpeedMode string

const (
	// SpeedNormal is the fuel-efficient driving mode.
	SpeedNormal SpeedMode = "normal"
	// SpeedFast is the fast driving mode; drives cost double fuel.
	SpeedFast SpeedMode = "fast"
)

// StatBlock holds the six named ability scores shared by characters and
// item stat bonuses.
type StatBlock struct {
	Str int `json:"str"`
	Dex int `json:"dex"`
	Int int `json:"int"`
	Wis int `json:"wis"`
	Cha int `json:"cha"`
	Con int `json:"con"`
}

// Add returns the member-wise sum of s and o.
func (s StatBlock) Add(o StatBlock) StatBlock {
	return StatBlock{
		Str: s.Str + o.Str,
		Dex: s.Dex + o.Dex,
		Int: s.Int + o.Int,
		Wis: s.Wis + o.Wis,
		Cha: s.Cha + o.Cha,
		Con: s.Con + o.Con,
	}
}

// Modifiers holds the combat bonuses an equipped item contributes.
// Absent fields decode as zero and contribute nothing.
type Modifiers struct {
	DamageBonus  int       `json:"damage_bonus"`
	DefenseBonus int       `json:"defense_bonus"`
	HPBonus      int       `json:"hp_bonus"`
	StatBonus    StatBlock `json:"stat_bonus"`
}

// Durability tracks item wear. Max == 0 means the item is indestructible.
type Durability struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// VehicleState is the mutable sub-record present only on vehicle items.
type VehicleState struct {
	FuelCurrent int       `json:"fuel_current"`
	FuelMax     int       `json:"fuel_max"`
	SpeedMode   SpeedMode `json:"speed_mode"`
	SpeedBonus  int       `json:"speed_bonus"`
	Seats       int       `json:"seats"`
	TauntRadius int       `json:"taunt_radius"`
	NoiseLevel  int       `json:"noise_level"`
}

// Item is one entry in a character's inventory. Name is the unique key
// within an inventory; there is no numeric item id.
type Item struct {
	Name             string `json:"name"`
	ShortDescription string `json:"short_description"`
	Details          string `json:"details"`
	UseEffect        string `json:"use_effect"`
	UseDescription   string `json:"use_description"`

	Type     Type `json:"item_type"`
	Slot     Slot `json:"equip_slot"`
	Equipped bool `json:"equipped"`

	Modifiers  Modifiers  `json:"modifiers"`
	Durability Durability `json:"durability"`

	// Vehicle is present only when Type is TypeVehicle; it is never
	// defaulted into existence for other item types.
	Vehicle *VehicleState `json:"vehicle,omitempty"`
}

// CanEquip reports whether the item may occupy an equipment slot.
// Eligibility is determined solely by the slot, not by the item type;
// quest items with a slot are equippable.
func (i Item) CanEquip() bool {
	slot := i.Slot
	if slot == "" {
		slot = SlotNone
	}
	return slot != SlotNone
}

// IsVehicle reports whether the item is a drivable vehicle with state attached.
func (i Item) IsVehicle() bool {
	return i.Type == TypeVehicle && i.Vehicle != nil
}
