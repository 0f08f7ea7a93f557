package item

// Migrate normalizes a raw decoded item into its canonical shape. Every
// optional field is defaulted independently: text fields stay as decoded
// (empty string when absent), a missing item type becomes TypeTool, a
// missing slot becomes SlotNone, and modifier/durability blocks keep their
// zero values. The vehicle sub-record is left untouched: nil stays nil.
//
// Postcondition: the returned item has a non-empty Type and Slot; calling
// Migrate on an already-migrated item returns it unchanged.
func Migrate(raw Item) Item {
	out := raw
	if out.Type == "" {
		out.Type = TypeTool
	}
	if out.Slot == "" {
		out.Slot = SlotNone
	}
	return out
}

// MigrateInventory normalizes every item of a raw inventory list. A nil
// list (including one decoded from a non-array JSON value) yields an empty
// slice rather than an error.
//
// Postcondition: the result is non-nil and len(result) == len(raw).
func MigrateInventory(raw []Item) []Item {
	out := make([]Item, 0, len(raw))
	for _, it := range raw {
		out = append(out, Migrate(it))
	}
	return out
}
