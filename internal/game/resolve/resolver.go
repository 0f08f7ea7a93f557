// Package resolve applies item-driven state mutations: equip toggles,
// use-effect resolution, and vehicle actions.
//
// Every use-effect and vehicle call appends exactly one audit-log entry,
// even when the effect type is unrecognised or the action is a logged
// no-op. Audit logs are append-only and never mutated.
package resolve

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tabletopkit/companion/internal/game/character"
	"github.com/tabletopkit/companion/internal/game/dataset"
	"github.com/tabletopkit/companion/internal/game/effect"
	"github.com/tabletopkit/companion/internal/game/item"
	"github.com/tabletopkit/companion/internal/game/status"
)

// ErrItemNotFound is returned when a named item is absent from a
// character's inventory.
var ErrItemNotFound = errors.New("item not found")

// ErrVehicleNotFound is returned when a named vehicle is absent or the
// item is not a vehicle.
var ErrVehicleNotFound = errors.New("vehicle not found")

// Resolver applies parsed effects and vehicle actions to game state.
type Resolver struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewResolver creates a Resolver that timestamps mutations with the wall
// clock.
//
// Precondition: logger must be non-nil.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger, now: time.Now}
}

// WithClock overrides the resolver's time source. Test hook.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// ApplyEquipToggle flips the equipped state of the named item. When the
// item is being equipped into a real slot, every other equipped item in
// that slot is unequipped first, enforcing the one-item-per-slot
// invariant.
//
// Postcondition: at most one equipped item per non-"none" slot; no other
// item's equip state changes. Returns ErrItemNotFound and leaves the
// character untouched when the name does not match.
func (r *Resolver) ApplyEquipToggle(c *character.Character, itemName string) (*item.Item, error) {
	it, ok := c.FindItem(itemName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrItemNotFound, itemName)
	}

	if !it.Equipped && it.Slot != item.SlotNone {
		for i := range c.Inventory {
			other := &c.Inventory[i]
			if other.Equipped && other.Slot == it.Slot && other.Name != it.Name {
				other.Equipped = false
			}
		}
	}
	it.Equipped = !it.Equipped

	r.logger.Debug("equip toggled",
		zap.Int64("character_id", c.ID),
		zap.String("item", it.Name),
		zap.Bool("equipped", it.Equipped),
	)
	return it, nil
}

// UseContext carries caller-supplied context for a use-effect resolution.
type UseContext struct {
	// TargetID and TargetName identify an optional target.
	TargetID   int64
	TargetName string
	// Result is an externally adjudicated outcome embedded in signal
	// notes; empty means the master has not answered yet.
	Result string
}

// ApplyUseEffect resolves a parsed use effect against a character,
// mutating character and world state according to the effect kind and
// appending one audit-log entry regardless of outcome. A nil effect (an
// item without a parseable use effect) mutates nothing beyond the log.
//
// Postcondition: exactly one ItemUseLog entry is appended to ds per call.
func (r *Resolver) ApplyUseEffect(
	ds *dataset.GameData,
	ids *dataset.IDAllocator,
	c *character.Character,
	itemName string,
	eff *effect.ParsedEffect,
	uc UseContext,
) *dataset.ItemUseLog {
	now := r.now()

	entry := dataset.ItemUseLog{
		ID:            ids.Next(),
		CharacterID:   c.ID,
		CharacterName: c.Name,
		ItemName:      itemName,
		EffectParams:  map[string]string{},
		TargetID:      uc.TargetID,
		TargetName:    uc.TargetName,
		Timestamp:     now.UnixMilli(),
	}
	if eff != nil {
		entry.EffectType = eff.Tag
		for k, v := range eff.Params {
			entry.EffectParams[k] = v
		}
	}
	ds.ItemUseLogs = append(ds.ItemUseLogs, entry)

	if eff != nil {
		r.mutateForEffect(ds, ids, c, itemName, eff, uc, now)
	}

	r.logger.Info("item used",
		zap.Int64("character_id", c.ID),
		zap.String("item", itemName),
		zap.String("effect_type", entry.EffectType),
	)
	last := &ds.ItemUseLogs[len(ds.ItemUseLogs)-1]
	return last
}

// mutateForEffect dispatches on the closed effect kind set. Unknown kinds
// deliberately mutate nothing: the audit log already recorded the attempt
// and the master adjudicates from there.
func (r *Resolver) mutateForEffect(
	ds *dataset.GameData,
	ids *dataset.IDAllocator,
	c *character.Character,
	itemName string,
	eff *effect.ParsedEffect,
	uc UseContext,
	now time.Time,
) {
	switch eff.Kind {
	case effect.KindAdvantageNextRoll:
		c.StatusEffects = append(c.StatusEffects,
			status.New("advantage", status.DurationNextRoll, itemName, now))

	case effect.KindRevealClue:
		ds.Notes = append(ds.Notes, dataset.Note{
			ID:          ids.Next(),
			CharacterID: c.ID,
			FromGM:      true,
			Text:        fmt.Sprintf("The master will provide a clue (using %s)", itemName),
			Visibility:  dataset.VisibilityTellAll,
			CreatedAt:   now.UnixMilli(),
		})

	case effect.KindResist:
		resistType := eff.Params["type"]
		if resistType == "" {
			resistType = "Fear"
		}
		c.StatusEffects = append(c.StatusEffects,
			status.New("resist_"+strings.ToLower(resistType), status.DurationScene, itemName, now))

	case effect.KindEscapeWindow:
		c.StatusEffects = append(c.StatusEffects,
			status.New("escape_available", status.DurationScene, itemName, now))

	case effect.KindSignalPing:
		result := uc.Result
		if result == "" {
			result = "awaiting the master"
		}
		ds.Notes = append(ds.Notes, dataset.Note{
			ID:          ids.Next(),
			CharacterID: c.ID,
			FromGM:      true,
			Text:        fmt.Sprintf("Signal sent (%s). Result: %s", itemName, result),
			Visibility:  dataset.VisibilityTellAll,
			CreatedAt:   now.UnixMilli(),
		})

	case effect.KindDebuffTarget, effect.KindUnknown:
		// Master adjudicated; the audit entry is the whole outcome.
	}
}
