// Package service owns the working game dataset.
//
// The original companion app kept one process-wide mutable dataset; here
// all state is held by a single Service with explicit operations. Every
// operation re-runs the authoritative/local reconciliation first (the
// merge is idempotent and safe to repeat), mutates in memory, and writes
// the whole dataset back — last writer wins, matching the one-session
// model.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tabletopkit/companion/internal/game/character"
	"github.com/tabletopkit/companion/internal/game/dataset"
	"github.com/tabletopkit/companion/internal/game/dice"
	"github.com/tabletopkit/companion/internal/game/effect"
	"github.com/tabletopkit/companion/internal/game/item"
	"github.com/tabletopkit/companion/internal/game/merge"
	"github.com/tabletopkit/companion/internal/game/resolve"
	"github.com/tabletopkit/companion/internal/game/stats"
	"github.com/tabletopkit/companion/internal/source"
	"github.com/tabletopkit/companion/internal/store"
)

// ErrCharacterNotFound is returned when no character has the requested id.
var ErrCharacterNotFound = errors.New("character not found")

// ErrInvalidImport is returned when an imported dataset is not valid JSON
// in the expected shape. The previous working dataset is kept untouched.
var ErrInvalidImport = errors.New("invalid dataset file")

// Service is the single owner of the working dataset.
type Service struct {
	mu       sync.Mutex
	store    store.Store
	source   source.Source // nil when no authoritative dataset is published
	resolver *resolve.Resolver
	roller   *dice.Roller
	logger   *zap.Logger
	now      func() time.Time

	data *dataset.GameData
	ids  *dataset.IDAllocator
}

// New creates a Service backed by the given store and optional
// authoritative source.
//
// Precondition: st, roller, and logger must be non-nil; src may be nil.
func New(st store.Store, src source.Source, roller *dice.Roller, logger *zap.Logger) *Service {
	return &Service{
		store:    st,
		source:   src,
		resolver: resolve.NewResolver(logger),
		roller:   roller,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service's time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.resolver.WithClock(now)
	return s
}

// Sync reconciles the authoritative dataset with local session state and
// persists the result. Safe to call redundantly: the merge is idempotent.
func (s *Service) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncLocked(ctx)
}

func (s *Service) syncLocked(ctx context.Context) error {
	local := s.loadLocal(ctx)
	auth, haveAuth := s.fetchAuthoritative(ctx)

	var merged dataset.GameData
	switch {
	case haveAuth:
		merged = merge.Dataset(auth, local)
	case local != nil:
		merged = *local
	default:
		merged = dataset.Empty()
	}

	s.data = &merged
	s.ids = dataset.NewIDAllocator(merged)
	return s.saveLocked(ctx)
}

// loadLocal reads and migrates the locally persisted dataset. A missing
// or unreadable blob yields nil: corrupt local state must never block a
// fresh adoption of the authoritative dataset.
func (s *Service) loadLocal(ctx context.Context) *dataset.GameData {
	raw, ok, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("loading local dataset", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	d, err := dataset.Decode(raw)
	if err != nil {
		s.logger.Warn("decoding local dataset", zap.Error(err))
		return nil
	}
	migrated := dataset.Migrate(d)
	return &migrated
}

// fetchAuthoritative retrieves and migrates the published dataset. Fetch
// and decode failures are tolerated: the session continues on local state.
func (s *Service) fetchAuthoritative(ctx context.Context) (dataset.GameData, bool) {
	if s.source == nil {
		return dataset.GameData{}, false
	}
	raw, ok, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Warn("fetching authoritative dataset", zap.Error(err))
		return dataset.GameData{}, false
	}
	if !ok {
		return dataset.GameData{}, false
	}
	d, err := dataset.Decode(raw)
	if err != nil {
		s.logger.Warn("decoding authoritative dataset", zap.Error(err))
		return dataset.GameData{}, false
	}
	return dataset.Migrate(d), true
}

func (s *Service) saveLocked(ctx context.Context) error {
	raw, err := s.data.Encode()
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, raw); err != nil {
		return fmt.Errorf("persisting dataset: %w", err)
	}
	return nil
}

// CharacterView is a character read enriched for display.
type CharacterView struct {
	Character    character.Character `json:"character"`
	Location     *dataset.Location   `json:"location,omitempty"`
	LocationName string              `json:"location_name,omitempty"`
	Inventory    []item.Item         `json:"inventory"`
	Derived      stats.Derived       `json:"derived_stats"`
	Notes        []dataset.Note      `json:"notes"`
}

// GetCharacter returns a character with location, inventory, derived
// stats, and notes. Falls back to the legacy character_items join for
// datasets predating per-character inventories.
func (s *Service) GetCharacter(ctx context.Context, id int64) (CharacterView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return CharacterView{}, err
	}

	c, ok := s.data.Character(id)
	if !ok {
		return CharacterView{}, fmt.Errorf("%w: id %d", ErrCharacterNotFound, id)
	}

	view := CharacterView{
		Character: c.Clone(),
		Inventory: s.inventoryFor(*c),
		Notes:     s.notesFor(id),
	}
	view.Derived = stats.Compute(*c, view.Inventory)
	if loc, ok := s.data.Location(c.LocationID); ok {
		l := *loc
		view.Location = &l
		view.LocationName = l.Name
	}
	return view, nil
}

// inventoryFor returns the character's inventory, or the legacy
// character_items/items join when the character predates inline
// inventories.
func (s *Service) inventoryFor(c character.Character) []item.Item {
	if c.Inventory != nil {
		return c.Inventory
	}
	var out []item.Item
	for _, ci := range s.data.CharacterItems {
		if ci.CharacterID != c.ID {
			continue
		}
		for _, tpl := range s.data.Items {
			if tpl.ID == ci.ItemID {
				out = append(out, item.Migrate(tpl.Item))
				break
			}
		}
	}
	return out
}

func (s *Service) notesFor(characterID int64) []dataset.Note {
	out := make([]dataset.Note, 0)
	for _, n := range s.data.Notes {
		if n.CharacterID == characterID {
			out = append(out, n)
		}
	}
	return out
}

// EquipResult is the outcome of an equip toggle.
type EquipResult struct {
	Character character.Character `json:"character"`
	Item      item.Item           `json:"item"`
	Derived   stats.Derived       `json:"derived_stats"`
}

// EquipItem toggles the equipped state of the named item, enforcing the
// one-item-per-slot invariant, and re-clamps current HP against the new
// effective maximum.
func (s *Service) EquipItem(ctx context.Context, characterID int64, itemName string) (EquipResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return EquipResult{}, err
	}

	c, ok := s.data.Character(characterID)
	if !ok {
		return EquipResult{}, fmt.Errorf("%w: id %d", ErrCharacterNotFound, characterID)
	}

	toggled, err := s.resolver.ApplyEquipToggle(c, itemName)
	if err != nil {
		return EquipResult{}, err
	}

	// Equipment with HP bonuses may have lowered the effective maximum.
	derived := stats.Compute(*c, c.Inventory)
	c.HPCurrent = stats.ClampHP(*c, derived.HPMaxTotal)

	if err := s.saveLocked(ctx); err != nil {
		return EquipResult{}, err
	}
	return EquipResult{Character: c.Clone(), Item: *toggled, Derived: derived}, nil
}

// UseResult is the outcome of a use-effect resolution.
type UseResult struct {
	Log       dataset.ItemUseLog  `json:"log"`
	Character character.Character `json:"character"`
}

// UseItem parses the named item's use-effect string and applies the
// resulting mutation. Unknown or unparseable effects mutate nothing but
// are still audited.
func (s *Service) UseItem(ctx context.Context, characterID int64, itemName string, uc resolve.UseContext) (UseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return UseResult{}, err
	}

	c, ok := s.data.Character(characterID)
	if !ok {
		return UseResult{}, fmt.Errorf("%w: id %d", ErrCharacterNotFound, characterID)
	}
	it, ok := c.FindItem(itemName)
	if !ok {
		return UseResult{}, fmt.Errorf("%w: %q", resolve.ErrItemNotFound, itemName)
	}

	parsed := effect.Parse(it.UseEffect)
	entry := s.resolver.ApplyUseEffect(s.data, s.ids, c, it.Name, parsed, uc)

	if err := s.saveLocked(ctx); err != nil {
		return UseResult{}, err
	}
	return UseResult{Log: *entry, Character: c.Clone()}, nil
}

// VehicleResult is the outcome of a vehicle action.
type VehicleResult struct {
	Event   dataset.VehicleEvent `json:"event"`
	Vehicle item.Item            `json:"vehicle"`
}

// VehicleAction performs a drive, taunt, refuel, or speed toggle on the
// named vehicle.
func (s *Service) VehicleAction(ctx context.Context, characterID int64, vehicleName string, action resolve.VehicleAction, amount int) (VehicleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return VehicleResult{}, err
	}

	c, ok := s.data.Character(characterID)
	if !ok {
		return VehicleResult{}, fmt.Errorf("%w: id %d", ErrCharacterNotFound, characterID)
	}

	event, err := s.resolver.ApplyVehicleAction(s.data, s.ids, c, vehicleName, action, amount)
	if err != nil {
		return VehicleResult{}, err
	}

	vehicle, _ := c.FindItem(vehicleName)
	if err := s.saveLocked(ctx); err != nil {
		return VehicleResult{}, err
	}
	return VehicleResult{Event: *event, Vehicle: *vehicle}, nil
}

// RollDice rolls the given dice expression for a character and records
// the result.
func (s *Service) RollDice(ctx context.Context, characterID int64, diceType string, rollCtx map[string]any) (dataset.DiceRoll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return dataset.DiceRoll{}, err
	}

	roll := dataset.DiceRoll{
		ID:          s.ids.Next(),
		CharacterID: characterID,
		Type:        diceType,
		Value:       s.roller.RollExpr(diceType),
		Context:     rollCtx,
		CreatedAt:   s.now().UnixMilli(),
	}
	if c, ok := s.data.Character(characterID); ok {
		roll.CharacterName = c.Name
	}
	s.data.DiceRolls = append(s.data.DiceRolls, roll)

	if err := s.saveLocked(ctx); err != nil {
		return dataset.DiceRoll{}, err
	}
	return roll, nil
}

// UpdateCharacter overwrites character fields from a partial JSON patch.
// Master edit path: fields present in the patch replace the stored values.
func (s *Service) UpdateCharacter(ctx context.Context, id int64, patch []byte) (character.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return character.Character{}, err
	}

	c, ok := s.data.Character(id)
	if !ok {
		return character.Character{}, fmt.Errorf("%w: id %d", ErrCharacterNotFound, id)
	}
	if err := json.Unmarshal(patch, c); err != nil {
		return character.Character{}, fmt.Errorf("decoding character patch: %w", err)
	}
	c.ID = id // ids are assigned by the collection, never by patches

	if err := s.saveLocked(ctx); err != nil {
		return character.Character{}, err
	}
	return c.Clone(), nil
}
