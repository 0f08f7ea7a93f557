package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/tabletopkit/companion/internal/game/character"
	"github.com/tabletopkit/companion/internal/game/dataset"
)

// defaultRollHistoryLimit bounds dice-roll listings when the caller gives
// no limit.
const defaultRollHistoryLimit = 50

// DashboardEntry is one character row on the master dashboard.
type DashboardEntry struct {
	Character    character.Character `json:"character"`
	LocationName string              `json:"location_name"`
	LastRoll     *dataset.DiceRoll   `json:"last_roll,omitempty"`
}

// Dashboard returns every character with its location name and most
// recent dice roll.
func (s *Service) Dashboard(ctx context.Context) ([]DashboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return nil, err
	}

	out := make([]DashboardEntry, 0, len(s.data.Characters))
	for _, c := range s.data.Characters {
		entry := DashboardEntry{Character: c.Clone(), LocationName: "Unknown"}
		if loc, ok := s.data.Location(c.LocationID); ok {
			entry.LocationName = loc.Name
		}
		for i := range s.data.DiceRolls {
			r := s.data.DiceRolls[i]
			if r.CharacterID != c.ID {
				continue
			}
			if entry.LastRoll == nil || r.CreatedAt >= entry.LastRoll.CreatedAt {
				roll := r
				entry.LastRoll = &roll
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// Players returns the player roster.
func (s *Service) Players(ctx context.Context) ([]dataset.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return nil, err
	}
	return append([]dataset.Player(nil), s.data.Players...), nil
}

// Characters returns all characters.
func (s *Service) Characters(ctx context.Context) ([]character.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return nil, err
	}
	out := make([]character.Character, 0, len(s.data.Characters))
	for _, c := range s.data.Characters {
		out = append(out, c.Clone())
	}
	return out, nil
}

// Locations returns all locations.
func (s *Service) Locations(ctx context.Context) ([]dataset.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return nil, err
	}
	return append([]dataset.Location(nil), s.data.Locations...), nil
}

// Items returns the master-authored item templates.
func (s *Service) Items(ctx context.Context) ([]dataset.ItemTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return nil, err
	}
	return append([]dataset.ItemTemplate(nil), s.data.Items...), nil
}

// Mobs returns spawned mobs, optionally filtered by location.
func (s *Service) Mobs(ctx context.Context, locationID *int64) ([]dataset.Mob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return nil, err
	}
	out := make([]dataset.Mob, 0, len(s.data.Mobs))
	for _, m := range s.data.Mobs {
		if locationID != nil && m.LocationID != *locationID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// DiceRolls returns the most recent rolls, newest first, with character
// names attached.
func (s *Service) DiceRolls(ctx context.Context, limit int) ([]dataset.DiceRoll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRollHistoryLimit
	}

	rolls := append([]dataset.DiceRoll(nil), s.data.DiceRolls...)
	sort.SliceStable(rolls, func(i, j int) bool {
		return rolls[i].CreatedAt > rolls[j].CreatedAt
	})
	if len(rolls) > limit {
		rolls = rolls[:limit]
	}
	for i := range rolls {
		if rolls[i].CharacterName != "" {
			continue
		}
		if c, ok := s.data.Character(rolls[i].CharacterID); ok {
			rolls[i].CharacterName = c.Name
		}
	}
	return rolls, nil
}

// CreateLocation adds a new location.
func (s *Service) CreateLocation(ctx context.Context, name, description string, tags []string) (dataset.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return dataset.Location{}, err
	}

	loc := dataset.Location{
		ID:          s.ids.Next(),
		Name:        name,
		Description: description,
		Tags:        tags,
		IsActive:    true,
		CreatedAt:   s.now().UnixMilli(),
	}
	s.data.Locations = append(s.data.Locations, loc)

	if err := s.saveLocked(ctx); err != nil {
		return dataset.Location{}, err
	}
	return loc, nil
}

// MoveCharacter relocates a character to the given location.
func (s *Service) MoveCharacter(ctx context.Context, characterID, locationID int64) (character.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return character.Character{}, err
	}

	c, ok := s.data.Character(characterID)
	if !ok {
		return character.Character{}, fmt.Errorf("%w: id %d", ErrCharacterNotFound, characterID)
	}
	c.LocationID = locationID

	if err := s.saveLocked(ctx); err != nil {
		return character.Character{}, err
	}
	return c.Clone(), nil
}

// AddNote records a master-to-player note.
func (s *Service) AddNote(ctx context.Context, characterID int64, text, visibility string) (dataset.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return dataset.Note{}, err
	}
	if visibility == "" {
		visibility = dataset.VisibilityTellAll
	}

	note := dataset.Note{
		ID:          s.ids.Next(),
		CharacterID: characterID,
		FromGM:      true,
		Text:        text,
		Visibility:  visibility,
		CreatedAt:   s.now().UnixMilli(),
	}
	s.data.Notes = append(s.data.Notes, note)

	if err := s.saveLocked(ctx); err != nil {
		return dataset.Note{}, err
	}
	return note, nil
}

// GiveItem grants an item template to a character via the legacy link
// collection. The template itself stays untouched.
func (s *Service) GiveItem(ctx context.Context, characterID, itemID int64, quantity int) (dataset.CharacterItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return dataset.CharacterItem{}, err
	}
	if quantity <= 0 {
		quantity = 1
	}

	ci := dataset.CharacterItem{
		ID:          s.ids.Next(),
		CharacterID: characterID,
		ItemID:      itemID,
		Quantity:    quantity,
		CreatedAt:   s.now().UnixMilli(),
	}
	s.data.CharacterItems = append(s.data.CharacterItems, ci)

	if err := s.saveLocked(ctx); err != nil {
		return dataset.CharacterItem{}, err
	}
	return ci, nil
}

// SpawnMob places a mob instance at a location.
func (s *Service) SpawnMob(ctx context.Context, mobID, locationID int64, rolledStats map[string]int, hpCurrent int) (dataset.Mob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return dataset.Mob{}, err
	}

	mob := dataset.Mob{
		ID:          s.ids.Next(),
		MobID:       mobID,
		LocationID:  locationID,
		RolledStats: rolledStats,
		HPCurrent:   hpCurrent,
		IsActive:    true,
		CreatedAt:   s.now().UnixMilli(),
	}
	s.data.Mobs = append(s.data.Mobs, mob)

	if err := s.saveLocked(ctx); err != nil {
		return dataset.Mob{}, err
	}
	return mob, nil
}

// Export serialises the working dataset.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return nil, err
	}
	return s.data.Encode()
}

// Import replaces the working dataset wholesale with the given document.
//
// Postcondition: on ErrInvalidImport the previous dataset is untouched.
func (s *Service) Import(ctx context.Context, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := dataset.Decode(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	migrated := dataset.Migrate(d)

	s.data = &migrated
	s.ids = dataset.NewIDAllocator(migrated)
	return s.saveLocked(ctx)
}

// Reset discards local session state. The next state is the authoritative
// dataset when one is published, otherwise an empty dataset.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx); err != nil {
		return fmt.Errorf("clearing local dataset: %w", err)
	}

	next := dataset.Empty()
	if auth, ok := s.fetchAuthoritative(ctx); ok {
		next = auth
	}
	s.data = &next
	s.ids = dataset.NewIDAllocator(next)
	return s.saveLocked(ctx)
}
