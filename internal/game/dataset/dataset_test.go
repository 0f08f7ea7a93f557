package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletopkit/companion/internal/game/character"
	"github.com/tabletopkit/companion/internal/game/item"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	d := Empty()
	d.Characters = append(d.Characters, character.Character{
		ID: 1, Name: "Vera", HPCurrent: 9, HPMax: 10,
		Inventory: []item.Item{{Name: "Rope", Type: item.TypeTool, Slot: item.SlotNone}},
	})
	d.Locations = append(d.Locations, Location{ID: 2, Name: "Camp", IsActive: true})

	raw, err := d.Encode()
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, d, decoded)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)

	// Wrong shape for a collection fails the whole decode.
	_, err = Decode([]byte(`{"characters": "nope"}`))
	assert.Error(t, err)
}

func TestMaxIDAcrossCollections(t *testing.T) {
	d := Empty()
	assert.Equal(t, int64(0), d.MaxID())

	d.Characters = append(d.Characters, character.Character{ID: 3})
	d.Notes = append(d.Notes, Note{ID: 17})
	d.DiceRolls = append(d.DiceRolls, DiceRoll{ID: 9})
	assert.Equal(t, int64(17), d.MaxID())
}

func TestIDAllocator(t *testing.T) {
	d := Empty()
	d.Mobs = append(d.Mobs, Mob{ID: 41})

	a := NewIDAllocator(d)
	assert.Equal(t, int64(42), a.Next())
	assert.Equal(t, int64(43), a.Next())
}

func TestCharacterLookup(t *testing.T) {
	d := Empty()
	d.Characters = append(d.Characters, character.Character{ID: 5, Name: "Vera"})

	c, ok := d.Character(5)
	require.True(t, ok)
	assert.Equal(t, "Vera", c.Name)

	// The pointer aliases the dataset.
	c.HPCurrent = 3
	assert.Equal(t, 3, d.Characters[0].HPCurrent)

	_, ok = d.Character(99)
	assert.False(t, ok)
}

func TestLocationLookup(t *testing.T) {
	d := Empty()
	d.Locations = append(d.Locations, Location{ID: 7, Name: "Camp"})

	loc, ok := d.Location(7)
	require.True(t, ok)
	assert.Equal(t, "Camp", loc.Name)

	_, ok = d.Location(1)
	assert.False(t, ok)
}
