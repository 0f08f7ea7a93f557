package resolve

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tabletopkit/companion/internal/game/character"
	"github.com/tabletopkit/companion/internal/game/dataset"
	"github.com/tabletopkit/companion/internal/game/item"
)

// VehicleAction is one of the four vehicle operations.
type VehicleAction string

const (
	// ActionDrive consumes fuel: 1 unit in normal mode, 2 in fast mode.
	ActionDrive VehicleAction = "drive"
	// ActionTaunt draws attention without mutating vehicle state.
	ActionTaunt VehicleAction = "taunt"
	// ActionRefuel adds fuel capped at the tank maximum.
	ActionRefuel VehicleAction = "refuel"
	// ActionSpeedToggle flips between normal and fast mode.
	ActionSpeedToggle VehicleAction = "speed_toggle"
)

// DefaultRefuelAmount is used when a refuel request names no amount.
const DefaultRefuelAmount = 10

// driveFuelCost returns the fuel consumed by one drive in the given mode.
func driveFuelCost(mode item.SpeedMode) int {
	if mode == item.SpeedFast {
		return 2
	}
	return 1
}

// ApplyVehicleAction performs a vehicle action on the named vehicle in the
// character's inventory and appends one vehicle-event log entry.
//
// Driving with insufficient fuel is not an error: it is a logged no-op
// that leaves fuel unchanged. An unknown vehicle name (or a non-vehicle
// item) returns ErrVehicleNotFound with state untouched.
//
// Postcondition: exactly one VehicleEvent is appended on success;
// fuel_current never drops below zero or exceeds fuel_max.
func (r *Resolver) ApplyVehicleAction(
	ds *dataset.GameData,
	ids *dataset.IDAllocator,
	c *character.Character,
	vehicleName string,
	action VehicleAction,
	amount int,
) (*dataset.VehicleEvent, error) {
	it, ok := c.FindItem(vehicleName)
	if !ok || !it.IsVehicle() {
		return nil, fmt.Errorf("%w: %q", ErrVehicleNotFound, vehicleName)
	}
	v := it.Vehicle

	var details string
	switch action {
	case ActionDrive:
		cost := driveFuelCost(v.SpeedMode)
		if v.FuelCurrent >= cost {
			v.FuelCurrent -= cost
			details = fmt.Sprintf("Drove (mode: %s, fuel: -%d)", v.SpeedMode, cost)
		} else {
			details = "Insufficient fuel"
		}

	case ActionTaunt:
		details = fmt.Sprintf("Drew attention (radius: %dm, noise level: %d)", v.TauntRadius, v.NoiseLevel)

	case ActionRefuel:
		if amount <= 0 {
			amount = DefaultRefuelAmount
		}
		v.FuelCurrent += amount
		if v.FuelCurrent > v.FuelMax {
			v.FuelCurrent = v.FuelMax
		}
		details = fmt.Sprintf("Refueled: +%d fuel", amount)

	case ActionSpeedToggle:
		if v.SpeedMode == item.SpeedNormal {
			v.SpeedMode = item.SpeedFast
		} else {
			v.SpeedMode = item.SpeedNormal
		}
		details = fmt.Sprintf("Speed mode changed: %s", v.SpeedMode)

	default:
		return nil, fmt.Errorf("unknown vehicle action %q", action)
	}

	event := dataset.VehicleEvent{
		ID:            ids.Next(),
		CharacterID:   c.ID,
		CharacterName: c.Name,
		VehicleName:   it.Name,
		EventType:     string(action),
		Details:       details,
		Timestamp:     r.now().UnixMilli(),
	}
	ds.VehicleEvents = append(ds.VehicleEvents, event)

	r.logger.Info("vehicle action",
		zap.Int64("character_id", c.ID),
		zap.String("vehicle", it.Name),
		zap.String("action", string(action)),
		zap.String("details", details),
	)
	return &ds.VehicleEvents[len(ds.VehicleEvents)-1], nil
}
