package utils

import (
	"strings"

	"greenpark/internal/db"
)

// poolName groups vehicle types that park in the same spaces: cars and
// SUVs share the car pool, every other type has its own.
func poolName(name string) string {
	name = strings.ToLower(name)
	if name == "suv" {
		return "car"
	}
	return name
}

// SpacePool returns the vehicle type whose vehicle_spaces row sizes the
// pool of vehicleTypeID, and every vehicle type id parking in that pool.
func SpacePool(types []db.VehicleType, vehicleTypeID int) (owner int, members []int) {
	var pool string
	for _, vt := range types {
		if vt.ID == vehicleTypeID {
			pool = poolName(vt.Name)
			break
		}
	}
	if pool == "" {
		return vehicleTypeID, []int{vehicleTypeID}
	}

	owner = vehicleTypeID
	for _, vt := range types {
		if poolName(vt.Name) != pool {
			continue
		}
		members = append(members, vt.ID)
		if strings.ToLower(vt.Name) == pool {
			owner = vt.ID
		}
	}
	return owner, members
}
