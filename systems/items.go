package systems

import (
	"github.com/pthm-cable/cellsoup/components"
)

// ItemParams holds EnergyItem lifecycle constants.
type ItemParams struct {
	DecaySeconds  float32
	DefaultAmount float32
	CollectRadius float32
}

// UpdateItem advances an item's decay timer. It returns true when the item has
// decayed and must be destroyed. A non-positive amount is reset to the default.
func UpdateItem(item *components.EnergyItem, dt float32, p ItemParams) bool {
	item.DecayElapsed += dt
	if item.CanDecay && item.DecayElapsed >= p.DecaySeconds {
		return true
	}
	if item.Amount <= 0 {
		item.Amount = p.DefaultAmount
	}
	return false
}

// NearestCollector finds the closest neighbor within radius accepted by canCollect.
// buf is scratch space and is returned for reuse.
func NearestCollector(idx SpatialIndex, buf []Neighbor, x, y, radius float32, canCollect func(Neighbor) bool) (Neighbor, []Neighbor, bool) {
	buf = idx.QueryRadiusInto(buf[:0], x, y, radius, noEntity)

	var best Neighbor
	found := false
	for _, n := range buf {
		if !canCollect(n) {
			continue
		}
		if !found || n.DistSq < best.DistSq {
			best = n
			found = true
		}
	}
	return best, buf, found
}
