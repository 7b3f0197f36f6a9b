package geometry

// RegionMap labels every tile of a width x height grid with the id of the
// connected area it belongs to. Impassable tiles keep the id -1.
type RegionMap struct {
	Width         int
	Height        int
	TileRegionIDs []int
	RegionsCount  int
}

func (rm RegionMap) RegionAt(p Point) int {
	if p.X < 0 || p.Y < 0 || p.X >= rm.Width || p.Y >= rm.Height {
		return -1
	}
	return rm.TileRegionIDs[p.Y*rm.Width+p.X]
}

// BuildRegionMap flood-fills the grid over four-connected neighbours,
// starting a new region at every passable tile not yet labelled.
func BuildRegionMap(w, h int, passable func(p Point) bool) RegionMap {
	total := w * h
	tileRegionIDs := make([]int, total)
	for i := range tileRegionIDs {
		tileRegionIDs[i] = -1
	}

	regionID := 0
	queue := make([]Point, 0, total)

	for y := range h {
		for x := range w {
			idx := y*w + x
			start := Point{X: x, Y: y}
			if tileRegionIDs[idx] != -1 || !passable(start) {
				continue
			}
			tileRegionIDs[idx] = regionID
			queue = queue[:0]
			queue = append(queue, start)

			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]

				for _, n := range cur.Neighbors4() {
					if n.X < 0 || n.Y < 0 || n.X >= w || n.Y >= h {
						continue
					}
					nidx := n.Y*w + n.X
					if tileRegionIDs[nidx] != -1 || !passable(n) {
						continue
					}
					tileRegionIDs[nidx] = regionID
					queue = append(queue, n)
				}
			}
			regionID++
		}
	}

	return RegionMap{Width: w, Height: h, TileRegionIDs: tileRegionIDs, RegionsCount: regionID}
}
