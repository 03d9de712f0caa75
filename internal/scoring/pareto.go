package scoring

// ParetoPoint is a candidate reduced to the two dimensions the final ranking
// treats as hard evidence. Higher is better on both.
type ParetoPoint struct {
	ID          string  `json:"id"`
	SurveyScore float64 `json:"survey_score"`
	WinCount    int     `json:"win_count"`
}

// ComputeFrontier returns the Pareto-optimal points from the input set.
// A point is dominated if another point is >= on both dimensions and strictly
// better on at least one.
func ComputeFrontier(points []ParetoPoint) []ParetoPoint {
	if len(points) <= 1 {
		return points
	}
	layers := ComputeLayers(points)
	var frontier []ParetoPoint
	for i, l := range layers {
		if l == 0 {
			frontier = append(frontier, points[i])
		}
	}
	return frontier
}

// ComputeLayers peels successive Pareto frontiers and returns the 0-based layer
// of every point, aligned with the input. If a dominates b, b always lands in
// a later layer than a.
// O(n^2) per layer, fine for pool sizes.
func ComputeLayers(points []ParetoPoint) []int {
	layers := make([]int, len(points))
	remaining := make([]int, len(points))
	for i := range points {
		remaining[i] = i
	}

	for layer := 0; len(remaining) > 0; layer++ {
		var next []int
		for _, i := range remaining {
			dominated := false
			for _, j := range remaining {
				if i != j && dominates(points[j], points[i]) {
					dominated = true
					break
				}
			}
			if dominated {
				next = append(next, i)
			} else {
				layers[i] = layer
			}
		}
		remaining = next
	}
	return layers
}

// dominates returns true if a dominates b.
func dominates(a, b ParetoPoint) bool {
	if a.SurveyScore < b.SurveyScore || a.WinCount < b.WinCount {
		return false
	}
	return a.SurveyScore > b.SurveyScore || a.WinCount > b.WinCount
}
