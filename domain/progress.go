package domain

import "math"

// ComputeProgress returns the share of completed tasks as a whole percentage in
// [0, 100]. An empty list is 0% complete.
func ComputeProgress(tasks []Task) int {
	total := len(tasks)
	if total == 0 {
		return 0
	}
	completed := 0
	for i := range tasks {
		if tasks[i].Completed {
			completed++
		}
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
