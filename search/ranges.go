package search

// Compress merges candidate-grouped, pickup-ascending solutions into maximal runs.
// A run breaks when the candidate changes or two passing pickups are more than
// PickupStep apart.
func Compress(solutions []Solution) []Range {
	ranges := make([]Range, 0, len(solutions))

	for _, s := range solutions {
		ranges = append(ranges, Range{
			CandidateID: s.CandidateID,
			PickupMin:   s.Pickup,
			PickupMax:   s.Pickup,
		})
	}

	return MergeRanges(ranges)
}

// MergeRanges joins neighbouring ranges of the same candidate that touch at the
// step size. MergeRanges(MergeRanges(rs)) equals MergeRanges(rs).
func MergeRanges(ranges []Range) []Range {
	merged := make([]Range, 0, len(ranges))

	for _, r := range ranges {
		if n := len(merged); n > 0 {
			last := &merged[n-1]

			if last.CandidateID == r.CandidateID && r.PickupMin-last.PickupMax <= PickupStep {
				if r.PickupMax > last.PickupMax {
					last.PickupMax = r.PickupMax
				}

				continue
			}
		}

		merged = append(merged, r)
	}

	return merged
}
