package gpx

import (
	"math"
	"strconv"

	"backend-lobotracks/internal/shared/geo"
)

// ComputeStats aggregates points in one forward pass. Extrema consider every
// point with an elevation; gain and loss only consider adjacent pairs where
// both points have one. Distance sums the haversine length of every adjacent
// pair and is rounded to 0.1 km once, at the end.
func ComputeStats(points []TrackPoint, waypointCount int) Stats {
	stats := Stats{
		PointCount:    len(points),
		WaypointCount: waypointCount,
	}

	var (
		minEle     = math.Inf(1)
		maxEle     = math.Inf(-1)
		gain, loss float64
		distKm     float64
	)
	for i, p := range points {
		if p.Ele != nil {
			minEle = math.Min(minEle, *p.Ele)
			maxEle = math.Max(maxEle, *p.Ele)
			if i > 0 && points[i-1].Ele != nil {
				diff := *p.Ele - *points[i-1].Ele
				if diff > 0 {
					gain += diff
				} else {
					loss -= diff
				}
			}
		}
		if i > 0 {
			prev := points[i-1]
			distKm += geo.HaversineKm(prev.Lat, prev.Lon, p.Lat, p.Lon)
		}
	}

	stats.DistanceKm = RoundTenth(distKm)
	if !math.IsInf(minEle, 1) {
		stats.MinEleM = roundMeters(minEle)
		stats.MaxEleM = roundMeters(maxEle)
		stats.ElevGainM = roundMeters(gain)
		stats.ElevLossM = roundMeters(loss)
	}
	return stats
}

// roundMeters rounds half up, so -2.5 becomes -2 rather than -3.
func roundMeters(v float64) *int {
	r := int(math.Floor(v + 0.5))
	return &r
}

// RoundTenth rounds v to one decimal from its exact binary value, so 0.15
// (stored as 0.1499...) becomes 0.1. Exact halves round away from zero.
func RoundTenth(v float64) float64 {
	if q := v * 4; q == math.Trunc(q) && math.Mod(q, 2) != 0 {
		return math.Copysign(math.Ceil(math.Abs(v)*10)/10, v)
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
