/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package pixel

import "sync/atomic"

// Metrics are a handful of atomic counters, much simpler than a server's
// dashboard metrics: this package has no requests-per-second or CPU
// sampler to run, just two lifetime totals the CLI's --stats flag prints.
var (
	totalCompiles int64
	totalRuns     int64
)

func metricsRecordCompile() { atomic.AddInt64(&totalCompiles, 1) }
func metricsRecordRun()     { atomic.AddInt64(&totalRuns, 1) }

// MetricsSnapshot is a point-in-time read of the package's lifetime
// counters.
type MetricsSnapshot struct {
	TotalCompiles int64
	TotalRuns     int64
	LiveChains    int
}

// Metrics returns the current counters alongside the live chain count from
// the registry.
func Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalCompiles: atomic.LoadInt64(&totalCompiles),
		TotalRuns:     atomic.LoadInt64(&totalRuns),
		LiveChains:    len(ListChains()),
	}
}
