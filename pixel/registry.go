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

import (
	"sync"

	"github.com/google/btree"
	"github.com/google/uuid"
)

// chainRecord is the btree.Item stored per live CompiledChain — ordered by
// ID so ListChains reports chains in a stable, deterministic order for the
// CLI's --stats output rather than map iteration order.
type chainRecord struct {
	id        uuid.UUID
	numInputs int
	native    bool
}

func (r chainRecord) Less(than btree.Item) bool {
	other := than.(chainRecord)
	return lessUUID(r.id, other.id)
}

func lessUUID(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

var (
	registryMu sync.Mutex
	registry   = btree.New(16)
)

func registerChain(cc *CompiledChain) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry.ReplaceOrInsert(chainRecord{
		id:        cc.ID,
		numInputs: cc.numInputs,
		native:    !cc.prog.interpreted,
	})
	metricsRecordCompile()
}

func unregisterChain(id uuid.UUID) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry.Delete(chainRecord{id: id})
}

// ChainInfo is a point-in-time diagnostic summary of one live CompiledChain.
type ChainInfo struct {
	ID        uuid.UUID
	NumInputs int
	Native    bool
}

// ListChains returns every currently live (not yet Closed) CompiledChain,
// ordered by ID. Intended for CLI/diagnostic use, not the hot path.
func ListChains() []ChainInfo {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]ChainInfo, 0, registry.Len())
	registry.Ascend(func(item btree.Item) bool {
		r := item.(chainRecord)
		out = append(out, ChainInfo{ID: r.id, NumInputs: r.numInputs, Native: r.native})
		return true
	})
	return out
}
