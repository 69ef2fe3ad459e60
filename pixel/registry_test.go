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

import "testing"

func TestCompileRegistersAndCloseUnregisters(t *testing.T) {
	before := len(ListChains())

	cc, err := Compile(ImageSource(0))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	after := ListChains()
	if len(after) != before+1 {
		t.Fatalf("expected %d live chains, got %d", before+1, len(after))
	}
	found := false
	for _, info := range after {
		if info.ID == cc.ID {
			found = true
			if info.NumInputs != 1 {
				t.Fatalf("expected NumInputs 1, got %d", info.NumInputs)
			}
		}
	}
	if !found {
		t.Fatal("compiled chain missing from registry")
	}

	cc.Close()
	if len(ListChains()) != before {
		t.Fatalf("expected %d live chains after Close, got %d", before, len(ListChains()))
	}
}

func TestPresetLookup(t *testing.T) {
	if _, ok := LookupPreset("sobel-magnitude"); !ok {
		t.Fatal("expected sobel-magnitude preset to be registered")
	}
	if _, ok := LookupPreset("does-not-exist"); ok {
		t.Fatal("expected lookup of an unknown preset to fail")
	}
	names := PresetNames()
	if len(names) != len(presetRegistry) {
		t.Fatalf("expected %d names, got %d", len(presetRegistry), len(names))
	}
}
