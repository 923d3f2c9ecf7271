// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package meshio

import "testing"

func TestRegistryLookup(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	if _, ok := r.Lookup(".mz3"); ok {
		t.Fatal("Lookup on an empty registry succeeded, want false")
	}

	type marker struct{}
	r.Register(".mz3", func() any { return &marker{} })

	factory, ok := r.Lookup(".mz3")
	if !ok {
		t.Fatal("Lookup(\".mz3\") = false after Register, want true")
	}
	if _, ok := factory().(*marker); !ok {
		t.Error("factory() did not return a *marker")
	}
}

func TestRegistryReregisterReplaces(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	r.Register(".mz3", func() any { return "first" })
	r.Register(".mz3", func() any { return "second" })

	factory, ok := r.Lookup(".mz3")
	if !ok {
		t.Fatal("Lookup(\".mz3\") = false, want true")
	}
	if got := factory(); got != "second" {
		t.Errorf("factory() = %v, want %q", got, "second")
	}
}
