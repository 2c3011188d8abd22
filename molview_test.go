/*
 * molview_test.go, part of molview.
 *
 *
 * Copyright 2024 Camilo Mir
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package molview

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	v3 "github.com/camilomir/molview/v3"
)

func TestNewStructure(Te *testing.T) {
	coords, err := v3.NewMatrix([]float64{0, 0, 0, 0, 0, 0.74})
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := NewStructure([]string{"H", "H"}, coords, "hydrogen"); err != nil {
		Te.Error(err)
	}
	if _, err := NewStructure([]string{"H"}, coords, ""); err == nil {
		Te.Error("expected an error for mismatched symbols/coordinates")
	}
	if _, err := NewStructure(nil, coords, ""); err == nil {
		Te.Error("expected an error for nil elements")
	}
}

func TestSetAtom(Te *testing.T) {
	s, err := XYZReadString(waterXYZ)
	if err != nil {
		Te.Fatal(err)
	}
	if err := s.SetAtom(2, "D", 1.0, 2.0, 3.0); err != nil {
		Te.Fatal(err)
	}
	if s.Elements[2] != "D" || s.Coords.At(2, 1) != 2.0 {
		Te.Errorf("edit not applied: %v %f", s.Elements[2], s.Coords.At(2, 1))
	}
	if err := s.SetAtom(3, "H", 0, 0, 0); err == nil {
		Te.Error("expected an error for an out-of-range atom")
	}
	lines := strings.Split(s.XYZString(), "\n")
	if lines[4] != "D 1.000000 2.000000 3.000000" {
		Te.Errorf("re-serialization after edit: %q", lines[4])
	}
}

func TestCopyIsDeep(Te *testing.T) {
	s, err := XYZReadString(waterXYZ)
	if err != nil {
		Te.Fatal(err)
	}
	c := s.Copy()
	c.SetAtom(0, "N", 9, 9, 9)
	if s.Elements[0] != "O" || s.Coords.At(0, 0) != 0 {
		Te.Error("editing a copy changed the original")
	}
}

func TestMasses(Te *testing.T) {
	s, err := XYZReadString(waterXYZ)
	if err != nil {
		Te.Fatal(err)
	}
	masses, err := s.Masses()
	if err != nil {
		Te.Fatal(err)
	}
	if masses[0] != 16.00 || masses[1] != 1.0 {
		Te.Errorf("got masses %v", masses)
	}
	s.Elements[1] = "Xx"
	if _, err := s.Masses(); err == nil {
		Te.Error("expected an error for an unknown element")
	}
}

func TestMemo(Te *testing.T) {
	calls := 0
	cache := NewMemo[string]()
	f := func() (string, error) {
		calls++
		return "result", nil
	}
	for i := 0; i < 3; i++ {
		r, err := cache.Do("same input", f)
		if err != nil || r != "result" {
			Te.Fatalf("got %q, %v", r, err)
		}
	}
	if calls != 1 {
		Te.Errorf("computed %d times for identical input, want 1", calls)
	}
	cache.Do("other input", f)
	if calls != 2 {
		Te.Errorf("computed %d times for two inputs, want 2", calls)
	}
	if cache.Len() != 2 {
		Te.Errorf("cache holds %d results, want 2", cache.Len())
	}
}

func TestMemoIndependentKeys(Te *testing.T) {
	cache := NewMemo[string]()
	started := make(chan struct{})
	release := make(chan struct{})
	go cache.Do("slow", func() (string, error) {
		close(started)
		<-release
		return "slow", nil
	})
	<-started
	//a different key must not wait behind the running computation
	done := make(chan struct{})
	go func() {
		cache.Do("fast", func() (string, error) { return "fast", nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		Te.Fatal("an independent key waited behind a running computation")
	}
	close(release)
}

func TestMemoSingleFlight(Te *testing.T) {
	cache := NewMemo[string]()
	var calls int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := cache.Do("key", func() (string, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(20 * time.Millisecond)
				return "result", nil
			})
			if err != nil || r != "result" {
				Te.Errorf("got %q, %v", r, err)
			}
		}()
	}
	wg.Wait()
	if n := atomic.LoadInt32(&calls); n != 1 {
		Te.Errorf("computed %d times for concurrent identical input, want 1", n)
	}
}

func TestMemoDoesNotCacheFailures(Te *testing.T) {
	calls := 0
	cache := NewMemo[string]()
	fail := func() (string, error) {
		calls++
		return "", fmt.Errorf("transient failure %d", calls)
	}
	cache.Do("key", fail)
	cache.Do("key", fail)
	if calls != 2 {
		Te.Errorf("a failed computation was cached: %d calls, want 2", calls)
	}
}
