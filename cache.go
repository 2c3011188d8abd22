/*
 * cache.go, part of molview.
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

import "sync"

//Memo caches the results of a pure computation keyed by its exact input
//text. Inputs are immutable text so no invalidation is ever needed. Only
//successful results are kept: a failed computation must stay re-triggerable.
type Memo[T any] struct {
	mu      sync.Mutex
	results map[string]T
	running map[string]*inflight[T]
}

//inflight is a computation in progress. done is closed, after r and err
//are set, when the computation finishes.
type inflight[T any] struct {
	done chan struct{}
	r    T
	err  error
}

//NewMemo returns an empty cache.
func NewMemo[T any]() *Memo[T] {
	return &Memo[T]{
		results: make(map[string]T),
		running: make(map[string]*inflight[T]),
	}
}

//Do returns the cached result for key, or runs f, caches its result on
//success, and returns it. Concurrent calls with the same key compute f only
//once and all receive its result; calls with different keys never wait on
//each other. The lock guards only the maps, never a run of f.
func (M *Memo[T]) Do(key string, f func() (T, error)) (T, error) {
	M.mu.Lock()
	if r, ok := M.results[key]; ok {
		M.mu.Unlock()
		return r, nil
	}
	if fl, ok := M.running[key]; ok {
		M.mu.Unlock()
		<-fl.done
		return fl.r, fl.err
	}
	fl := &inflight[T]{done: make(chan struct{})}
	M.running[key] = fl
	M.mu.Unlock()

	fl.r, fl.err = f()

	M.mu.Lock()
	if fl.err == nil {
		M.results[key] = fl.r
	}
	delete(M.running, key)
	M.mu.Unlock()
	close(fl.done)
	return fl.r, fl.err
}

//Len returns the number of cached results.
func (M *Memo[T]) Len() int {
	M.mu.Lock()
	defer M.mu.Unlock()
	return len(M.results)
}
