/*
 * session.go, part of molview.
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

package web

import (
	"sync"

	"github.com/google/uuid"

	"github.com/camilomir/molview"
)

//Session is the state of one interactive editing/optimization session:
//the working structure and the artifacts of the last successful
//optimization. A failed optimization never touches the stored artifacts;
//they are replaced only by a successful run, and discarded only when the
//user starts over with a new upload (i.e. a new session).
//
//Concurrent requests can share a session id, so all state lives behind the
//session's own lock. Stored structures and trajectories are replaced
//wholesale and never mutated in place, which makes the returned pointers
//safe to read after the lock is released.
type Session struct {
	ID string

	mu            sync.RWMutex
	structure     *molview.Structure
	optimizedXYZ  string
	trajectoryXYZ string
	trajectory    *molview.Trajectory
	complete      bool //has any optimization finished for this session?
}

//Current returns the working structure.
func (s *Session) Current() *molview.Structure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.structure
}

//SetStructure replaces the working structure, the edit step.
func (s *Session) SetStructure(st *molview.Structure) {
	s.mu.Lock()
	s.structure = st
	s.mu.Unlock()
}

//StoreResult replaces the optimization artifacts and marks the session
//complete. A partial run passes an empty trajectory.
func (s *Session) StoreResult(optimizedXYZ, trajectoryXYZ string, traj *molview.Trajectory) {
	s.mu.Lock()
	s.optimizedXYZ = optimizedXYZ
	s.trajectoryXYZ = trajectoryXYZ
	s.trajectory = traj
	s.complete = true
	s.mu.Unlock()
}

//Artifacts returns a consistent snapshot of the stored optimization
//artifacts.
func (s *Session) Artifacts() (optimizedXYZ, trajectoryXYZ string, traj *molview.Trajectory, complete bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.optimizedXYZ, s.trajectoryXYZ, s.trajectory, s.complete
}

//Store keeps the live sessions. Nothing is persisted: a session lives in
//memory and dies with the process.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

//NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

//New creates a session holding the given structure and returns it.
func (st *Store) New(s *molview.Structure) *Session {
	sess := &Session{ID: uuid.NewString(), structure: s}
	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return sess
}

//Get returns the session with the given id, if it exists.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

//Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
