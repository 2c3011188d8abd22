/*
 * molview.go, part of molview.
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

	v3 "github.com/camilomir/molview/v3"
)

//Structure is an ordered set of atoms: one element symbol and one cartesian
//position per atom, plus a free-text comment. The coordinates are kept in a
//matrix with one row per atom, separate from the symbols, so geometry
//operations don't need to touch the chemical identity of the atoms.
type Structure struct {
	Elements []string
	Coords   *v3.Matrix
	Comment  string
}

//NewStructure makes a Structure with the given element symbols, coordinates
//and comment, and returns it. It returns an error if either slice is nil or
//if the number of symbols doesn't match the number of coordinate rows.
func NewStructure(elements []string, coords *v3.Matrix, comment string) (*Structure, error) {
	errid := "molview/NewStructure"
	if elements == nil || coords == nil {
		return nil, fmt.Errorf("%s: Supplied nil elements or coordinates", errid)
	}
	if len(elements) != coords.NVecs() {
		return nil, fmt.Errorf("%s: %d element symbols for %d coordinate rows", errid, len(elements), coords.NVecs())
	}
	return &Structure{Elements: elements, Coords: coords, Comment: comment}, nil
}

//Len returns the number of atoms in the structure.
func (S *Structure) Len() int {
	return len(S.Elements)
}

//Corrupted checks that the element list and the coordinate matrix agree
//in size, and that the latter has 3 columns. It returns an error describing
//the problem, or nil.
func (S *Structure) Corrupted() error {
	errid := "molview/Structure.Corrupted"
	if S.Coords == nil {
		return fmt.Errorf("%s: Structure has no coordinates", errid)
	}
	r, c := S.Coords.Dims()
	if c != 3 {
		return fmt.Errorf("%s: Coordinate matrix has %d columns", errid, c)
	}
	if r != len(S.Elements) {
		return fmt.Errorf("%s: Inconsistent atoms/coordinates: %d symbols, %d rows", errid, len(S.Elements), r)
	}
	return nil
}

//Copy returns a deep copy of the structure.
func (S *Structure) Copy() *Structure {
	elements := make([]string, len(S.Elements))
	copy(elements, S.Elements)
	return &Structure{Elements: elements, Coords: S.Coords.Copy(), Comment: S.Comment}
}

//SetAtom replaces the symbol and position of the ith atom. This is the
//edit step of the interactive session: only existing atoms can be rewritten,
//the atom count never changes here.
func (S *Structure) SetAtom(i int, element string, x, y, z float64) error {
	if i < 0 || i >= S.Len() {
		return fmt.Errorf("molview/Structure.SetAtom: Atom %d out of range (%d atoms)", i, S.Len())
	}
	S.Elements[i] = element
	S.Coords.Set(i, 0, x)
	S.Coords.Set(i, 1, y)
	S.Coords.Set(i, 2, z)
	return nil
}

//Masses returns a slice with the mass of each atom in the structure.
//It returns an error, and a zero in the corresponding position, for every
//symbol without a tabulated mass.
func (S *Structure) Masses() ([]float64, error) {
	var err error
	masses := make([]float64, S.Len())
	for i, symbol := range S.Elements {
		m, ok := symbolMass[symbol]
		if !ok {
			err = fmt.Errorf("molview/Structure.Masses: No mass for element %s (atom %d)", symbol, i)
			continue
		}
		masses[i] = m
	}
	return masses, err
}

//Trajectory is an ordered sequence of structures, representing successive
//steps of a geometry optimization, in file order. The frames are independent:
//nothing links one step to the next.
type Trajectory struct {
	Frames []*Structure
}

//Len returns the number of frames in the trajectory.
func (T *Trajectory) Len() int {
	return len(T.Frames)
}

//Frame returns the ith (zero-based) structure of the trajectory.
//Valid indexes are exactly 0..Len()-1; anything else is an error.
func (T *Trajectory) Frame(i int) (*Structure, error) {
	if i < 0 || i >= T.Len() {
		return nil, fmt.Errorf("molview/Trajectory.Frame: Frame %d out of range (%d frames)", i, T.Len())
	}
	return T.Frames[i], nil
}

//FrameXYZ returns the ith frame of the trajectory re-serialized as
//single-structure XYZ text, for display.
func (T *Trajectory) FrameXYZ(i int) (string, error) {
	frame, err := T.Frame(i)
	if err != nil {
		return "", err
	}
	return frame.XYZString(), nil
}
