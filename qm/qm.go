/*
 * qm.go, part of molview.
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

//Package qm drives the external geometry optimizer. The calculation
//settings are kept as separate as possible from the program that performs
//the optimization, so another driver can be added without touching callers.
package qm

import (
	"errors"
	"fmt"
)

//Calc holds the adjustable parameters of an optimization. The zero value
//plus SetDefaults gives an unconstrained gas-phase GFN2 optimization of a
//neutral singlet, which is what the one-button interactive path uses.
type Calc struct {
	Method     string  //gfn0, gfn1, gfn2 or gfnff
	Charge     int
	Unpaired   int     //number of unpaired electrons, i.e. multiplicity-1
	Solvent    string  //implicit solvent name, empty for gas phase
	Dielectric float64 //used to pick a solvent when Solvent is empty
}

//SetDefaults sets the calculation parameters to their defaults. The
//defaults are NOT considered part of the API and can change as methods
//evolve.
func (Q *Calc) SetDefaults() {
	Q.Method = "gfn2"
	Q.Charge = 0
	Q.Unpaired = 0
}

//Solvation returns the implicit solvent to be used: the explicitly set
//name, or the one matching the dielectric constant, or "" for gas phase.
func (Q *Calc) Solvation() string {
	if Q.Solvent != "" {
		return Q.Solvent
	}
	if Q.Dielectric > 0 {
		if solvent, ok := dielectric2Solvent[int(Q.Dielectric)]; ok {
			return solvent
		}
	}
	return ""
}

var dielectric2Solvent = map[int]string{
	80: "h2o",
	5:  "chcl3",
	9:  "ch2cl2",
	21: "acetone",
	37: "acetonitrile",
	33: "methanol",
	2:  "toluene",
	7:  "thf",
	47: "dmso",
	38: "dmf",
}

//The failure taxonomy. Every failed optimization maps to exactly one of
//these messages; callers can recover the category with Error.Message or
//the MessageIs helper.
const (
	ErrNotInstalled = "optimizer executable not found in the execution path"
	ErrCantInput    = "can't prepare the optimizer input"
	ErrFailed       = "optimization failed"
	ErrNoGeometry   = "optimized geometry file missing after the run"
	ErrNoTrajectory = "optimization log file missing after the run"
)

//Error is the error type returned by the drivers in this package. It keeps
//the failure category, the program and input it came from, and a decoration
//trail of the functions it has passed through.
type Error struct {
	message    string //one of the Err... constants
	program    string
	inputname  string
	additional string
	deco       []string
	critical   bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	s := fmt.Sprintf("qm: %s (program: %s, input: %s)", err.message, err.program, err.inputname)
	if err.additional != "" {
		s = s + ": " + err.additional
	}
	return s
}

//Message returns the failure category, one of the Err... constants.
func (err Error) Message() string { return err.message }

//Decorate adds dec to the decoration slice of strings of the error and
//returns the resulting slice. If dec is empty it just returns the current
//value.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error rules out any result at all, or only
//part of one (as a missing trajectory log does).
func (err Error) Critical() bool { return err.critical }

//MessageIs reports whether err is a qm.Error carrying the given failure
//category.
func MessageIs(err error, message string) bool {
	var qerr Error
	if errors.As(err, &qerr) {
		return qerr.message == message
	}
	return false
}
