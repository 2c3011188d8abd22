/*
 * xtb.go, part of molview.
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

//In order to use this part of the library you need the xtb program, which
//must be obtained from Prof. Stefan Grimme's group. Please cite the xtb
//references if you use it.

package qm

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/camilomir/molview"
)

//The program name for qm.Error values produced here.
const XTB = "XTB"

//Fixed file names inside the scratch directory. The input name is ours;
//the output names are what xtb writes next to its working directory.
const (
	xtbInputFile = "input.xyz"
	xtbOptFile   = "xtbopt.xyz"
	xtbLogFile   = "xtbopt.log"
	xtbOutFile   = "xtb.out"
)

//OptResult carries the text of the two artifacts of a successful
//optimization: the optimized structure and the full optimization
//trajectory, both in XYZ format.
type OptResult struct {
	Optimized  string
	Trajectory string
}

//XTBHandle runs geometry optimizations with the xtb program. Each
//optimization happens synchronously in its own auto-removed scratch
//directory, and identical input never triggers the program twice: results
//are memoized by the exact input text plus the command-line options.
type XTBHandle struct {
	command string
	cache   *molview.Memo[*OptResult]
}

//NewXTBHandle initializes and returns an xtb handle with values set to
//their defaults.
func NewXTBHandle() *XTBHandle {
	run := new(XTBHandle)
	run.SetDefaults()
	return run
}

//SetDefaults sets the handle to look for the plain "xtb" name in the
//execution path, with an empty cache.
func (O *XTBHandle) SetDefaults() {
	O.command = "xtb"
	O.cache = molview.NewMemo[*OptResult]()
}

//Command returns the path and name for the xtb executable.
func (O *XTBHandle) Command() string {
	return O.command
}

//SetCommand sets the path and name for the xtb executable.
func (O *XTBHandle) SetCommand(name string) {
	O.command = name
}

//Optimize performs a geometry optimization of the structure given as XYZ
//text and returns the optimized structure and the optimization trajectory,
//also as XYZ text. If Q is nil the default calculation settings are used.
//
//The call blocks for the full duration of the external process. On a run
//that finished but left no trajectory log, the optimized structure is still
//returned together with a non-critical ErrNoTrajectory error; every other
//failure yields a nil result. Failed runs are not cached, so the caller can
//simply re-trigger them.
func (O *XTBHandle) Optimize(xyz string, Q *Calc) (*OptResult, error) {
	if Q == nil {
		Q = new(Calc)
		Q.SetDefaults()
	}
	args := O.buildArgs(Q)
	key := xyz + "\x00" + strings.Join(args, " ")
	return O.cache.Do(key, func() (*OptResult, error) {
		return O.optimize(xyz, args)
	})
}

//buildArgs translates the calculation settings into xtb command-line
//options. The input file name and the --opt flag always come first.
func (O *XTBHandle) buildArgs(Q *Calc) []string {
	args := []string{xtbInputFile, "--opt"}
	if Q.Charge != 0 {
		args = append(args, "-c", strconv.Itoa(Q.Charge))
	}
	if Q.Unpaired != 0 {
		args = append(args, "-u", strconv.Itoa(Q.Unpaired))
	}
	switch Q.Method {
	case "gfnff":
		args = append(args, "--gfnff")
	case "gfn0", "gfn1", "gfn2":
		args = append(args, "--gfn", strings.TrimPrefix(Q.Method, "gfn"))
	}
	//as of the current version, gfn0 doesn't support implicit solvation
	if solvent := Q.Solvation(); solvent != "" && Q.Method != "gfn0" {
		args = append(args, "--alpb", solvent)
	}
	return args
}

func (O *XTBHandle) optimize(xyz string, args []string) (*OptResult, error) {
	errid := "XTBHandle/Optimize"
	if _, err := exec.LookPath(O.command); err != nil {
		return nil, Error{ErrNotInstalled, XTB, O.command, err.Error(), []string{errid}, true}
	}
	scratch, err := os.MkdirTemp("", "molview-xtb-")
	if err != nil {
		return nil, Error{ErrCantInput, XTB, xtbInputFile, err.Error(), []string{errid}, true}
	}
	defer os.RemoveAll(scratch)
	if err := os.WriteFile(filepath.Join(scratch, xtbInputFile), []byte(xyz), 0o644); err != nil {
		return nil, Error{ErrCantInput, XTB, xtbInputFile, err.Error(), []string{errid}, true}
	}
	out, err := os.Create(filepath.Join(scratch, xtbOutFile))
	if err != nil {
		return nil, Error{ErrCantInput, XTB, xtbInputFile, err.Error(), []string{errid}, true}
	}
	command := exec.Command(O.command, args...)
	command.Dir = scratch
	command.Stdout = out
	command.Stderr = out
	log.Printf("qm: running %s %s", O.command, strings.Join(args, " "))
	err = command.Run()
	out.Close()
	if err != nil {
		return nil, Error{ErrFailed, XTB, xtbInputFile, err.Error(), []string{errid}, true}
	}
	optimized, err := os.ReadFile(filepath.Join(scratch, xtbOptFile))
	if err != nil {
		return nil, Error{ErrNoGeometry, XTB, xtbInputFile, err.Error(), []string{errid}, true}
	}
	traj, err := os.ReadFile(filepath.Join(scratch, xtbLogFile))
	if err != nil {
		//the optimized structure is still usable on its own
		return &OptResult{Optimized: string(optimized)}, Error{ErrNoTrajectory, XTB, xtbInputFile, err.Error(), []string{errid}, false}
	}
	return &OptResult{Optimized: string(optimized), Trajectory: string(traj)}, nil
}

//Energies extracts the energy xtb records in each frame comment of its
//optimization log ("energy: <Eh> gnorm: <g> ...") and returns them in
//kcal/mol, in frame order. Frames without a parseable energy are skipped;
//it is an error only if no frame has one.
func Energies(T *molview.Trajectory) ([]float64, error) {
	energies := make([]float64, 0, T.Len())
	for _, frame := range T.Frames {
		fields := strings.Fields(frame.Comment)
		for i, f := range fields {
			if f == "energy:" && i+1 < len(fields) {
				if e, err := strconv.ParseFloat(fields[i+1], 64); err == nil {
					energies = append(energies, e*molview.H2Kcal)
				}
				break
			}
		}
	}
	if len(energies) == 0 {
		return nil, fmt.Errorf("qm/Energies: no frame comment carries an energy")
	}
	return energies, nil
}
