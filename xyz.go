/*
 * xyz.go, part of molview.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	v3 "github.com/camilomir/molview/v3"
)

//The XYZ convention: first line is the atom count, second line a free-text
//comment, then one line per atom with the element symbol and the three
//cartesian coordinates, whitespace-separated. A multi-structure file just
//repeats the whole block back-to-back, with no separator.

//XYZReadString parses a single XYZ-formatted structure from text.
//Per-atom lines that are blank, too short, or whose coordinates fail numeric
//parsing are skipped rather than aborting the whole parse, so the returned
//structure can hold fewer atoms than the header declared.
func XYZReadString(text string) (*Structure, error) {
	errid := "molview/XYZReadString"
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("%s: Ill-formatted XYZ: %d lines", errid, len(lines))
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || natoms < 0 {
		return nil, fmt.Errorf("%s: Ill-formatted XYZ: bad atom count %q", errid, strings.TrimSpace(lines[0]))
	}
	comment := strings.TrimRight(lines[1], "\r")
	end := 2 + natoms
	if end > len(lines) {
		end = len(lines)
	}
	elements, data := readAtomLines(lines[2:end], false)
	if len(elements) == 0 {
		return nil, fmt.Errorf("%s: No readable atoms in input", errid)
	}
	coords, err := v3.NewMatrix(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	return &Structure{Elements: elements, Coords: coords, Comment: comment}, nil
}

//XYZRead parses a single XYZ-formatted structure from r. Gzip-compressed
//input is detected by its magic number and decompressed transparently.
func XYZRead(r io.Reader) (*Structure, error) {
	text, err := readAllUncompressed(r)
	if err != nil {
		return nil, fmt.Errorf("molview/XYZRead: %w", err)
	}
	return XYZReadString(text)
}

//XYZFileRead parses a single XYZ-formatted structure from the named file.
func XYZFileRead(name string) (*Structure, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("molview/XYZFileRead: %w", err)
	}
	defer f.Close()
	return XYZRead(f)
}

//XYZTrajReadString parses a multi-structure XYZ text into a trajectory.
//The parse is best-effort, not strict validation: after a well-formed header
//the cursor always advances by count+2 lines; a header that is not a valid
//integer, or a block whose bounds exceed the available lines, advances the
//cursor by a single line and retries; structures that end up with zero atoms,
//and structures with a coordinate that fails numeric parsing, are silently
//dropped from the result. A failure never propagates past its own block.
func XYZTrajReadString(text string) *Trajectory {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	frames := make([]*Structure, 0, 10)
	i := 0
	for i < len(lines) {
		natoms, err := strconv.Atoi(strings.TrimSpace(lines[i]))
		if err != nil || natoms < 0 || i+2+natoms > len(lines) {
			i++
			continue
		}
		comment := strings.TrimRight(lines[i+1], "\r")
		elements, data := readAtomLines(lines[i+2:i+2+natoms], true)
		if len(elements) > 0 {
			if coords, err := v3.NewMatrix(data); err == nil {
				frames = append(frames, &Structure{Elements: elements, Coords: coords, Comment: comment})
			}
		}
		i += natoms + 2
	}
	return &Trajectory{Frames: frames}
}

//XYZTrajRead parses a multi-structure XYZ stream into a trajectory,
//decompressing gzip input transparently.
func XYZTrajRead(r io.Reader) (*Trajectory, error) {
	text, err := readAllUncompressed(r)
	if err != nil {
		return nil, fmt.Errorf("molview/XYZTrajRead: %w", err)
	}
	return XYZTrajReadString(text), nil
}

//XYZFileTrajRead parses the named multi-structure XYZ file into a trajectory.
func XYZFileTrajRead(name string) (*Trajectory, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("molview/XYZFileTrajRead: %w", err)
	}
	defer f.Close()
	return XYZTrajRead(f)
}

//readAtomLines parses element/coordinate lines. Lines with fewer than 4
//fields are skipped. A field that fails float parsing skips only that line,
//or, in strict mode (the multi-structure case), drops the whole block.
func readAtomLines(lines []string, strict bool) ([]string, []float64) {
	elements := make([]string, 0, len(lines))
	data := make([]float64, 0, len(lines)*3)
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		x, err1 := strconv.ParseFloat(fields[1], 64)
		y, err2 := strconv.ParseFloat(fields[2], 64)
		z, err3 := strconv.ParseFloat(fields[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			if strict {
				return nil, nil
			}
			continue
		}
		elements = append(elements, fields[0])
		data = append(data, x, y, z)
	}
	return elements, data
}

//XYZString serializes the structure in XYZ format: atom count, comment,
//then one line per atom with the coordinates fixed to 6 decimal places.
//Pure function of the structure contents; deterministic.
func (S *Structure) XYZString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n%s\n", S.Len(), S.Comment)
	for i := range S.Elements {
		fmt.Fprintf(&b, "%s %.6f %.6f %.6f\n", S.Elements[i], S.Coords.At(i, 0), S.Coords.At(i, 1), S.Coords.At(i, 2))
	}
	return b.String()
}

//XYZWrite writes the structure in XYZ format to w.
func XYZWrite(w io.Writer, S *Structure) error {
	if err := S.Corrupted(); err != nil {
		return fmt.Errorf("molview/XYZWrite: %w", err)
	}
	if _, err := io.WriteString(w, S.XYZString()); err != nil {
		return fmt.Errorf("molview/XYZWrite: %w", err)
	}
	return nil
}

//readAllUncompressed slurps r, transparently decompressing the stream if it
//carries the gzip magic number.
func readAllUncompressed(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gr, err := gzip.NewReader(br)
		if err != nil {
			return "", err
		}
		defer gr.Close()
		text, err := io.ReadAll(gr)
		return string(text), err
	}
	text, err := io.ReadAll(br)
	if err != nil {
		return "", err
	}
	return string(text), nil
}
