/*
 * render.go, part of molview.
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

//Package render turns structures and trajectories into viewable artifacts:
//a standalone HTML page with a 3D scatter of the atoms, and a PNG energy
//profile of an optimization. All the actual drawing is delegated to the
//charting libraries; there is no custom rendering here.
package render

//CPK display colors per element. Elements without an entry get the
//"unknown" pink.
var cpkColor = map[string]string{
	"H":  "#f0f0f0",
	"C":  "#909090",
	"N":  "#3050f8",
	"O":  "#ff0d0d",
	"F":  "#90e050",
	"Cl": "#1ff01f",
	"Br": "#a62929",
	"I":  "#940094",
	"S":  "#ffff30",
	"P":  "#ff8000",
	"B":  "#ffb5b5",
	"Na": "#ab5cf2",
	"K":  "#8f40d4",
	"Mg": "#8aff00",
	"Ca": "#3dff00",
	"Fe": "#e06633",
	"Zn": "#7d80b0",
	"Cu": "#c88033",
	"Si": "#f0c8a0",
	"Se": "#ffa100",
}

const cpkUnknown = "#ff69b4"

//Display point sizes, loosely following relative vdW radii. Purely
//cosmetic.
var displaySize = map[string]int{
	"H": 9,
	"C": 14,
	"N": 13,
	"O": 13,
	"F": 12,
}

const displaySizeDefault = 16

func elementColor(symbol string) string {
	if c, ok := cpkColor[symbol]; ok {
		return c
	}
	return cpkUnknown
}

func elementSize(symbol string) int {
	if s, ok := displaySize[symbol]; ok {
		return s
	}
	return displaySizeDefault
}
