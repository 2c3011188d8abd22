/*
 * energy.go, part of molview.
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

package render

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//EnergyProfilePNG plots the per-step energies of an optimization as a
//line-and-points profile and returns the PNG bytes.
func EnergyProfilePNG(energies []float64) ([]byte, error) {
	errid := "render/EnergyProfilePNG"
	if len(energies) == 0 {
		return nil, fmt.Errorf("%s: Given no energies", errid)
	}
	pts := make(plotter.XYs, len(energies))
	for i, e := range energies {
		pts[i].X = float64(i)
		pts[i].Y = e
	}
	p := plot.New()
	p.Title.Text = "Optimization energy profile"
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Energy (kcal/mol)"
	p.Add(plotter.NewGrid())
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	p.Add(line, points)
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	return buf.Bytes(), nil
}
