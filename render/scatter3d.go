/*
 * scatter3d.go, part of molview.
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
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/camilomir/molview"
)

//ViewOptions control the decorations of the structure view.
type ViewOptions struct {
	Labels  bool //show the element symbol next to each atom
	Indices bool //show the 1-based atom index next to each atom
}

//StructureHTML writes a standalone HTML page with an interactive 3D
//scatter of the atoms of S, one series per element so every element keeps
//its CPK color. The axes are forced symmetric around the origin of the
//largest coordinate so the molecule is not distorted.
func StructureHTML(w io.Writer, S *molview.Structure, vo ViewOptions) error {
	errid := "render/StructureHTML"
	if err := S.Corrupted(); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}

	//group the atom positions by element, keeping the original indexes
	//for the point names.
	type point struct {
		index   int
		x, y, z float64
	}
	byElement := make(map[string][]point)
	order := make([]string, 0, 4)
	maxAbs := 0.0
	for i, symbol := range S.Elements {
		x, y, z := S.Coords.At(i, 0), S.Coords.At(i, 1), S.Coords.At(i, 2)
		for _, v := range []float64{x, y, z} {
			if math.Abs(v) > maxAbs {
				maxAbs = math.Abs(v)
			}
		}
		if _, ok := byElement[symbol]; !ok {
			order = append(order, symbol)
		}
		byElement[symbol] = append(byElement[symbol], point{i, x, y, z})
	}
	//padding so edge atoms stay visible
	pad := maxAbs * 1.15
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Molecular Viewer", Width: "800px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Molecular Viewer", Subtitle: fmt.Sprintf("%d atoms — %s", S.Len(), S.Comment)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X (Å)", Type: "value", Min: -pad, Max: pad}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y (Å)", Type: "value", Min: -pad, Max: pad}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z (Å)", Type: "value", Min: -pad, Max: pad}),
	)

	labelFormat := ""
	if vo.Labels {
		labelFormat = "{a}"
	}
	if vo.Indices {
		labelFormat += " {b}"
	}

	for _, symbol := range order {
		data := make([]opts.Chart3DData, 0, len(byElement[symbol]))
		for _, p := range byElement[symbol] {
			data = append(data, opts.Chart3DData{
				Name:  strconv.Itoa(p.index + 1),
				Value: []interface{}{p.x, p.y, p.z},
			})
		}
		series := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: elementColor(symbol)}),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: elementSize(symbol)}),
		}
		if labelFormat != "" {
			series = append(series, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: types.FuncStr(labelFormat), Color: "#d02020"}))
		}
		scatter.AddSeries(symbol, data, series...)
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	return nil
}
