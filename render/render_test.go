/*
 * render_test.go, part of molview.
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
	"strings"
	"testing"

	"github.com/camilomir/molview"
)

const waterXYZ = "3\nwater\nO 0.0 0.0 0.0\nH 0.0 0.0 0.96\nH 0.93 0.0 -0.24\n"

func TestStructureHTML(Te *testing.T) {
	s, err := molview.XYZReadString(waterXYZ)
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	if err := StructureHTML(&buf, s, ViewOptions{}); err != nil {
		Te.Fatal(err)
	}
	page := buf.String()
	if !strings.Contains(page, "echarts") {
		Te.Error("output doesn't look like an echarts page")
	}
	//one series per element
	for _, symbol := range []string{`"O"`, `"H"`} {
		if !strings.Contains(page, symbol) {
			Te.Errorf("series for element %s missing from the page", symbol)
		}
	}
	if !strings.Contains(page, "3 atoms") {
		Te.Error("atom count missing from the subtitle")
	}
}

func TestStructureHTMLLabels(Te *testing.T) {
	s, err := molview.XYZReadString(waterXYZ)
	if err != nil {
		Te.Fatal(err)
	}
	var plain, labeled bytes.Buffer
	if err := StructureHTML(&plain, s, ViewOptions{}); err != nil {
		Te.Fatal(err)
	}
	if err := StructureHTML(&labeled, s, ViewOptions{Labels: true, Indices: true}); err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(labeled.String(), "{a} {b}") {
		Te.Error("label formatter missing from the labeled page")
	}
	if strings.Contains(plain.String(), "{a} {b}") {
		Te.Error("label formatter present without labels requested")
	}
}

func TestElementStyles(Te *testing.T) {
	if elementColor("C") != "#909090" {
		Te.Errorf("got carbon color %s", elementColor("C"))
	}
	//unknown elements get the fallback color, never an empty string
	if elementColor("Uuo") != cpkUnknown {
		Te.Errorf("got unknown-element color %s", elementColor("Uuo"))
	}
	if elementSize("H") >= elementSize("C") {
		Te.Error("hydrogen should render smaller than carbon")
	}
	if elementSize("Uuo") != displaySizeDefault {
		Te.Errorf("got unknown-element size %d", elementSize("Uuo"))
	}
}

func TestEnergyProfilePNG(Te *testing.T) {
	png, err := EnergyProfilePNG([]float64{-3181.0, -3181.5, -3181.7})
	if err != nil {
		Te.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		Te.Error("output doesn't carry the PNG magic number")
	}
	if _, err := EnergyProfilePNG(nil); err == nil {
		Te.Error("expected an error for an empty energy list")
	}
}
