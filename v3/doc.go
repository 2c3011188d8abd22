/*
 * doc.go, part of molview.
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

//Package v3 implements a set of vectors in 3D space as a matrix with 3 columns
//and as many rows as vectors in the set. Within the package it is understood
//that a "vector" is a row of such a matrix, i.e. the cartesian coordinates of
//one point in space. The implementation wraps a gonum dense matrix, so the
//gonum facilities remain available on the embedded type.
package v3
