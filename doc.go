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

//Package molview provides the structure and trajectory types for a small
//molecular viewing and optimization service, together with facilities for
//reading and writing the XYZ plain-text format, in its single- and
//multi-structure variants. The qm subpackage drives the external optimizer,
//the render subpackage produces viewable artifacts and the web subpackage
//exposes everything over HTTP.
package molview
