/*
 * handlers.go, part of molview.
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

package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/camilomir/molview"
	"github.com/camilomir/molview/qm"
	"github.com/camilomir/molview/render"
	v3 "github.com/camilomir/molview/v3"
)

//MIME type for XYZ downloads.
const mimeXYZ = "chemical/x-xyz"

//Handler wires the session store and the optimizer into the HTTP routes.
type Handler struct {
	store *Store
	xtb   *qm.XTBHandle
}

//NewHandler returns a Handler running optimizations through the given
//xtb handle.
func NewHandler(xtb *qm.XTBHandle) *Handler {
	return &Handler{store: NewStore(), xtb: xtb}
}

//Register attaches the structure routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/structures", h.upload)
	rg.GET("/structures/:id", h.structure)
	rg.PUT("/structures/:id/atoms", h.editAtoms)
	rg.POST("/structures/:id/optimize", h.optimize)
	rg.GET("/structures/:id/optimized", h.downloadOptimized)
	rg.GET("/structures/:id/trajectory", h.downloadTrajectory)
	rg.GET("/structures/:id/trajectory/steps", h.steps)
	rg.GET("/structures/:id/trajectory/steps/:step", h.step)
	rg.GET("/structures/:id/view", h.view)
	rg.GET("/structures/:id/energy", h.energy)
}

type atomJSON struct {
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Mass    float64 `json:"mass,omitempty"` //0 for untabulated elements
}

func atomTable(s *molview.Structure) []atomJSON {
	atoms := make([]atomJSON, s.Len())
	for i := range atoms {
		mass, _ := molview.SymbolMass(s.Elements[i])
		atoms[i] = atomJSON{
			Element: s.Elements[i],
			X:       s.Coords.At(i, 0),
			Y:       s.Coords.At(i, 1),
			Z:       s.Coords.At(i, 2),
			Mass:    mass,
		}
	}
	return atoms
}

//upload parses the request body as XYZ (gzip accepted) and opens a fresh
//session around it. Starting over with a new upload is the only way the
//results of a previous optimization go away.
func (h *Handler) upload(c *gin.Context) {
	s, err := molview.XYZRead(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	sess := h.store.New(s)
	c.JSON(http.StatusCreated, gin.H{
		"ok":      true,
		"id":      sess.ID,
		"comment": s.Comment,
		"atoms":   atomTable(s),
	})
}

func (h *Handler) session(c *gin.Context) *Session {
	sess, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "session not found"})
		return nil
	}
	return sess
}

//structure returns the current working structure as XYZ text.
func (h *Handler) structure(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(sess.Current().XYZString()))
}

type editReq struct {
	Atoms   []atomJSON `json:"atoms"`
	Comment *string    `json:"comment"`
}

//editAtoms replaces the whole atom table of the working structure, the
//way the interactive coordinate editor does.
func (h *Handler) editAtoms(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	var req editReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Atoms) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	elements := make([]string, len(req.Atoms))
	data := make([]float64, 0, len(req.Atoms)*3)
	for i, a := range req.Atoms {
		if a.Element == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "atom without element symbol"})
			return
		}
		elements[i] = a.Element
		data = append(data, a.X, a.Y, a.Z)
	}
	coords, err := v3.NewMatrix(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	comment := sess.Current().Comment
	if req.Comment != nil {
		comment = *req.Comment
	}
	s, err := molview.NewStructure(elements, coords, comment)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	sess.SetStructure(s)
	c.JSON(http.StatusOK, gin.H{"ok": true, "atoms": atomTable(s)})
}

type optimizeReq struct {
	Method   string `json:"method"`
	Charge   int    `json:"charge"`
	Unpaired int    `json:"unpaired"`
	Solvent  string `json:"solvent"`
}

//optimize runs the external optimizer on the working structure,
//synchronously, and stores the resulting artifacts in the session. A
//failure of any kind leaves the previously stored artifacts untouched.
func (h *Handler) optimize(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	var req optimizeReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
	}
	calc := new(qm.Calc)
	calc.SetDefaults()
	if req.Method != "" {
		calc.Method = req.Method
	}
	calc.Charge = req.Charge
	calc.Unpaired = req.Unpaired
	calc.Solvent = req.Solvent

	res, err := h.xtb.Optimize(sess.Current().XYZString(), calc)
	switch {
	case qm.MessageIs(err, qm.ErrNotInstalled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "optimizer is not installed or not in PATH"})
		return
	case qm.MessageIs(err, qm.ErrNoTrajectory):
		//the optimized structure alone is still worth keeping
		sess.StoreResult(res.Optimized, "", nil)
		c.JSON(http.StatusOK, gin.H{"ok": true, "trajectory": false, "warning": "trajectory file not found"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "optimization failed"})
		return
	}
	traj := molview.XYZTrajReadString(res.Trajectory)
	sess.StoreResult(res.Optimized, res.Trajectory, traj)
	c.JSON(http.StatusOK, gin.H{"ok": true, "trajectory": true, "steps": traj.Len()})
}

func (h *Handler) downloadOptimized(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	optimized, _, _, complete := sess.Artifacts()
	if !complete || optimized == "" {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no optimization result"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="optimized.xyz"`)
	c.Data(http.StatusOK, mimeXYZ, []byte(optimized))
}

func (h *Handler) downloadTrajectory(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	_, trajectoryXYZ, _, _ := sess.Artifacts()
	if trajectoryXYZ == "" {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no trajectory available"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="trajectory.xyz"`)
	c.Data(http.StatusOK, mimeXYZ, []byte(trajectoryXYZ))
}

func (h *Handler) steps(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	_, _, traj, _ := sess.Artifacts()
	if traj == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no trajectory available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "steps": traj.Len()})
}

//step returns one trajectory frame, re-serialized as XYZ text.
func (h *Handler) step(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	_, _, traj, _ := sess.Artifacts()
	if traj == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no trajectory available"})
		return
	}
	i, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "step must be an integer"})
		return
	}
	xyz, err := traj.FrameXYZ(i)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(xyz))
}

//view renders the 3D scatter page for the working structure, or for the
//optimized one with ?source=optimized.
func (h *Handler) view(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	s := sess.Current()
	if c.Query("source") == "optimized" {
		optimized, _, _, _ := sess.Artifacts()
		if optimized == "" {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no optimization result"})
			return
		}
		opt, err := molview.XYZReadString(optimized)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		s = opt
	}
	vo := render.ViewOptions{
		Labels:  c.Query("labels") == "1",
		Indices: c.Query("indices") == "1",
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := render.StructureHTML(c.Writer, s, vo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

//energy renders the PNG energy profile of the stored trajectory.
func (h *Handler) energy(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	_, _, traj, _ := sess.Artifacts()
	if traj == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no trajectory available"})
		return
	}
	energies, err := qm.Energies(traj)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
		return
	}
	png, err := render.EnergyProfilePNG(energies)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
