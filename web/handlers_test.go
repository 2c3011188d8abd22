/*
 * handlers_test.go, part of molview.
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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camilomir/molview"
	"github.com/camilomir/molview/qm"
)

const waterXYZ = "3\nwater\nO 0.0 0.0 0.0\nH 0.0 0.0 0.96\nH 0.93 0.0 -0.24\n"

//a fake optimizer run: the input comes back as the optimized geometry and
//the log carries two frames with energy comments, like a real xtb log.
const fakeRun = `cat > xtbopt.log <<'EOF'
3
 energy: -5.070544 gnorm: 0.000650 xtb: 6.4.1
O 0.000000 0.000000 0.000000
H 0.000000 0.000000 0.960000
H 0.930000 0.000000 -0.240000
3
 energy: -5.070611 gnorm: 0.000212 xtb: 6.4.1
O 0.000000 0.000000 0.000000
H 0.000000 0.000000 0.960000
H 0.930000 0.000000 -0.240000
EOF
cp input.xyz xtbopt.xyz
`

func fakeOptimizer(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xtb-fake")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func testRouter(t *testing.T, command string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	xtb := qm.NewXTBHandle()
	xtb.SetCommand(command)
	return NewRouter(NewHandler(xtb))
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	r.ServeHTTP(w, req)
	return w
}

//uploadWater posts the water structure and returns the session id.
func uploadWater(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := perform(r, http.MethodPost, "/api/v1/structures", waterXYZ)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		ID    string `json:"id"`
		Atoms []struct {
			Element string  `json:"element"`
			Z       float64 `json:"z"`
			Mass    float64 `json:"mass"`
		} `json:"atoms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	require.Len(t, resp.Atoms, 3)
	assert.Equal(t, 16.00, resp.Atoms[0].Mass)
	assert.Equal(t, 1.0, resp.Atoms[1].Mass)
	return resp.ID
}

func TestStore(t *testing.T) {
	st := NewStore()
	assert.Equal(t, 0, st.Len())
	s, err := molview.XYZReadString(waterXYZ)
	require.NoError(t, err)
	sess := st.New(s)
	assert.Equal(t, 1, st.Len())
	got, ok := st.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, "water", got.Current().Comment)
	_, ok = st.Get("nope")
	assert.False(t, ok)
}

func TestHealth(t *testing.T) {
	r := testRouter(t, "xtb")
	w := perform(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestUploadAndFetch(t *testing.T) {
	r := testRouter(t, "xtb")
	id := uploadWater(t, r)

	w := perform(r, http.MethodGet, "/api/v1/structures/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "3\nwater\n"))
	assert.Contains(t, w.Body.String(), "H 0.930000 0.000000 -0.240000")
}

func TestUploadRejectsBadInput(t *testing.T) {
	r := testRouter(t, "xtb")
	w := perform(r, http.MethodPost, "/api/v1/structures", "three\nwater\nO 0 0 0\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownSession(t *testing.T) {
	r := testRouter(t, "xtb")
	for _, path := range []string{
		"/api/v1/structures/nope",
		"/api/v1/structures/nope/optimized",
		"/api/v1/structures/nope/view",
	} {
		w := perform(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestEditAtoms(t *testing.T) {
	r := testRouter(t, "xtb")
	id := uploadWater(t, r)

	body := `{"atoms":[{"element":"N","x":1,"y":2,"z":3},{"element":"H","x":0,"y":0,"z":1}],"comment":"edited"}`
	w := perform(r, http.MethodPut, "/api/v1/structures/"+id+"/atoms", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodGet, "/api/v1/structures/"+id, "")
	assert.True(t, strings.HasPrefix(w.Body.String(), "2\nedited\n"))
	assert.Contains(t, w.Body.String(), "N 1.000000 2.000000 3.000000")

	w = perform(r, http.MethodPut, "/api/v1/structures/"+id+"/atoms", `{"atoms":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = perform(r, http.MethodPut, "/api/v1/structures/"+id+"/atoms", `{"atoms":[{"x":1,"y":2,"z":3}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

//edits racing reads on one session must stay consistent: every read sees
//either the old or the new structure, never a mix.
func TestConcurrentEditAndRead(t *testing.T) {
	r := testRouter(t, "xtb")
	id := uploadWater(t, r)
	base := "/api/v1/structures/" + id

	body := `{"atoms":[{"element":"N","x":1,"y":2,"z":3},{"element":"H","x":0,"y":0,"z":1}],"comment":"edited"}`
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := perform(r, http.MethodPut, base+"/atoms", body)
			assert.Equal(t, http.StatusOK, w.Code)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := perform(r, http.MethodGet, base, "")
			assert.Equal(t, http.StatusOK, w.Code)
			got := w.Body.String()
			old := strings.HasPrefix(got, "3\nwater\n")
			edited := strings.HasPrefix(got, "2\nedited\n")
			assert.True(t, old || edited, got)
		}()
	}
	wg.Wait()
}

func TestOptimizeFlow(t *testing.T) {
	r := testRouter(t, fakeOptimizer(t, fakeRun))
	id := uploadWater(t, r)
	base := "/api/v1/structures/" + id

	//artifacts don't exist before the first optimization
	for _, path := range []string{base + "/optimized", base + "/trajectory", base + "/trajectory/steps", base + "/energy"} {
		w := perform(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w := perform(r, http.MethodPost, base+"/optimize", `{"charge":0,"solvent":"h2o"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Trajectory bool `json:"trajectory"`
		Steps      int  `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Trajectory)
	assert.Equal(t, 2, resp.Steps)

	w = perform(r, http.MethodGet, base+"/optimized", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mimeXYZ, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "optimized.xyz")
	assert.True(t, strings.HasPrefix(w.Body.String(), "3\nwater\n"))

	w = perform(r, http.MethodGet, base+"/trajectory", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mimeXYZ, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "energy: -5.070611")

	w = perform(r, http.MethodGet, base+"/trajectory/steps/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "3\n"))

	w = perform(r, http.MethodGet, base+"/trajectory/steps/5", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = perform(r, http.MethodGet, base+"/trajectory/steps/one", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodGet, base+"/view", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "echarts")

	w = perform(r, http.MethodGet, base+"/view?source=optimized&labels=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "echarts")

	w = perform(r, http.MethodGet, base+"/energy", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func TestOptimizeNotInstalled(t *testing.T) {
	r := testRouter(t, "definitely-not-an-installed-optimizer")
	id := uploadWater(t, r)
	base := "/api/v1/structures/" + id

	w := perform(r, http.MethodPost, base+"/optimize", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	//the failure left no artifacts behind
	w = perform(r, http.MethodGet, base+"/optimized", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOptimizeFailed(t *testing.T) {
	r := testRouter(t, fakeOptimizer(t, "exit 3\n"))
	id := uploadWater(t, r)

	w := perform(r, http.MethodPost, "/api/v1/structures/"+id+"/optimize", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestOptimizeMissingTrajectory(t *testing.T) {
	r := testRouter(t, fakeOptimizer(t, "cp input.xyz xtbopt.xyz\n"))
	id := uploadWater(t, r)
	base := "/api/v1/structures/" + id

	w := perform(r, http.MethodPost, base+"/optimize", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "warning")

	w = perform(r, http.MethodGet, base+"/optimized", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = perform(r, http.MethodGet, base+"/trajectory", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOptimizeBadBody(t *testing.T) {
	r := testRouter(t, "xtb")
	id := uploadWater(t, r)
	w := perform(r, http.MethodPost, "/api/v1/structures/"+id+"/optimize", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
