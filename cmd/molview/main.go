/*
 * main.go, part of molview.
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

package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/camilomir/molview/qm"
	"github.com/camilomir/molview/web"
)

func main() {
	cfg, err := web.LoadConfig()
	if err != nil {
		log.Fatalf("molview: bad configuration: %v", err)
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	xtb := qm.NewXTBHandle()
	xtb.SetCommand(cfg.XTBCommand)

	r := web.NewRouter(web.NewHandler(xtb))
	log.Printf("molview: listening on :%s (optimizer: %s)", cfg.Port, cfg.XTBCommand)
	log.Fatal(r.Run(":" + cfg.Port))
}
