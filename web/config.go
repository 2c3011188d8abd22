/*
 * config.go, part of molview.
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
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

//Config holds the server settings, read from the environment with an
//optional .env file on top.
type Config struct {
	Port        string
	XTBCommand  string //path or name of the xtb executable
	Environment string //development or production
}

//LoadConfig reads the configuration. A missing .env file is not an error:
//plain environment variables work the same.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := &Config{
		Port:        getEnv("MOLVIEW_PORT", "8080"),
		XTBCommand:  getEnv("MOLVIEW_XTB", "xtb"),
		Environment: getEnv("MOLVIEW_ENV", "development"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//Validate checks the loaded settings.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("MOLVIEW_PORT is required")
	}
	if c.XTBCommand == "" {
		return fmt.Errorf("MOLVIEW_XTB is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
