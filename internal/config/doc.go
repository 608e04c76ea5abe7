// Package config provides configuration structures and utilities for privacyscan.
// It defines the timeout tiers and limits of a storage scan, tracker list
// extensions loaded from the .privacyscan file, environment overrides and
// report output preferences.
//
// Values are layered in this order, later layers winning:
//  1. NewConfig defaults
//  2. the YAML configuration file (.privacyscan)
//  3. PRIVACYSCAN_* environment variables, including those from a .env file
//  4. command-line flags
package config
