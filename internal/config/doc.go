// Package config provides configuration structures and utilities for LinkWeave.
//
// Settings come from four layers, later layers overriding earlier ones:
// built-in defaults, the YAML config file (.linkweave), environment
// variables (optionally loaded from a .env file), and CLI flags.
package config
