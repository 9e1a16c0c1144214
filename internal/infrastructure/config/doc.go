// Package config handles loading and validation of Point Relay configuration.
//
// Configuration is loaded from a YAML file with three layers of precedence:
//
//  1. Hardcoded defaults (lowest)
//  2. YAML file values
//  3. POINTRELAY_* environment variables (highest)
//
// The loaded Config is immutable by convention: components copy the sections
// they need at construction and never write back.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Secrets (MQTT password, store token) should be supplied via environment
// variables rather than committed to the configuration file.
package config
