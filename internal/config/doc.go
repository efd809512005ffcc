// Package config loads and validates application configuration using viper
// and go-playground/validator.
//
// Precedence, lowest first: built-in defaults, config.yaml, then environment
// variables prefixed with SIMFLEET_ where dots become underscores
// (store.url is SIMFLEET_STORE_URL).
package config
