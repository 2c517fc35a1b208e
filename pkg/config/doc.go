// Package config provides the oasmock configuration file and its defaults.
//
// A configuration is read from YAML, then environment overrides are applied:
//
//	OASMOCK_SPEC        path to the OpenAPI document
//	OASMOCK_LISTEN      listen address, e.g. ":4010"
//	OASMOCK_LOG_LEVEL   debug, info, warn or error
//	OASMOCK_LOG_FORMAT  text or json
//	OASMOCK_DYNAMIC     true to generate bodies instead of using examples
//
// Typical use:
//
//	cfg, err := config.Load("oasmock.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
