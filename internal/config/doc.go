// Package config manages user-level settings stored at
// ~/.hyperapp-create/config.yaml. Settings can also come from
// HYPERAPP_CREATE_* environment variables, and command-line flags bound
// through BindFlag take precedence over both.
package config
