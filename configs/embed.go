// Package configs provides embedded configuration templates for namedlog.
//
// Templates are embedded at build time, so they ship with every build.
//
// Template files:
//   - user-config.example.yaml: machine-wide settings, written by
//     `namedlog config init`
//   - project-config.example.yaml: per-project overrides, written by
//     `namedlog config init --project`
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults
//  2. User config (~/.config/namedlog/config.yaml)
//  3. Project config (.namedlog.yaml)
//  4. Environment variables (NAMEDLOG_*)
package configs

import _ "embed"

// UserConfigTemplate is the template for the user configuration.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is the template for a project configuration.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
