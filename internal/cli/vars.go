package cli

import (
	"github.com/valter-silva-au/witag/internal/core"
	"github.com/valter-silva-au/witag/pkg/workitem"
)

// InitOptions carries the global flags to the initializer.
type InitOptions struct {
	ConfigFile string
	Manifests  []string
	LogLevel   string
}

// Init loads configuration and manifests once flags are parsed and fills in
// the service variables below. It is set by app.go.
var Init func(opts InitOptions) error

// Services used by commands, set by Init.
var (
	Registry *workitem.Registry
	Linker   core.Linker
	Checker  core.Checker
)
