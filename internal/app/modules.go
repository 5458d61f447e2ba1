package app

import (
	"github.com/vk/weft/internal/registry"
	"github.com/vk/weft/modules/timing"
	"github.com/vk/weft/modules/verbosity"
)

// coreModules is the definitive list of all modules that are compiled into
// the weft binary.
var coreModules = []registry.Module{
	&timing.Module{},
	&verbosity.Module{},
}
