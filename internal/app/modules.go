package app

import (
	"github.com/vk/depsgraph/internal/registry"
	"github.com/vk/depsgraph/modules/drivers"
	"github.com/vk/depsgraph/modules/geometry"
	"github.com/vk/depsgraph/modules/shading"
	"github.com/vk/depsgraph/modules/transform"
)

// coreModules is the definitive list of all modules that are compiled into
// the depsgraph binary.
var coreModules = []registry.Module{
	&transform.Module{},
	&geometry.Module{},
	&shading.Module{},
	&drivers.Module{},
}
