package app

import (
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/modules/autoprefixer"
	"github.com/vk/assetgrid/modules/clean"
	"github.com/vk/assetgrid/modules/concat"
	"github.com/vk/assetgrid/modules/dest"
	"github.com/vk/assetgrid/modules/header"
	"github.com/vk/assetgrid/modules/lint"
	"github.com/vk/assetgrid/modules/minify"
	"github.com/vk/assetgrid/modules/newer"
	"github.com/vk/assetgrid/modules/rename"
	"github.com/vk/assetgrid/modules/sass"
	"github.com/vk/assetgrid/modules/size"
	"github.com/vk/assetgrid/modules/svgstore"
)

// coreModules is the definitive list of all stage modules compiled into the
// assetgrid binary.
var coreModules = []registry.Module{
	&autoprefixer.Module{},
	&clean.Module{},
	&concat.Module{},
	&dest.Module{},
	&header.Module{},
	&lint.Module{},
	&minify.Module{},
	&newer.Module{},
	&rename.Module{},
	&sass.Module{},
	&size.Module{},
	&svgstore.Module{},
}
