package integration_tests

import (
	"github.com/vk/assetgrid/internal/config"
	"github.com/vk/assetgrid/internal/hcl_adapter"
)

func hclLoader() config.Loader { return hcl_adapter.NewLoader() }
