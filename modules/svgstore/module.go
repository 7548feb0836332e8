// Package svgstore combines SVG icons into one sprite of <symbol> elements.
package svgstore

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/assetgrid/internal/fileset"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/stage"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
	`<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">` + "\n"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments of the svgstore stage. Name defaults to the base
// directory of the first icon plus ".svg". Inline omits the XML prolog so the
// sprite can be embedded in HTML.
type Args struct {
	Name   string `hcl:"name,optional"`
	Inline bool   `hcl:"inline,optional"`
}

// Stage builds the sprite.
type Stage struct {
	Args
}

// icon is the subset of an SVG document the sprite keeps.
type icon struct {
	XMLName xml.Name `xml:"svg"`
	ViewBox string   `xml:"viewBox,attr"`
	Inner   []byte   `xml:",innerxml"`
}

type symbol struct {
	id   string
	icon icon
}

// Apply combines the icons. Symbol ids are the file names without extension,
// sorted; two icons with the same id are an error.
func (s *Stage) Apply(ctx context.Context, env *stage.Env, in fileset.FileSet) (fileset.FileSet, error) {
	if len(in) == 0 {
		return nil, nil
	}
	symbols := make([]symbol, 0, len(in))
	seen := make(map[string]string, len(in))
	for _, f := range in {
		id := strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
		if prev, dup := seen[id]; dup {
			return nil, stage.Wrap("svgstore", env.Rel(f.Path), fmt.Errorf("duplicate symbol id %q (also used by %s)", id, prev))
		}
		seen[id] = env.Rel(f.Path)

		var ic icon
		if err := xml.Unmarshal(f.Contents, &ic); err != nil {
			return nil, stage.Wrap("svgstore", env.Rel(f.Path), err)
		}
		symbols = append(symbols, symbol{id: id, icon: ic})
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].id < symbols[j].id })

	var buf bytes.Buffer
	if !s.Inline {
		buf.WriteString(xmlHeader)
	}
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`)
	for _, sym := range symbols {
		fmt.Fprintf(&buf, `<symbol id="%s"`, html.EscapeString(sym.id))
		if sym.icon.ViewBox != "" {
			fmt.Fprintf(&buf, ` viewBox="%s"`, html.EscapeString(sym.icon.ViewBox))
		}
		buf.WriteString(">")
		buf.Write(bytes.TrimSpace(sym.icon.Inner))
		buf.WriteString("</symbol>")
	}
	buf.WriteString("</svg>")

	first := in[0]
	name := s.Name
	if name == "" {
		name = filepath.Base(first.Base) + ".svg"
	}
	env.Logger.Debug("Combined icons.", "name", name, "symbols", len(symbols))
	return fileset.FileSet{{
		Path:     filepath.Join(first.Base, name),
		Base:     first.Base,
		Contents: buf.Bytes(),
		ModTime:  first.ModTime,
	}}, nil
}

// Register registers the stage with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("svgstore", &registry.RegisteredStage{
		NewArgs: func() any { return &Args{Inline: true} },
		Build: func(a any) (stage.Stage, error) {
			return &Stage{Args: *a.(*Args)}, nil
		},
	})
}
