// Package pkgmeta reads the package metadata the banners are rendered from.
package pkgmeta

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/vk/assetgrid/internal/config"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when the pipeline file names no metadata file.
const DefaultFile = "package.json"

// Author is the package author. In package.json it is either an object or a
// single "Name <email> (url)" string.
type Author struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	URL   string `yaml:"url"`
}

var authorPattern = regexp.MustCompile(`^\s*([^<(]*?)\s*(?:<([^>]*)>)?\s*(?:\(([^)]*)\))?\s*$`)

// UnmarshalYAML accepts both author notations.
func (a *Author) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		m := authorPattern.FindStringSubmatch(node.Value)
		if m == nil {
			a.Name = strings.TrimSpace(node.Value)
			return nil
		}
		a.Name, a.Email, a.URL = m[1], m[2], m[3]
		return nil
	}
	type plain Author
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*a = Author(p)
	return nil
}

// Metadata is the subset of package.json the pipeline uses.
type Metadata struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Homepage    string `yaml:"homepage"`
	License     string `yaml:"license"`
	Author      Author `yaml:"author"`
}

// Parse decodes JSON or YAML metadata.
func Parse(data []byte) (*Metadata, error) {
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding package metadata: %w", err)
	}
	if m.Title == "" {
		m.Title = m.Name
	}
	return &m, nil
}

// Load reads path and applies the overrides of the package block. A missing
// file is not an error when the overrides alone are enough to render banners.
func Load(path string, overrides *config.Package) (*Metadata, error) {
	m := &Metadata{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if m, err = Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && overrides != nil:
	default:
		return nil, fmt.Errorf("reading package metadata: %w", err)
	}
	m.apply(overrides)
	return m, nil
}

func (m *Metadata) apply(o *config.Package) {
	if o == nil {
		return
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&m.Name, o.Name)
	set(&m.Title, o.Title)
	set(&m.Version, o.Version)
	set(&m.Description, o.Description)
	set(&m.Homepage, o.Homepage)
	set(&m.License, o.License)
	set(&m.Author.Name, o.AuthorName)
	set(&m.Author.URL, o.AuthorURL)
	if m.Title == "" {
		m.Title = m.Name
	}
}

// CtyValue exposes the metadata to HCL expressions as the `pkg` object.
func (m *Metadata) CtyValue() cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"name":        cty.StringVal(m.Name),
		"title":       cty.StringVal(m.Title),
		"version":     cty.StringVal(m.Version),
		"description": cty.StringVal(m.Description),
		"homepage":    cty.StringVal(m.Homepage),
		"license":     cty.StringVal(m.License),
		"author": cty.ObjectVal(map[string]cty.Value{
			"name":  cty.StringVal(m.Author.Name),
			"email": cty.StringVal(m.Author.Email),
			"url":   cty.StringVal(m.Author.URL),
		}),
	})
}
