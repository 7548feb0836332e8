package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Packages    []*packageBlock    `hcl:"package,block"`
	Banners     []*bannerBlock     `hcl:"banner,block"`
	Selectors   []*selectorBlock   `hcl:"selector,block"`
	Tasks       []*taskBlock       `hcl:"task,block"`
	Watches     []*watchBlock      `hcl:"watch,block"`
	LiveReloads []*liveReloadBlock `hcl:"livereload,block"`
	Remain      hcl.Body           `hcl:",remain"`
}

type packageBlock struct {
	File        string `hcl:"file,optional"`
	Name        string `hcl:"name,optional"`
	Title       string `hcl:"title,optional"`
	Version     string `hcl:"version,optional"`
	Description string `hcl:"description,optional"`
	Homepage    string `hcl:"homepage,optional"`
	License     string `hcl:"license,optional"`
	AuthorName  string `hcl:"author_name,optional"`
	AuthorURL   string `hcl:"author_url,optional"`
}

// bannerBlock overrides one of the built-in banner templates.
type bannerBlock struct {
	Kind     string         `hcl:"kind,label"`
	Template hcl.Expression `hcl:"template"`
}

type selectorBlock struct {
	Name    string   `hcl:"name,label"`
	Include []string `hcl:"include"`
	Exclude []string `hcl:"exclude,optional"`
}

type taskBlock struct {
	Name        string        `hcl:"name,label"`
	Description string        `hcl:"description,optional"`
	DependsOn   []string      `hcl:"depends_on,optional"`
	Src         []string      `hcl:"src,optional"`
	Read        *bool         `hcl:"read,optional"`
	Action      string        `hcl:"action,optional"`
	Outputs     []string      `hcl:"outputs,optional"`
	Stages      []*stageBlock `hcl:"stage,block"`
}

// stageBlock keeps its body undecoded; the module owning Kind decodes it.
type stageBlock struct {
	Kind string   `hcl:"kind,label"`
	Body hcl.Body `hcl:",remain"`
}

type watchBlock struct {
	Name  string   `hcl:"name,label"`
	Paths []string `hcl:"paths"`
	Task  string   `hcl:"task"`
}

type liveReloadBlock struct {
	Addr string `hcl:"addr,optional"`
}
