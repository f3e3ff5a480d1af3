// bake.go renders docker-bake.hcl. No HCL encoder appears anywhere in the
// retrieved examples, so this is generated with a fixed text/template —
// see SPEC_FULL.md's stdlib-only justification list.
package buildplan

import (
	"bytes"
	"fmt"
	"text/template"
)

var bakeTemplate = template.Must(template.New("bake").Parse(`# Generated by wtd for {{.ContainerName}} — do not edit, regenerated on each reconcile
target "{{.ContainerName}}" {
  context    = "."
  dockerfile = "Dockerfile"
  target     = "final"
  tags       = ["{{.ImageTag}}"]
{{- if .Platforms}}
  platforms  = [{{.Platforms}}]
{{- end}}
{{- if .NoCache}}
  no-cache   = true
{{- else}}
  cache-from = [{{.CacheFrom}}]
  cache-to   = [{{.CacheTo}}]
{{- end}}
}
`))

// BakeInput carries the values the docker-bake.hcl template needs.
type BakeInput struct {
	ContainerName  string
	ImageTag       string
	Platforms      string // comma-separated list, already quoted per entry
	BuildxCacheDir string
	CacheRegistry  string
	NoCache        bool
}

// BakeHCL renders the docker-bake.hcl build manifest for one container
// target, pointing --cache-from/--cache-to at the local buildx cache dir
// (plus a registry cache target when configured) unless --nocache was given,
// in which case the target sets no-cache = true instead.
func BakeHCL(in BakeInput) ([]byte, error) {
	cacheFrom := fmt.Sprintf("%q", "type=local,src="+in.BuildxCacheDir)
	cacheTo := fmt.Sprintf("%q", "type=local,dest="+in.BuildxCacheDir+",mode=max")
	if in.CacheRegistry != "" {
		cacheFrom += fmt.Sprintf(`, %q`, "type=registry,ref="+in.CacheRegistry)
		cacheTo += fmt.Sprintf(`, %q`, "type=registry,ref="+in.CacheRegistry+",mode=max")
	}

	data := struct {
		BakeInput
		CacheFrom string
		CacheTo   string
	}{BakeInput: in, CacheFrom: cacheFrom, CacheTo: cacheTo}

	var buf bytes.Buffer
	if err := bakeTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render docker-bake.hcl: %w", err)
	}
	return buf.Bytes(), nil
}
