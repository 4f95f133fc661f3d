package descriptor

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// parseOpenAPI extracts info.title, info.version and one operation per
// (path, method) pair. kin-openapi accepts both JSON and YAML input.
func parseOpenAPI(d *Descriptor, sourceText string) {
	loader := openapi3.NewLoader()

	doc, err := loadOpenAPIDoc(loader, []byte(sourceText))
	if err != nil {
		d.Error = fmt.Sprintf("parsing OpenAPI document: %v", err)
		// Loose YAML/JSON fallback: an unloadable document may still
		// carry an info block worth surfacing.
		recoverOpenAPIInfo(d, sourceText)
		return
	}

	if doc.Info != nil {
		if doc.Info.Title != "" {
			d.Name = doc.Info.Title
		}
		d.Version = doc.Info.Version
		d.Description = doc.Info.Description
	}

	serverURL := ""
	if len(doc.Servers) > 0 {
		serverURL = doc.Servers[0].URL
	}

	if doc.Paths == nil {
		return
	}

	// Sorted paths keep extraction deterministic across parses.
	paths := make([]string, 0, len(doc.Paths.Map()))
	for path := range doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		pathItem := doc.Paths.Value(path)
		if pathItem == nil {
			continue
		}
		for _, entry := range []struct {
			method string
			op     *openapi3.Operation
		}{
			{"GET", pathItem.Get},
			{"POST", pathItem.Post},
			{"PUT", pathItem.Put},
			{"PATCH", pathItem.Patch},
			{"DELETE", pathItem.Delete},
			{"HEAD", pathItem.Head},
			{"OPTIONS", pathItem.Options},
		} {
			if entry.op == nil {
				continue
			}
			summary := entry.op.Summary
			if summary == "" {
				summary = entry.op.Description
			}
			d.Operations = append(d.Operations, &RESTOperation{
				Method:    entry.method,
				Path:      path,
				Summary:   summary,
				ServerURL: serverURL,
			})
		}
	}
}

func loadOpenAPIDoc(loader *openapi3.Loader, data []byte) (doc *openapi3.T, err error) {
	// kin-openapi panics on some malformed inputs; normalization must not.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("loader panic: %v", r)
		}
	}()
	return loader.LoadFromData(data)
}

func recoverOpenAPIInfo(d *Descriptor, sourceText string) {
	var raw struct {
		Info struct {
			Title       string `yaml:"title" json:"title"`
			Version     string `yaml:"version" json:"version"`
			Description string `yaml:"description" json:"description"`
		} `yaml:"info" json:"info"`
	}
	if err := yaml.Unmarshal([]byte(sourceText), &raw); err != nil {
		return
	}
	if raw.Info.Title != "" {
		d.Name = raw.Info.Title
	}
	d.Version = raw.Info.Version
	d.Description = raw.Info.Description
}
