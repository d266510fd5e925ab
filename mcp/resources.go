package mcp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/lvillar/resumepdf"
	"github.com/lvillar/resumepdf/assets"
)

// RegisterDefaultResources adds the theme, layout and block listings to
// the server. Single documents are read with a name query parameter, e.g.
// resume://theme?name=aqua-card.
func RegisterDefaultResources(s *Server, g *resumepdf.Generator) {
	s.AddResource(Resource{
		URI:         "resume://themes",
		Name:        "Themes",
		Description: "Names of the available themes",
		MIMEType:    "application/json",
		Handler:     listResource(func() ([]string, error) { return g.Assets().List(assets.KindTheme) }),
	})
	s.AddResource(Resource{
		URI:         "resume://layouts",
		Name:        "Layouts",
		Description: "Names of the available layouts",
		MIMEType:    "application/json",
		Handler:     listResource(func() ([]string, error) { return g.Assets().List(assets.KindLayout) }),
	})
	s.AddResource(Resource{
		URI:         "resume://blocks",
		Name:        "Blocks",
		Description: "Names of the registered blocks",
		MIMEType:    "application/json",
		Handler:     listResource(func() ([]string, error) { return g.Registry().List(), nil }),
	})
	s.AddResource(Resource{
		URI:         "resume://theme",
		Name:        "Theme Document",
		Description: "A theme document. Pass the name as a query parameter: resume://theme?name=default",
		MIMEType:    "text/plain",
		Handler:     documentResource(g, assets.KindTheme),
	})
	s.AddResource(Resource{
		URI:         "resume://layout",
		Name:        "Layout Document",
		Description: "A layout document. Pass the name as a query parameter: resume://layout?name=two-column",
		MIMEType:    "text/plain",
		Handler:     documentResource(g, assets.KindLayout),
	})
}

// resourceKey drops the query of a resource URI.
func resourceKey(uri string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		return uri[:i]
	}
	return uri
}

func nameFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Query().Get("name")
}

func listResource(list func() ([]string, error)) ResourceHandler {
	return func(uri string) ([]ResourceContent, error) {
		names, err := list()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(names)
		if err != nil {
			return nil, err
		}
		return []ResourceContent{{URI: uri, MIMEType: "application/json", Text: string(data)}}, nil
	}
}

func documentResource(g *resumepdf.Generator, kind assets.Kind) ResourceHandler {
	return func(uri string) ([]ResourceContent, error) {
		name := nameFromURI(uri)
		if name == "" {
			return nil, fmt.Errorf("missing 'name' parameter in URI")
		}
		data, err := g.Assets().Load(kind, name)
		if err != nil {
			return nil, err
		}
		return []ResourceContent{{URI: uri, MIMEType: "text/plain", Text: string(data)}}, nil
	}
}
