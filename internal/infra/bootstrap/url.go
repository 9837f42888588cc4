// Where: internal/infra/bootstrap/url.go
// What: Download URL rendering.
// Why: Let the archive location be configured as a template over the platform tags.
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// URLParams are the fields available to the URL template.
type URLParams struct {
	Tool    string
	OS      string
	Arch    string
	Version string
}

// RenderURL executes tmpl with sprig functions and checks the result is an absolute http(s) URL.
func RenderURL(tmpl string, params URLParams) (string, error) {
	parsed, err := template.New("url").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadURL, err)
	}
	var b strings.Builder
	if err := parsed.Execute(&b, params); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadURL, err)
	}
	rendered := strings.TrimSpace(b.String())
	u, err := url.Parse(rendered)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrBadURL, rendered)
	}
	return rendered, nil
}
