// Package templates holds the built-in simulated-phishing message
// templates and renders them with Liquid. Templates are pure content for
// training simulations: the only dynamic pieces are the tracking link and
// cosmetic personalization, and the rendered output is only ever shown to
// operators or handed out as simulation material.
package templates

import (
	"fmt"
	"sort"
	"sync"

	"github.com/osteele/liquid"
)

// Template is one message template in the catalog.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"-"`
}

// Catalog renders the built-in templates. Parsed templates are cached;
// the catalog is safe for concurrent use.
type Catalog struct {
	engine    *liquid.Engine
	templates map[string]Template
	cache     sync.Map // map[string]*liquid.Template
}

// NewCatalog creates the catalog with the built-in template set.
func NewCatalog() *Catalog {
	c := &Catalog{
		engine:    liquid.NewEngine(),
		templates: make(map[string]Template),
	}
	for _, t := range builtins {
		c.templates[t.ID] = t
	}
	return c
}

// Has reports whether a template id exists.
func (c *Catalog) Has(id string) bool {
	_, ok := c.templates[id]
	return ok
}

// List returns the catalog entries sorted by id.
func (c *Catalog) List() []Template {
	out := make([]Template, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RenderInput carries the variables a template body may reference.
type RenderInput struct {
	TrackingURL      string
	ParticipantEmail string
	CampaignName     string
}

// Rendered is a fully rendered message.
type Rendered struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Render renders a template body against the given input.
func (c *Catalog) Render(id string, in RenderInput) (*Rendered, error) {
	t, ok := c.templates[id]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", id)
	}

	tpl, err := c.parsed(t)
	if err != nil {
		return nil, err
	}

	bindings := map[string]any{
		"tracking_url":      in.TrackingURL,
		"participant_email": in.ParticipantEmail,
		"campaign_name":     in.CampaignName,
	}
	html, err := tpl.RenderString(bindings)
	if err != nil {
		return nil, fmt.Errorf("rendering template %q: %w", id, err)
	}

	return &Rendered{Subject: t.Subject, HTML: html}, nil
}

func (c *Catalog) parsed(t Template) (*liquid.Template, error) {
	if cached, ok := c.cache.Load(t.ID); ok {
		return cached.(*liquid.Template), nil
	}
	tpl, err := c.engine.ParseString(t.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", t.ID, err)
	}
	c.cache.Store(t.ID, tpl)
	return tpl, nil
}
