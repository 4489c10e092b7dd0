package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHasBuiltins(t *testing.T) {
	c := NewCatalog()
	for _, id := range []string{"password-reset", "prize-alert", "account-alert", "document-share"} {
		assert.True(t, c.Has(id), "missing builtin %q", id)
	}
	assert.False(t, c.Has("ceo-fraud"))
	assert.Len(t, c.List(), 4)
}

func TestRenderEmbedsTrackingURL(t *testing.T) {
	c := NewCatalog()
	in := RenderInput{
		TrackingURL:      "https://drill.example.com/api/interact?q=abc123",
		ParticipantEmail: "alice@corp.test",
		CampaignName:     "Q4 Drill",
	}

	for _, tpl := range c.List() {
		out, err := c.Render(tpl.ID, in)
		require.NoError(t, err, "render %q", tpl.ID)
		assert.Contains(t, out.HTML, in.TrackingURL, "template %q must link through the tracker", tpl.ID)
		assert.NotEmpty(t, out.Subject)
	}
}

func TestRenderPersonalization(t *testing.T) {
	c := NewCatalog()
	out, err := c.Render("account-alert", RenderInput{
		TrackingURL:      "https://drill.example.com/api/interact?q=abc",
		ParticipantEmail: "bob@corp.test",
	})
	require.NoError(t, err)
	assert.True(t, strings.Contains(out.HTML, "bob@corp.test"))
}

func TestRenderUnknownTemplate(t *testing.T) {
	c := NewCatalog()
	_, err := c.Render("nope", RenderInput{})
	assert.Error(t, err)
}
