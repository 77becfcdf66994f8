package cleaner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><head><title>About Acme</title></head><body>
<nav><a href="/">Home</a><a href="/pricing">Pricing</a></nav>
<main><article>
<h1>About Acme</h1>
<p>Acme Corporation has built precision anvils for over eighty years. Our customers range from cartoon coyotes to industrial blacksmiths across the world.</p>
<p>We ship to every continent and offer a lifetime warranty on all forged products, including rockets, catapults and giant magnets.</p>
<p>Read more on <a href="/history">our history page</a>.</p>
</article></main>
<footer>Copyright Acme</footer>
</body></html>`

func TestDigest(t *testing.T) {
	c := NewCleaner()

	d, err := c.Digest(articleHTML, "https://acme.example/about")
	require.NoError(t, err)

	assert.Contains(t, d.Markdown, "precision anvils")
	assert.Contains(t, d.Markdown, "https://acme.example/history", "relative links resolved")
	assert.NotContains(t, d.Markdown, "<p>")
	assert.NotEmpty(t, d.Excerpt)
	assert.Greater(t, d.Tokens.OriginalEstimate, d.Tokens.CleanedEstimate)
	assert.Greater(t, d.Tokens.SavingsPercent, 0.0)
}

func TestDigest_ShortPageFallsBackToRawHTML(t *testing.T) {
	c := NewCleaner()

	d, err := c.Digest(`<html><body><p>Tiny page.</p></body></html>`, "https://acme.example")
	require.NoError(t, err)
	assert.Contains(t, d.Markdown, "Tiny page.")
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("ab"))
	assert.Equal(t, 3, EstimateTokens("123456789"))
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "One.", firstSentence("One.  Two. Three."))
	assert.Equal(t, "No stop here", firstSentence("  No   stop\nhere "))
	assert.Len(t, firstSentence(strings.Repeat("a", 400)), 300)
}
