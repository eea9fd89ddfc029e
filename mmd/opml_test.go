package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOPMLHeaderOutline(t *testing.T) {
	eng := NewEngine([]byte("# Top\n\nbody\n\n## Child\n\nmore body\n\n# Second\n"))
	out, _ := Render(eng, NewOPMLRenderer())
	s := string(out)

	assert.Contains(t, s, "<?xml version=\"1.0\"")
	assert.Contains(t, s, `<outline text="Top">`)
	assert.Contains(t, s, `<outline text="Child">`)
	assert.Contains(t, s, `<outline text="Second">`)
	assert.Contains(t, s, "</opml>")
}

func TestOPMLFreshRendererPerDocument(t *testing.T) {
	eng := NewEngine([]byte("# A\n"))
	r1 := NewOPMLRenderer()
	out1, _ := Render(eng, r1)

	r2 := NewOPMLRenderer()
	out2, _ := Render(eng, r2)

	assert.Equal(t, string(out1), string(out2))
}
