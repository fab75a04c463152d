package tooling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hoverAt(t *testing.T, api *API, at Position) *Hover {
	t.Helper()
	h, err := api.GetHover(sampleURI, at)
	require.NoError(t, err)
	return h
}

func TestHover_LibraryMember(t *testing.T) {
	api := openSample(t)

	h := hoverAt(t, api, pos(9, 22))
	require.NotNil(t, h)
	assert.Contains(t, h.Contents, "Sylvre.Console.output")
	assert.Contains(t, h.Contents, "Transpiles to `console.log`")
	assert.Equal(t, span(9, 20, 26), h.Range)
}

func TestHover_LibraryModuleAndRoot(t *testing.T) {
	api := openSample(t)

	module := hoverAt(t, api, pos(9, 14))
	require.NotNil(t, module)
	assert.Contains(t, module.Contents, "- `refresh` → `console.clear`")

	root := hoverAt(t, api, pos(9, 6))
	require.NotNil(t, root)
	assert.Contains(t, root.Contents, "`Math` → `Math`")
}

func TestHover_UnknownLibraryMember(t *testing.T) {
	api := NewAPI()
	_, err := api.ParseFile(sampleURI, "call Sylvre.Console.shout()#")
	require.NoError(t, err)

	assert.Nil(t, hoverAt(t, api, pos(0, 22)))
}

func TestHover_Keyword(t *testing.T) {
	api := openSample(t)

	h := hoverAt(t, api, pos(1, 15))
	require.NotNil(t, h)
	assert.Contains(t, h.Contents, "PARAMS")
	assert.Contains(t, h.Contents, "parameter list")
}

func TestHover_Symbols(t *testing.T) {
	api := openSample(t)

	fn := hoverAt(t, api, pos(6, 25))
	require.NotNil(t, fn)
	assert.Contains(t, fn.Contents, "function add PARAMS a, b")

	local := hoverAt(t, api, pos(2, 12))
	require.NotNil(t, local)
	assert.Contains(t, local.Contents, "create sum")
	assert.Contains(t, local.Contents, "*In function:* `add`")
}

func TestHover_ReservedName(t *testing.T) {
	api := NewAPI()
	_, err := api.ParseFile(sampleURI, "create delete = 1#")
	require.NoError(t, err)

	h := hoverAt(t, api, pos(0, 8))
	require.NotNil(t, h)
	assert.Contains(t, h.Contents, "Emitted as `__delete`")
}

func TestHover_Nothing(t *testing.T) {
	api := openSample(t)
	assert.Nil(t, hoverAt(t, api, pos(4, 0)))
}
