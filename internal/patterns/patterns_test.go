package patterns

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldmark-ai/fieldmark/internal/vars"
)

const loginPatterns = `
version: v1
screens:
  - screen: loginPage
    fields:
      input: "//input[@placeholder='#{loc.auto.fieldName}'];input[name='#{loc.auto.fieldName.toLowerCase}']"
      button: "button:has-text('#{loc.auto.fieldName}')"
      label: "label:has-text('#{loc.auto.fieldName}')"
    sections:
      Login Form: "css=form#login"
    locations:
      Main Content: "css=main"
    scroll_targets:
      - "css=main"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newRepo(t *testing.T) (*vars.Store, *Repository) {
	t.Helper()
	store := vars.NewStore()
	return store, NewRepository(store, slog.Default())
}

func TestParseYAML_Valid(t *testing.T) {
	f, err := ParseYAML([]byte(loginPatterns))
	require.NoError(t, err)

	require.Len(t, f.Screens, 1)
	screen := f.Screens[0]
	assert.Equal(t, "loginPage", screen.ScreenCode)
	assert.Contains(t, screen.Fields, "input")
	assert.Equal(t, "css=form#login", screen.Sections["Login Form"])
	assert.Equal(t, []string{"css=main"}, screen.ScrollTargets)
}

func TestParseYAML_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "::::"},
		{name: "missing version", yaml: "screens:\n  - screen: a\n"},
		{name: "wrong version", yaml: "version: v2\nscreens:\n  - screen: a\n"},
		{name: "no screens", yaml: "version: v1\nscreens: []\n"},
		{name: "screen without code", yaml: "version: v1\nscreens:\n  - fields:\n      input: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestRepository_LoadAndFlatten(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.yaml", loginPatterns)

	store, repo := newRepo(t)
	require.NoError(t, repo.Load(dir))

	// Flattened keys live in the store under the screen namespace
	assert.True(t, store.Has("pattern.loginPage.fields.input"))
	assert.True(t, store.Has("pattern.loginPage.sections.Login Form"))
	assert.True(t, store.Has("pattern.loginPage.locations.Main Content"))

	tmpl, ok := repo.Lookup("loginPage", CategorySections, "Login Form")
	require.True(t, ok)
	assert.Equal(t, "css=form#login", tmpl)

	templates := repo.FieldTemplates("loginPage", "input")
	require.Len(t, templates, 2)
	assert.Equal(t, "//input[@placeholder='#{loc.auto.fieldName}']", templates[0])
	assert.Equal(t, "input[name='#{loc.auto.fieldName.toLowerCase}']", templates[1])

	assert.Equal(t, []string{"css=main"}, repo.ScrollTargets("loginPage"))
	assert.Equal(t, []string{"loginPage"}, repo.Screens())
}

func TestRepository_LastWriteWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_login.yaml", `
version: v1
screens:
  - screen: loginPage
    fields:
      button: "button.first"
      link: "a.first"
`)
	writeFile(t, dir, "b_login.yaml", `
version: v1
screens:
  - screen: loginPage
    fields:
      button: "button.second"
`)

	store, repo := newRepo(t)
	require.NoError(t, repo.Load(dir))

	tmpl, ok := repo.Lookup("loginPage", CategoryFields, "button")
	require.True(t, ok)
	assert.Equal(t, "button.second", tmpl, "second-loaded definition must win")

	// Replacement, not merge: keys of the first definition are gone
	assert.False(t, store.Has("pattern.loginPage.fields.link"))
	assert.Nil(t, repo.FieldTemplates("loginPage", "link"))
}

func TestRepository_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "version: nope\n")
	writeFile(t, dir, "good.yaml", loginPatterns)

	_, repo := newRepo(t)
	require.NoError(t, repo.Load(dir), "one bad file must not abort loading")
	assert.True(t, repo.HasScreen("loginPage"))
}

func TestRepository_AllFilesBad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "version: nope\n")

	_, repo := newRepo(t)
	assert.Error(t, repo.Load(dir))
}

func TestRepository_MissingLookups(t *testing.T) {
	_, repo := newRepo(t)

	_, ok := repo.Lookup("ghost", CategoryFields, "input")
	assert.False(t, ok)
	assert.Nil(t, repo.FieldTemplates("ghost", "input"))
	assert.Nil(t, repo.ScrollTargets("ghost"))
	assert.False(t, repo.HasScreen("ghost"))
}

func TestSplitTemplates(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitTemplates("a;b"))
	assert.Equal(t, []string{"a"}, SplitTemplates("a;"))
	assert.Equal(t, []string{"a", "b"}, SplitTemplates(" a ; b "))
	assert.Empty(t, SplitTemplates(""))
}
