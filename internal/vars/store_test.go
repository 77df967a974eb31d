package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetMissing(t *testing.T) {
	store := NewStore()

	assert.Equal(t, "pattern.loginPage.fields.input", store.Get("pattern.loginPage.fields.input", false),
		"missing key should return the bare key name")
	assert.Equal(t, "", store.Get("pattern.loginPage.fields.input", true),
		"missing key should return empty when asked")
}

func TestStore_SetGet(t *testing.T) {
	store := NewStore()
	store.Set("config.baseUrl", "https://example.com")

	assert.Equal(t, "https://example.com", store.Get("config.baseUrl", false))
	assert.True(t, store.Has("config.baseUrl"))
	assert.False(t, store.Has("config.other"))
}

func TestStore_EnvPassthrough(t *testing.T) {
	t.Setenv("FIELDMARK_TEST_VALUE", "from-env")

	store := NewStore()
	// env. keys bypass the store even when a store entry shadows them
	store.Set("env.FIELDMARK_TEST_VALUE", "from-store")

	assert.Equal(t, "from-env", store.Get("env.FIELDMARK_TEST_VALUE", false))
	assert.Equal(t, "", store.Get("env.FIELDMARK_TEST_UNSET", true))
}

func TestStore_DeletePrefix(t *testing.T) {
	store := NewStore()
	store.Set("pattern.loginPage.fields.input", "a")
	store.Set("pattern.loginPage.fields.button", "b")
	store.Set("pattern.checkout.fields.input", "c")

	store.DeletePrefix("pattern.loginPage.")

	assert.False(t, store.Has("pattern.loginPage.fields.input"))
	assert.False(t, store.Has("pattern.loginPage.fields.button"))
	assert.True(t, store.Has("pattern.checkout.fields.input"))
}

func TestSubstitute(t *testing.T) {
	store := NewStore()
	store.Set("loc.auto.fieldName", "Username")
	store.Set("loc.auto.fieldName.toLowerCase", "username")

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "single placeholder",
			template: "//input[@placeholder='#{loc.auto.fieldName}']",
			expected: "//input[@placeholder='Username']",
		},
		{
			name:     "multiple placeholders",
			template: "input[name='#{loc.auto.fieldName.toLowerCase}'][data-label='#{loc.auto.fieldName}']",
			expected: "input[name='username'][data-label='Username']",
		},
		{
			name:     "missing key becomes empty",
			template: "input[id='#{loc.auto.forId}']",
			expected: "input[id='']",
		},
		{
			name:     "no placeholders",
			template: "css=form#login",
			expected: "css=form#login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, store.Substitute(tt.template))
		})
	}
}

func TestSubstitute_SinglePassOnly(t *testing.T) {
	store := NewStore()
	store.Set("outer", "#{inner}")
	store.Set("inner", "should-not-appear")

	// A substituted value containing #{...} is not re-substituted.
	assert.Equal(t, "value: #{inner}", store.Substitute("value: #{outer}"))
}

func TestSubstitute_Idempotent(t *testing.T) {
	store := NewStore()
	store.Set("loc.auto.fieldName", "Username")

	templates := []string{
		"//input[@placeholder='#{loc.auto.fieldName}']",
		"input[id='#{loc.auto.forId}']",
		"css=form#login",
	}
	for _, tmpl := range templates {
		once := store.Substitute(tmpl)
		assert.Equal(t, once, store.Substitute(once), "substitute must be idempotent on its own output for %q", tmpl)
	}
}

func TestScope_OverlayAndReset(t *testing.T) {
	store := NewStore()
	store.Set("pattern.loginPage.fields.input", "input[id='#{loc.auto.forId}']")

	scope := NewScope(store)
	scope.Set("loc.auto.fieldName", "Username")
	scope.Set("loc.auto.forId", "user-name")

	require.Equal(t, "Username", scope.Get("loc.auto.fieldName", false))
	assert.Equal(t, "input[id='user-name']", scope.Substitute("input[id='#{loc.auto.forId}']"))

	// Scope reads fall through to the store
	assert.Equal(t, "input[id='#{loc.auto.forId}']", scope.Get("pattern.loginPage.fields.input", false))

	scope.Reset()

	// After reset the transient variables are absent everywhere
	assert.Equal(t, "loc.auto.fieldName", scope.Get("loc.auto.fieldName", false))
	assert.Equal(t, "loc.auto.fieldName", store.Get("loc.auto.fieldName", false))
	assert.False(t, store.Has("loc.auto.fieldName"), "scope writes must never reach the store")
}

func TestScope_Isolation(t *testing.T) {
	store := NewStore()

	first := NewScope(store)
	second := NewScope(store)
	first.Set("loc.auto.fieldName", "Username")

	assert.Equal(t, "", second.Get("loc.auto.fieldName", true),
		"concurrent scopes must not observe each other's context")
}
