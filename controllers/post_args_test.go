package controllers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsArg(t *testing.T) {
	assert.Nil(t, tagsArg(nil))
	assert.Equal(t, []string{"one"}, tagsArg("one"))
	assert.Equal(t, []string{"3"}, tagsArg(json.Number("3")))
	assert.Equal(t, []string{"a", "b"}, tagsArg([]any{"a", nil, "b"}))
	assert.Equal(t, []string{}, tagsArg([]any{}))
	assert.Nil(t, tagsArg([]any{"a", map[string]any{}}))
	assert.Nil(t, tagsArg(map[string]any{"a": 1}))
}

func TestScalarArg(t *testing.T) {
	s := scalarArg("x")
	require.NotNil(t, s)
	assert.Equal(t, "x", *s)

	s = scalarArg(json.Number("10"))
	require.NotNil(t, s)
	assert.Equal(t, "10", *s)

	s = scalarArg(false)
	require.NotNil(t, s)
	assert.Equal(t, "false", *s)

	s = scalarArg("")
	require.NotNil(t, s, "empty strings are present")

	assert.Nil(t, scalarArg(nil))
	assert.Nil(t, scalarArg([]any{"x"}))
}

func TestArgsFromJSON(t *testing.T) {
	args, err := argsFromJSON(strings.NewReader(`{"title":"t","tags":["a","b"]}`))
	require.NoError(t, err)
	require.NotNil(t, args.Title)
	assert.Equal(t, "t", *args.Title)
	assert.Nil(t, args.Content)
	assert.Equal(t, []string{"a", "b"}, args.Tags)

	args, err = argsFromJSON(strings.NewReader("  "))
	require.NoError(t, err)
	assert.Nil(t, args.Title)

	_, err = argsFromJSON(strings.NewReader("nope"))
	assert.ErrorIs(t, err, errInvalidPayload)
}
