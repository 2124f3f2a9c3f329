package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPath(t *testing.T) {
	p, err := NewPath(testCampusFile)
	require.NoError(t, err)
	assert.True(t, p.IsFile())
	assert.Equal(t, testCampusFile, p.String())

	p, err = NewPath("campus.floors")
	require.NoError(t, err)
	assert.False(t, p.IsFile())
	assert.Equal(t, "campus", p.GetDb())
	assert.Equal(t, "floors", p.GetColl())
	assert.Equal(t, "campus.floors", p.String())

	p, err = NewPath("  ")
	assert.NoError(t, err)
	assert.Nil(t, p)

	_, err = NewPath("a.b.c")
	assert.Error(t, err)
	_, err = NewPath("testdata/nothing.yaml")
	assert.Error(t, err)
}
