package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec(t *testing.T) {
	c := jsonCodec{}
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&Endpoint{Kind: "nearest_stair"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"nearest_stair"}`, string(data))

	var req ListFloorsRequest
	require.NoError(t, c.Unmarshal(nil, &req))
	assert.Empty(t, req.Building)
	assert.Error(t, c.Unmarshal([]byte("{"), &req))
}

func TestParseEndpoint(t *testing.T) {
	for _, kind := range []string{"classroom", "stair", "nearest_stair", "exit"} {
		ep, err := parseEndpoint(Endpoint{Kind: kind, Index: 1})
		require.NoError(t, err)
		out := formatEndpoint(ep)
		assert.Equal(t, kind, out.Kind)
	}
	_, err := parseEndpoint(Endpoint{Kind: "lift"})
	assert.Error(t, err)
}
