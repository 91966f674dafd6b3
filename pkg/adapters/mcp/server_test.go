package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/inkmap/pkg/adapters/memory"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateTools(t *testing.T) {
	ctx := context.Background()
	s := NewServer(memory.NewStore(), nil)
	req := mcp.CallToolRequest{}

	got, err := s.handleGetCoordinates(ctx, req, map[string]interface{}{"word_id": "5"})
	require.NoError(t, err)
	assert.Nil(t, got.Coordinates)

	saved, err := s.handleSaveCoordinates(ctx, req, map[string]interface{}{
		"word_id":     "5",
		"coordinates": "[[0,0],[10,0],[10,10]]",
	})
	require.NoError(t, err)
	assert.Len(t, saved.Coordinates, 3)

	got, err = s.handleGetCoordinates(ctx, req, map[string]interface{}{"word_id": float64(5)})
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{{0, 0}, {10, 0}, {10, 10}}, got.Coordinates)

	words, err := s.handleListWords(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.WordID{"5"}, words.Words)
}

func TestSaveCoordinates_Invalid(t *testing.T) {
	ctx := context.Background()
	s := NewServer(memory.NewStore(), nil)

	_, err := s.handleSaveCoordinates(ctx, mcp.CallToolRequest{}, map[string]interface{}{"word_id": "5", "coordinates": "[]"})
	var empty *domain.EmptyAnnotationError
	assert.ErrorAs(t, err, &empty)

	_, err = s.handleSaveCoordinates(ctx, mcp.CallToolRequest{}, map[string]interface{}{"coordinates": "[[1,1]]"})
	assert.ErrorIs(t, err, domain.ErrInvalidWordID)

	_, err = s.handleSaveCoordinates(ctx, mcp.CallToolRequest{}, map[string]interface{}{"word_id": "5", "coordinates": "nope"})
	assert.Error(t, err)
}

func TestStitchTool(t *testing.T) {
	s := NewServer(memory.NewStore(), nil)
	strokes := `[{"path": [{"x":0,"y":0},{"x":1,"y":1}]}, {"path": [{"x":5,"y":5},{"x":1,"y":2}]}]`

	got, err := s.handleStitch(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"strokes": strokes})
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{{0, 0}, {1, 1}, {1, 2}, {5, 5}}, got.Coordinates)
}

func TestToolsList(t *testing.T) {
	s := NewServer(memory.NewStore(), nil)

	resp := s.mcpServer.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"get_coordinates", "save_coordinates", "delete_coordinates", "list_words", "stitch_strokes"} {
		assert.Contains(t, string(data), name)
	}
}

func TestDeleteTool_RejectsInvalidWord(t *testing.T) {
	s := NewServer(memory.NewStore(), nil)

	resp := s.mcpServer.HandleMessage(context.Background(), []byte(
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"delete_coordinates","arguments":{"word_id":"../x"}}}`))
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isError":true`)
	assert.Contains(t, string(data), "invalid word id")
}
