package snapshots

import (
	"testing"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Layout written by the previous implementation of the service.
const legacyDocument = `{
  "users": [
    {
      "username": "John",
      "created_at": "2024-05-01T10:00:00.000001"
    }
  ],
  "tasks": {
    "John": [
      {
        "id": "5b0c0c1e-5d6f-4b47-9d55-0a1f1f7a8e11",
        "title": "Complete assignment",
        "completed": false,
        "created_at": "2024-05-01T10:01:00.000001"
      }
    ],
    "ghost": []
  }
}`

func sampleSnapshot() *models.Snapshot {
	s := models.NewSnapshot()
	s.Users = []models.User{
		{UserName: "alice", CreatedAt: "2025-01-01T00:00:00.000000Z"},
		{UserName: "bob", CreatedAt: "2025-01-01T00:00:01.000000Z"},
	}
	s.Tasks["alice"] = []models.Task{
		{ID: "a1", Title: "Buy milk", Completed: true, CreatedAt: "2025-01-01T00:00:02.000000Z"},
		{ID: "a2", Title: "Walk the dog", CreatedAt: "2025-01-01T00:00:03.000000Z"},
	}
	s.Tasks["bob"] = []models.Task{}
	s.Tasks["orphan"] = []models.Task{{ID: "o1", Title: "", CreatedAt: "2025-01-01T00:00:04.000000Z"}}
	return s
}

func TestDecode_LegacyDocument(t *testing.T) {
	s, err := Decode([]byte(legacyDocument))
	require.NoError(t, err)

	require.Len(t, s.Users, 1)
	assert.Equal(t, "John", s.Users[0].UserName)
	require.Len(t, s.Tasks["John"], 1)
	assert.Equal(t, "Complete assignment", s.Tasks["John"][0].Title)
	assert.False(t, s.Tasks["John"][0].Completed)

	ghost, ok := s.Bucket("ghost")
	assert.True(t, ok)
	assert.Empty(t, ghost)
}

func TestDecode_Normalizes(t *testing.T) {
	s, err := Decode([]byte(`{"tasks": {"alice": null}}`))
	require.NoError(t, err)
	assert.NotNil(t, s.Users)
	assert.NotNil(t, s.Tasks["alice"])

	s, err = Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, s.Users)
	assert.Empty(t, s.Tasks)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "whitespace", in: "  \n"},
		{name: "truncated", in: `{"users": [`},
		{name: "wrong type", in: `{"users": {}}`},
		{name: "trailing content", in: `{} {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.in))
			require.Error(t, err)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	in := sampleSnapshot()

	data, err := Encode(in)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	again, err := Encode(out)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again), "encoding a decoded snapshot must be byte-stable")
}

func TestEncode_EmptyCollectionsAreArrays(t *testing.T) {
	data, err := Encode(&models.Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"users": [], "tasks": {}}`, string(data))
}
