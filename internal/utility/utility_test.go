package utility

import (
	"testing"
	"time"

	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToDisplayString(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"string", "Baku", "Baku"},
		{"int", 42, "42"},
		{"int64", int64(7), "7"},
		{"float without trailing zeros", 12.5, "12.5"},
		{"whole float", float64(3), "3"},
		{"bool", true, "true"},
		{"time", ts, "2024-03-01T10:00:00Z"},
		{"datetime", primitive.NewDateTimeFromTime(ts), "2024-03-01T10:00:00Z"},
		{"array", primitive.A{"a", 1}, "a, 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDisplayString(tt.in))
		})
	}
}

func TestString2ObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := String2ObjectID("sheetId", id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = String2ObjectID("sheetId", "nope")
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
}

func TestParseIntParam(t *testing.T) {
	n, err := ParseIntParam("page", "", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = ParseIntParam("page", " 3 ", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = ParseIntParam("page", "x", 1)
	assert.True(t, common.IsValidation(err))
}

func TestUniqueAndRemove(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Unique([]string{"a", "b", "a"}))
	assert.Equal(t, []int{1, 3}, Remove([]int{1, 2, 3, 2}, 2))
	assert.True(t, Contains([]int{1, 2}, 2))
}

func TestToMap(t *testing.T) {
	type doc struct {
		Name  string `bson:"name"`
		Count int    `bson:"count,omitempty"`
	}
	m, err := ToMap(doc{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", m["name"])
	_, ok := m["count"]
	assert.False(t, ok)
}
