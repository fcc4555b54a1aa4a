package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type indexedRow struct {
	ID        string `bson:"_id,omitempty"`
	SheetID   string `bson:"sheetId" index:"single:1;compound:sheet_row_unique"`
	RowNumber int    `bson:"rowNumber" index:"compound:sheet_row_unique"`
	Email     string `bson:"email,omitempty" index:"unique,sparse"`
	CreatedAt int64  `bson:"createdAt" index:"single:1,order:-1"`
	Ignored   string `bson:"-" index:"single:1"`
}

func TestParseIndexTag(t *testing.T) {
	got := parseIndexTag("single:1,order:-1;compound:sheet_row_unique")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0]["single"])
	assert.Equal(t, "-1", got[0]["order"])
	assert.Equal(t, "sheet_row_unique", got[1]["compound"])
}

func TestIndexSpecsFromModel(t *testing.T) {
	specs := indexSpecsFromModel(&indexedRow{})

	byName := map[string]indexSpec{}
	for _, s := range specs {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "sheetId_single")
	require.Contains(t, byName, "email_unique")
	require.Contains(t, byName, "createdAt_single")
	require.Contains(t, byName, "sheet_row_unique")
	assert.Len(t, byName, 4)

	compound := byName["sheet_row_unique"]
	assert.True(t, compound.Unique)
	assert.Equal(t, bson.D{{Key: "sheetId", Value: 1}, {Key: "rowNumber", Value: 1}}, compound.Keys)

	assert.True(t, byName["email_unique"].Sparse)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, byName["createdAt_single"].Keys)
}

func TestSameIndex(t *testing.T) {
	spec := indexSpec{Name: "sheet_row_unique", Keys: bson.D{{Key: "sheetId", Value: 1}, {Key: "rowNumber", Value: 1}}, Unique: true}
	info := bson.M{"name": "sheet_row_unique", "key": bson.M{"sheetId": int32(1), "rowNumber": int32(1)}, "unique": true}
	assert.True(t, sameIndex(info, spec))

	info["unique"] = false
	assert.False(t, sameIndex(info, spec))
}
