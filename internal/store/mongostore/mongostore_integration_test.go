//go:build integration

package mongostore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/database"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/registry"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupMongoContainer(t *testing.T, ctx context.Context) (*store.Store, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(fmt.Sprintf("mongodb://%s:%s", host, port.Port())))
	require.NoError(t, err)

	global.InitColNames()
	names := global.MongoDB_ColNames
	db := client.Database("avian_test")
	require.NoError(t, database.EnsureCollections(ctx, db, global.ColNameList()))

	collections := registry.NewRegistry[*mongo.Collection]()
	for _, name := range global.ColNameList() {
		_, err := collections.Register(name, db.Collection(name))
		require.NoError(t, err)
	}
	require.NoError(t, EnsureIndexes(ctx, collections, names))

	s, err := New(collections, names)
	require.NoError(t, err)

	cleanup := func() {
		_ = client.Disconnect(ctx)
		_ = container.Terminate(ctx)
	}
	return s, cleanup
}

func TestIntegration_MongoStore(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupMongoContainer(t, ctx)
	defer cleanup()

	sheet, err := s.Sheets.Insert(ctx, hiermodels.Sheet{Name: "Leads", ExcelID: primitive.NewObjectID(), ProjectID: primitive.NewObjectID()})
	require.NoError(t, err)

	t.Run("rows are unique per sheet and paged in order", func(t *testing.T) {
		rows := make([]sheetmodels.SheetRow, 0, 120)
		for i := 1; i <= 120; i++ {
			rows = append(rows, sheetmodels.SheetRow{SheetID: sheet.ID, RowNumber: i, Data: map[string]interface{}{"name": fmt.Sprintf("lead %d", i)}})
		}
		n, err := s.Rows.InsertMany(ctx, rows)
		require.NoError(t, err)
		require.Equal(t, 120, n)

		_, err = s.Rows.InsertMany(ctx, []sheetmodels.SheetRow{{SheetID: sheet.ID, RowNumber: 5}})
		require.True(t, errors.Is(err, common.ErrConflict))

		filter := store.RowFilter{SheetIDs: []primitive.ObjectID{sheet.ID}}
		page, err := s.Rows.Page(ctx, filter, 50, 50)
		require.NoError(t, err)
		require.Len(t, page, 50)
		assert.Equal(t, 51, page[0].RowNumber)
		assert.Equal(t, 100, page[49].RowNumber)

		total, err := s.Rows.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(120), total)
	})

	t.Run("set cell upserts a row", func(t *testing.T) {
		row, err := s.Rows.SetCell(ctx, sheet.ID, 500, "status", "called")
		require.NoError(t, err)
		assert.Equal(t, "called", row.Data["status"])
		max, err := s.Rows.MaxRowNumber(ctx, sheet.ID)
		require.NoError(t, err)
		assert.Equal(t, 500, max)
	})

	t.Run("row ranges", func(t *testing.T) {
		agent := primitive.NewObjectID()
		granted, err := s.Sheets.GrantRange(ctx, sheet.ID, hiermodels.AgentRowPermission{AgentID: agent, StartRow: 1, EndRow: 10})
		require.NoError(t, err)
		assert.Contains(t, granted.AgentIDs, agent)

		_, err = s.Sheets.ReplaceAgentRanges(ctx, sheet.ID, agent, nil, granted.Version-1)
		assert.True(t, errors.Is(err, common.ErrVersionConflict))

		replaced, err := s.Sheets.ReplaceAgentRanges(ctx, sheet.ID, agent,
			[]hiermodels.AgentRowPermission{{AgentID: agent, StartRow: 20, EndRow: 25}}, granted.Version)
		require.NoError(t, err)
		require.Len(t, replaced.AgentRowPermissions, 1)
		assert.Equal(t, 20, replaced.AgentRowPermissions[0].StartRow)

		count, err := s.Rows.Count(ctx, store.RowFilter{
			SheetIDs:   []primitive.ObjectID{sheet.ID},
			RangesOnly: true,
			Ranges:     []store.RowRange{{SheetID: sheet.ID, Start: 20, End: 25}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(6), count)

		revoked, err := s.Sheets.RevokeAgent(ctx, sheet.ID, agent)
		require.NoError(t, err)
		assert.NotContains(t, revoked.AgentIDs, agent)
		assert.Empty(t, revoked.AgentRowPermissions)
	})

	t.Run("column data keys are unique per sheet", func(t *testing.T) {
		_, err := s.Columns.Insert(ctx, sheetmodels.Column{SheetID: sheet.ID, Name: "Phone", DataKey: "phone", Type: sheetmodels.ColumnTypePhone})
		require.NoError(t, err)
		_, err = s.Columns.Insert(ctx, sheetmodels.Column{SheetID: sheet.ID, Name: "Phone 2", DataKey: "phone", Type: sheetmodels.ColumnTypeText})
		assert.True(t, errors.Is(err, common.ErrConflict))
	})
}
