package mongostore

import (
	"context"
	"fmt"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/database"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/registry"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the indexes declared on every model in its
// registered collection.
func EnsureIndexes(ctx context.Context, collections *registry.Registry[*mongo.Collection], names global.MongoDB_CollectionNames) error {
	models := []struct {
		name  string
		model interface{}
	}{
		{names.Users, authmodels.User{}},
		{names.Companies, hiermodels.Company{}},
		{names.Projects, hiermodels.Project{}},
		{names.Excels, hiermodels.Excel{}},
		{names.Sheets, hiermodels.Sheet{}},
		{names.Columns, sheetmodels.Column{}},
		{names.Rows, sheetmodels.SheetRow{}},
	}
	for _, m := range models {
		coll, ok := collections.Get(m.name)
		if !ok {
			return fmt.Errorf("collection %s is not registered", m.name)
		}
		if err := database.CreateIndexes(ctx, coll, m.model); err != nil {
			return fmt.Errorf("indexes for %s: %w", m.name, err)
		}
	}
	return nil
}
