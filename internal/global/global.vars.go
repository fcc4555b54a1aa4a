package global

import (
	"github.com/NamigGuliyef/avian-chat-sub000/config"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionNames lists the collections the service owns.
type MongoDB_CollectionNames struct {
	Users     string
	Companies string
	Projects  string
	Excels    string
	Sheets    string
	Columns   string
	Rows      string
}

var (
	Validate             *validator.Validate
	MongoDB_Session      *mongo.Client
	MongoDB_ServerConfig *config.Configuration
	MongoDB_ColNames     MongoDB_CollectionNames
	RegistryCollections  = registry.NewRegistry[*mongo.Collection]()
)

// InitColNames fills MongoDB_ColNames with the default collection names.
func InitColNames() {
	MongoDB_ColNames = MongoDB_CollectionNames{
		Users:     "users",
		Companies: "companies",
		Projects:  "projects",
		Excels:    "excels",
		Sheets:    "sheets",
		Columns:   "columns",
		Rows:      "sheet_rows",
	}
}

// ColNameList returns every collection name in declaration order.
func ColNameList() []string {
	n := MongoDB_ColNames
	return []string{n.Users, n.Companies, n.Projects, n.Excels, n.Sheets, n.Columns, n.Rows}
}
