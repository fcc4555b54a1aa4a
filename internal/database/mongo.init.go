package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCollections creates any missing collection of names in db.
func EnsureCollections(ctx context.Context, db *mongo.Database, names []string) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, name := range names {
		if have[name] {
			continue
		}
		logger.GetAppLogger().Infof("Collection %s does not exist, creating", name)
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}
	return nil
}

// indexSpec is one index derived from `index` struct tags.
type indexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
	Sparse bool
}

// parseIndexTag splits "single:1,order:-1;compound:sheet_row_unique" into
// one key/value map per ';' group.
func parseIndexTag(tag string) []map[string]string {
	var result []map[string]string
	for _, part := range strings.Split(tag, ";") {
		entry := map[string]string{}
		for _, sub := range strings.Split(part, ",") {
			kv := strings.SplitN(strings.TrimSpace(sub), ":", 2)
			if kv[0] == "" {
				continue
			}
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		result = append(result, entry)
	}
	return result
}

func parseOrder(cfg map[string]string) int {
	if cfg["order"] == "-1" {
		return -1
	}
	return 1
}

// indexSpecsFromModel reads the `index` tags of a struct model. Compound
// groups keep field declaration order; a group whose name contains "_unique"
// becomes a unique index.
func indexSpecsFromModel(model interface{}) []indexSpec {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	var specs []indexSpec
	compound := map[string]*indexSpec{}
	var compoundOrder []string

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		bsonField := strings.Split(field.Tag.Get("bson"), ",")[0]
		if bsonField == "" || bsonField == "-" {
			continue
		}

		for _, cfg := range parseIndexTag(tag) {
			_, sparse := cfg["sparse"]
			if _, ok := cfg["text"]; ok {
				specs = append(specs, indexSpec{Name: bsonField + "_text", Keys: bson.D{{Key: bsonField, Value: "text"}}})
			}
			if _, ok := cfg["single"]; ok {
				specs = append(specs, indexSpec{Name: bsonField + "_single", Keys: bson.D{{Key: bsonField, Value: parseOrder(cfg)}}})
			}
			if _, ok := cfg["unique"]; ok {
				specs = append(specs, indexSpec{Name: bsonField + "_unique", Keys: bson.D{{Key: bsonField, Value: 1}}, Unique: true, Sparse: sparse})
			}
			if group, ok := cfg["compound"]; ok && group != "" {
				spec, exists := compound[group]
				if !exists {
					spec = &indexSpec{Name: group, Unique: strings.Contains(group, "_unique")}
					compound[group] = spec
					compoundOrder = append(compoundOrder, group)
				}
				spec.Keys = append(spec.Keys, bson.E{Key: bsonField, Value: parseOrder(cfg)})
				spec.Sparse = spec.Sparse || sparse
			}
		}
	}

	sort.Strings(compoundOrder)
	for _, group := range compoundOrder {
		specs = append(specs, *compound[group])
	}
	return specs
}

// CreateIndexes creates the indexes declared on model for collection. An
// existing index with the same name but a different definition is dropped
// and recreated.
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	existing := map[string]bson.M{}
	for cursor.Next(ctx) {
		var info bson.M
		if err := cursor.Decode(&info); err != nil {
			return fmt.Errorf("failed to decode index info: %w", err)
		}
		if name, ok := info["name"].(string); ok {
			existing[name] = info
		}
	}

	log := logger.WithModuleAndCollection("database", collection.Name())
	for _, spec := range indexSpecsFromModel(model) {
		opts := options.Index().SetName(spec.Name)
		if spec.Unique {
			opts.SetUnique(true)
		}
		if spec.Sparse {
			opts.SetSparse(true)
		}

		if info, ok := existing[spec.Name]; ok {
			if sameIndex(info, spec) {
				continue
			}
			if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", spec.Name, err)
			}
			log.Infof("Dropped outdated index %s", spec.Name)
		}

		if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.Keys, Options: opts}); err != nil {
			return fmt.Errorf("failed to create index %s: %w", spec.Name, err)
		}
		log.Infof("Created index %s", spec.Name)
	}
	return nil
}

func sameIndex(info bson.M, spec indexSpec) bool {
	keys, ok := info["key"].(bson.M)
	if !ok || len(keys) != len(spec.Keys) {
		return false
	}
	for _, k := range spec.Keys {
		v, ok := keys[k.Key]
		if !ok || !sameKeyValue(v, k.Value) {
			return false
		}
	}
	unique, _ := info["unique"].(bool)
	return unique == spec.Unique
}

func sameKeyValue(existing, want interface{}) bool {
	n, isInt := want.(int)
	if !isInt {
		return existing == want
	}
	switch ev := existing.(type) {
	case int32:
		return int(ev) == n
	case int64:
		return int(ev) == n
	case float64:
		return int(ev) == n
	}
	return false
}
