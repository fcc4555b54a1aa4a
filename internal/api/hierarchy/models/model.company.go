// Package models defines the Company, Project, Excel and Sheet documents.
// Ownership is top-down through reference arrays kept on the parent.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Company is the root of the hierarchy.
type Company struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"single:1"`
	Domain    string             `json:"domain,omitempty" bson:"domain,omitempty"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	Website   string             `json:"website,omitempty" bson:"website,omitempty"`
	Channels  []string           `json:"channels" bson:"channels"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
