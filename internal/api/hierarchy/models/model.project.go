package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	ProjectTypeInbound  = "inbound"
	ProjectTypeOutbound = "outbound"

	ProjectDirectionCall   = "call"
	ProjectDirectionSocial = "social"

	ProjectNameSurvey        = "survey"
	ProjectNameTelesales     = "telesales"
	ProjectNameTelemarketing = "telemarketing"
)

// Project groups excels of one company and carries membership by role.
type Project struct {
	ID               primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID        primitive.ObjectID   `json:"companyId" bson:"companyId" index:"single:1"`
	Name             string               `json:"name" bson:"name"`
	Description      string               `json:"description,omitempty" bson:"description,omitempty"`
	ProjectType      string               `json:"projectType" bson:"projectType"`
	ProjectDirection string               `json:"projectDirection" bson:"projectDirection"`
	ProjectName      string               `json:"projectName" bson:"projectName"`
	SupervisorIDs    []primitive.ObjectID `json:"supervisorIds" bson:"supervisorIds" index:"single:1"`
	AgentIDs         []primitive.ObjectID `json:"agentIds" bson:"agentIds" index:"single:1"`
	PartnerIDs       []primitive.ObjectID `json:"partnerIds" bson:"partnerIds" index:"single:1"`
	ExcelIDs         []primitive.ObjectID `json:"excelIds" bson:"excelIds"`
	IsDeleted        bool                 `json:"isDeleted" bson:"isDeleted"`
	CreatedAt        int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt        int64                `json:"updatedAt" bson:"updatedAt"`
}

// Project array fields that accept $addToSet / $pull.
const (
	ProjectFieldSupervisors = "supervisorIds"
	ProjectFieldAgents      = "agentIds"
	ProjectFieldPartners    = "partnerIds"
	ProjectFieldExcels      = "excelIds"
)
