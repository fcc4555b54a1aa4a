package hierdto

// ProjectCreateInput is the body of POST /projects.
type ProjectCreateInput struct {
	CompanyID        string   `json:"companyId" validate:"required,object_id"`
	Name             string   `json:"name" validate:"required,max=200,no_xss"`
	Description      string   `json:"description,omitempty" validate:"max=2000,no_xss"`
	ProjectType      string   `json:"projectType" validate:"required,oneof=inbound outbound"`
	ProjectDirection string   `json:"projectDirection" validate:"required,oneof=call social"`
	ProjectName      string   `json:"projectName" validate:"required,oneof=survey telesales telemarketing"`
	SupervisorIDs    []string `json:"supervisorIds,omitempty" validate:"omitempty,dive,required,object_id"`
	AgentIDs         []string `json:"agentIds,omitempty" validate:"omitempty,dive,required,object_id"`
	PartnerIDs       []string `json:"partnerIds,omitempty" validate:"omitempty,dive,required,object_id"`
}

// ProjectUpdateInput is the body of PUT /projects/:id.
type ProjectUpdateInput struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=2000,no_xss"`
	ProjectType      *string `json:"projectType,omitempty" validate:"omitempty,oneof=inbound outbound"`
	ProjectDirection *string `json:"projectDirection,omitempty" validate:"omitempty,oneof=call social"`
	ProjectName      *string `json:"projectName,omitempty" validate:"omitempty,oneof=survey telesales telemarketing"`
}

// MemberInput adds or removes users of one role on a project.
type MemberInput struct {
	Role    string   `json:"role" validate:"required,member_role"`
	UserIDs []string `json:"userIds" validate:"required,min=1,dive,required,object_id"`
}
