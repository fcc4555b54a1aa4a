package hiersvc

import (
	"context"
	"strings"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	hierdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/dto"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memberFields maps a member role onto its project array.
var memberFields = map[authmodels.Role]string{
	authmodels.RoleSupervisor: hiermodels.ProjectFieldSupervisors,
	authmodels.RoleAgent:      hiermodels.ProjectFieldAgents,
	authmodels.RolePartner:    hiermodels.ProjectFieldPartners,
}

// ProjectService manages projects and their membership.
type ProjectService struct {
	store *store.Store
	users *authsvc.UserService
}

// NewProjectService returns a ProjectService. users checks member roles.
func NewProjectService(st *store.Store, users *authsvc.UserService) *ProjectService {
	return &ProjectService{store: st, users: users}
}

// Create adds a project under an existing company. A supervisor creating a
// project becomes one of its supervisors.
func (s *ProjectService) Create(ctx context.Context, p authmodels.Principal, input hierdto.ProjectCreateInput) (hiermodels.Project, error) {
	companyID, err := utility.String2ObjectID("companyId", input.CompanyID)
	if err != nil {
		return hiermodels.Project{}, err
	}
	if _, err := s.store.Companies.FindByID(ctx, companyID); err != nil {
		return hiermodels.Project{}, err
	}

	members := map[authmodels.Role][]primitive.ObjectID{}
	for role, raw := range map[authmodels.Role][]string{
		authmodels.RoleSupervisor: input.SupervisorIDs,
		authmodels.RoleAgent:      input.AgentIDs,
		authmodels.RolePartner:    input.PartnerIDs,
	} {
		ids, err := utility.StringArray2ObjectIDArray(memberFields[role], raw)
		if err != nil {
			return hiermodels.Project{}, err
		}
		ids = utility.Unique(ids)
		if err := s.users.RequireRole(ctx, role, ids...); err != nil {
			return hiermodels.Project{}, err
		}
		members[role] = ids
	}
	if p.Role == authmodels.RoleSupervisor && !utility.Contains(members[authmodels.RoleSupervisor], p.UserID) {
		members[authmodels.RoleSupervisor] = append(members[authmodels.RoleSupervisor], p.UserID)
	}

	project := hiermodels.Project{
		CompanyID:        companyID,
		Name:             strings.TrimSpace(input.Name),
		Description:      strings.TrimSpace(input.Description),
		ProjectType:      input.ProjectType,
		ProjectDirection: input.ProjectDirection,
		ProjectName:      input.ProjectName,
		SupervisorIDs:    members[authmodels.RoleSupervisor],
		AgentIDs:         members[authmodels.RoleAgent],
		PartnerIDs:       members[authmodels.RolePartner],
		ExcelIDs:         []primitive.ObjectID{},
	}
	created, err := s.store.Projects.Insert(ctx, project)
	if err != nil {
		return hiermodels.Project{}, err
	}
	logger.WithContext(ctx).WithFields(logrus.Fields{
		"project_id": created.ID.Hex(),
		"company_id": companyID.Hex(),
	}).Info("Project created")
	return created, nil
}

// List returns the live projects visible to p, optionally of one company.
func (s *ProjectService) List(ctx context.Context, p authmodels.Principal, companyID primitive.ObjectID) ([]hiermodels.Project, error) {
	filter := store.ProjectFilter{}
	if !companyID.IsZero() {
		filter.CompanyIDs = []primitive.ObjectID{companyID}
	}
	return s.store.Projects.Find(ctx, ProjectFilterFor(p, filter))
}

// Get returns a live project p is a member of.
func (s *ProjectService) Get(ctx context.Context, p authmodels.Principal, id primitive.ObjectID) (hiermodels.Project, error) {
	project, err := liveProject(ctx, s.store.Projects, id)
	if err != nil {
		return hiermodels.Project{}, err
	}
	if !IsMember(p, project) {
		return hiermodels.Project{}, common.AccessDenied("Not a member of the project", map[string]string{"projectId": id.Hex()})
	}
	return project, nil
}

// Update applies the non-nil fields of input.
func (s *ProjectService) Update(ctx context.Context, p authmodels.Principal, id primitive.ObjectID, input hierdto.ProjectUpdateInput) (hiermodels.Project, error) {
	project, err := s.manageable(ctx, p, id)
	if err != nil {
		return hiermodels.Project{}, err
	}
	set := store.Fields{}
	if input.Name != nil {
		set["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		set["description"] = strings.TrimSpace(*input.Description)
	}
	if input.ProjectType != nil {
		set["projectType"] = *input.ProjectType
	}
	if input.ProjectDirection != nil {
		set["projectDirection"] = *input.ProjectDirection
	}
	if input.ProjectName != nil {
		set["projectName"] = *input.ProjectName
	}
	if len(set) == 0 {
		return project, nil
	}
	return s.store.Projects.Update(ctx, id, set)
}

// Delete soft-deletes the project. Its excels stay in place but disappear
// from reports and access resolution.
func (s *ProjectService) Delete(ctx context.Context, p authmodels.Principal, id primitive.ObjectID) error {
	if _, err := s.manageable(ctx, p, id); err != nil {
		return err
	}
	if err := s.store.Projects.SoftDelete(ctx, id); err != nil {
		return err
	}
	logger.LogAction(logger.AuditAction{
		Action:       "project.soft_delete",
		UserID:       p.UserID.Hex(),
		Role:         string(p.Role),
		ResourceID:   id.Hex(),
		ResourceType: "project",
	})
	return nil
}

// AddMembers puts users of input.Role on the project.
func (s *ProjectService) AddMembers(ctx context.Context, p authmodels.Principal, id primitive.ObjectID, input hierdto.MemberInput) (hiermodels.Project, error) {
	field, ids, err := s.memberChange(ctx, p, id, input)
	if err != nil {
		return hiermodels.Project{}, err
	}
	if err := s.users.RequireRole(ctx, authmodels.Role(input.Role), ids...); err != nil {
		return hiermodels.Project{}, err
	}
	if err := s.store.Projects.AddToSet(ctx, id, field, ids...); err != nil {
		return hiermodels.Project{}, err
	}
	s.auditMembers(p, "project.members.add", id, input.Role, ids)
	return s.store.Projects.FindByID(ctx, id)
}

// RemoveMembers takes users of input.Role off the project.
func (s *ProjectService) RemoveMembers(ctx context.Context, p authmodels.Principal, id primitive.ObjectID, input hierdto.MemberInput) (hiermodels.Project, error) {
	field, ids, err := s.memberChange(ctx, p, id, input)
	if err != nil {
		return hiermodels.Project{}, err
	}
	if err := s.store.Projects.Pull(ctx, id, field, ids...); err != nil {
		return hiermodels.Project{}, err
	}
	s.auditMembers(p, "project.members.remove", id, input.Role, ids)
	return s.store.Projects.FindByID(ctx, id)
}

func (s *ProjectService) memberChange(ctx context.Context, p authmodels.Principal, id primitive.ObjectID, input hierdto.MemberInput) (string, []primitive.ObjectID, error) {
	field, ok := memberFields[authmodels.Role(input.Role)]
	if !ok {
		return "", nil, common.Validation("Unknown member role", map[string]string{"role": input.Role})
	}
	ids, err := utility.StringArray2ObjectIDArray("userIds", input.UserIDs)
	if err != nil {
		return "", nil, err
	}
	if _, err := s.manageable(ctx, p, id); err != nil {
		return "", nil, err
	}
	return field, utility.Unique(ids), nil
}

func (s *ProjectService) manageable(ctx context.Context, p authmodels.Principal, id primitive.ObjectID) (hiermodels.Project, error) {
	project, err := liveProject(ctx, s.store.Projects, id)
	if err != nil {
		return hiermodels.Project{}, err
	}
	if err := CanManage(p, project); err != nil {
		return hiermodels.Project{}, err
	}
	return project, nil
}

func (s *ProjectService) auditMembers(p authmodels.Principal, action string, id primitive.ObjectID, role string, ids []primitive.ObjectID) {
	hex := make([]string, 0, len(ids))
	for _, uid := range ids {
		hex = append(hex, uid.Hex())
	}
	logger.LogAction(logger.AuditAction{
		Action:       action,
		UserID:       p.UserID.Hex(),
		Role:         string(p.Role),
		ResourceID:   id.Hex(),
		ResourceType: "project",
		Details:      map[string]interface{}{"role": role, "userIds": hex},
	})
}
