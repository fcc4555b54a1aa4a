// Package hiersvc manages companies, projects, excels and sheets.
package hiersvc

import (
	"context"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectFilterFor narrows f to the live projects p is a member of. Admins
// are not narrowed.
func ProjectFilterFor(p authmodels.Principal, f store.ProjectFilter) store.ProjectFilter {
	switch p.Role {
	case authmodels.RoleSupervisor:
		f.SupervisorID = p.UserID
	case authmodels.RoleAgent:
		f.AgentID = p.UserID
	case authmodels.RolePartner:
		f.PartnerID = p.UserID
	}
	return f
}

// ProjectScope returns the ids of the live projects p may see. all is true
// for admins, in which case ids is nil.
func ProjectScope(ctx context.Context, projects store.ProjectStore, p authmodels.Principal) (ids []primitive.ObjectID, all bool, err error) {
	if p.Role == authmodels.RoleAdmin {
		return nil, true, nil
	}
	found, err := projects.Find(ctx, ProjectFilterFor(p, store.ProjectFilter{}))
	if err != nil {
		return nil, false, err
	}
	ids = make([]primitive.ObjectID, 0, len(found))
	for _, pr := range found {
		ids = append(ids, pr.ID)
	}
	return ids, false, nil
}

// IsMember reports whether p is listed on project under its own role.
func IsMember(p authmodels.Principal, project hiermodels.Project) bool {
	switch p.Role {
	case authmodels.RoleAdmin:
		return true
	case authmodels.RoleSupervisor:
		return utility.Contains(project.SupervisorIDs, p.UserID)
	case authmodels.RoleAgent:
		return utility.Contains(project.AgentIDs, p.UserID)
	case authmodels.RolePartner:
		return utility.Contains(project.PartnerIDs, p.UserID)
	}
	return false
}

// CanManage allows admins and the project's own supervisors.
func CanManage(p authmodels.Principal, project hiermodels.Project) error {
	if p.Role == authmodels.RoleAdmin {
		return nil
	}
	if p.Role == authmodels.RoleSupervisor && utility.Contains(project.SupervisorIDs, p.UserID) {
		return nil
	}
	return common.AccessDenied("Only the project's supervisors may change it", map[string]string{"projectId": project.ID.Hex()})
}

// liveProject loads a project, treating soft-deleted ones as missing.
func liveProject(ctx context.Context, projects store.ProjectStore, id primitive.ObjectID) (hiermodels.Project, error) {
	project, err := projects.FindByID(ctx, id)
	if err != nil {
		return hiermodels.Project{}, err
	}
	if project.IsDeleted {
		return hiermodels.Project{}, common.NotFound("Project", id.Hex())
	}
	return project, nil
}

// LiveSheet loads a sheet with its project. Sheets under a soft-deleted
// project are NotFound.
func LiveSheet(ctx context.Context, st *store.Store, sheetID primitive.ObjectID) (hiermodels.Sheet, hiermodels.Project, error) {
	sheet, err := st.Sheets.FindByID(ctx, sheetID)
	if err != nil {
		return hiermodels.Sheet{}, hiermodels.Project{}, err
	}
	project, err := liveProject(ctx, st.Projects, sheet.ProjectID)
	if err != nil {
		return hiermodels.Sheet{}, hiermodels.Project{}, err
	}
	return sheet, project, nil
}

// OpenSheet loads a sheet p may open: p is listed on the sheet's live
// project, and an agent is also assigned to the sheet itself.
func OpenSheet(ctx context.Context, st *store.Store, p authmodels.Principal, sheetID primitive.ObjectID) (hiermodels.Sheet, error) {
	sheet, project, err := LiveSheet(ctx, st, sheetID)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	if !IsMember(p, project) || (p.Role == authmodels.RoleAgent && !utility.Contains(sheet.AgentIDs, p.UserID)) {
		return hiermodels.Sheet{}, common.AccessDenied("Sheet is not assigned to the caller", map[string]string{"sheetId": sheetID.Hex()})
	}
	return sheet, nil
}

// ManageSheet loads a sheet whose live project p may manage.
func ManageSheet(ctx context.Context, st *store.Store, p authmodels.Principal, sheetID primitive.ObjectID) (hiermodels.Sheet, error) {
	sheet, project, err := LiveSheet(ctx, st, sheetID)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	if err := CanManage(p, project); err != nil {
		return hiermodels.Sheet{}, err
	}
	return sheet, nil
}

func intersect(a []primitive.ObjectID, b []primitive.ObjectID) []primitive.ObjectID {
	out := []primitive.ObjectID{}
	for _, id := range a {
		if utility.Contains(b, id) {
			out = append(out, id)
		}
	}
	return out
}
