package memory

import (
	"context"
	"fmt"

	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type projectStore struct{ *db }

func cloneProject(p hiermodels.Project) hiermodels.Project {
	p.SupervisorIDs = copyIDs(p.SupervisorIDs)
	p.AgentIDs = copyIDs(p.AgentIDs)
	p.PartnerIDs = copyIDs(p.PartnerIDs)
	p.ExcelIDs = copyIDs(p.ExcelIDs)
	return p
}

func projectMatches(p hiermodels.Project, f store.ProjectFilter) bool {
	if p.IsDeleted && !f.IncludeDeleted {
		return false
	}
	if !inIDs(f.IDs, p.ID) || !inIDs(f.CompanyIDs, p.CompanyID) {
		return false
	}
	if !f.SupervisorID.IsZero() && !containsID(p.SupervisorIDs, f.SupervisorID) {
		return false
	}
	if !f.AgentID.IsZero() && !containsID(p.AgentIDs, f.AgentID) {
		return false
	}
	if !f.PartnerID.IsZero() && !containsID(p.PartnerIDs, f.PartnerID) {
		return false
	}
	return true
}

// projectArray returns a pointer to the named array field.
func projectArray(p *hiermodels.Project, field string) (*[]primitive.ObjectID, error) {
	switch field {
	case hiermodels.ProjectFieldSupervisors:
		return &p.SupervisorIDs, nil
	case hiermodels.ProjectFieldAgents:
		return &p.AgentIDs, nil
	case hiermodels.ProjectFieldPartners:
		return &p.PartnerIDs, nil
	case hiermodels.ProjectFieldExcels:
		return &p.ExcelIDs, nil
	}
	return nil, common.Validation(fmt.Sprintf("Unknown project array %q", field), nil)
}

func (s *projectStore) indexOf(id primitive.ObjectID) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *projectStore) Insert(_ context.Context, p hiermodels.Project) (hiermodels.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = newID(p.ID)
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	p = cloneProject(p)
	s.projects = append(s.projects, p)
	return cloneProject(p), nil
}

func (s *projectStore) FindByID(_ context.Context, id primitive.ObjectID) (hiermodels.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneProject(s.projects[i]), nil
	}
	return hiermodels.Project{}, common.NotFound("Project", id.Hex())
}

func (s *projectStore) Find(_ context.Context, filter store.ProjectFilter) ([]hiermodels.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []hiermodels.Project{}
	for _, p := range s.projects {
		if projectMatches(p, filter) {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (s *projectStore) Count(ctx context.Context, filter store.ProjectFilter) (int64, error) {
	found, err := s.Find(ctx, filter)
	return int64(len(found)), err
}

func (s *projectStore) Update(_ context.Context, id primitive.ObjectID, set store.Fields) (hiermodels.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return hiermodels.Project{}, common.NotFound("Project", id.Hex())
	}
	updated, err := applySet(s.projects[i], set)
	if err != nil {
		return hiermodels.Project{}, err
	}
	s.projects[i] = updated
	return cloneProject(updated), nil
}

func (s *projectStore) mutate(id primitive.ObjectID, field string, fn func([]primitive.ObjectID) []primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return common.NotFound("Project", id.Hex())
	}
	arr, err := projectArray(&s.projects[i], field)
	if err != nil {
		return err
	}
	*arr = fn(*arr)
	s.projects[i].UpdatedAt = now()
	return nil
}

func (s *projectStore) AddToSet(_ context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error {
	return s.mutate(id, field, func(arr []primitive.ObjectID) []primitive.ObjectID { return addToSet(arr, ids...) })
}

func (s *projectStore) Pull(_ context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error {
	return s.mutate(id, field, func(arr []primitive.ObjectID) []primitive.ObjectID { return pull(arr, ids...) })
}

func (s *projectStore) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return common.NotFound("Project", id.Hex())
	}
	s.projects[i].IsDeleted = true
	s.projects[i].UpdatedAt = now()
	return nil
}

func (s *projectStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return common.NotFound("Project", id.Hex())
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	return nil
}
