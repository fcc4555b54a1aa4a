package hiersvc

import (
	"context"
	"strings"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	hierdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/dto"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExcelService manages the workbooks of projects.
type ExcelService struct {
	store *store.Store
}

func NewExcelService(st *store.Store) *ExcelService {
	return &ExcelService{store: st}
}

// Create adds an excel and links it into the project's excelIds.
func (s *ExcelService) Create(ctx context.Context, p authmodels.Principal, input hierdto.ExcelCreateInput) (hiermodels.Excel, error) {
	projectID, err := utility.String2ObjectID("projectId", input.ProjectID)
	if err != nil {
		return hiermodels.Excel{}, err
	}
	project, err := liveProject(ctx, s.store.Projects, projectID)
	if err != nil {
		return hiermodels.Excel{}, err
	}
	if err := CanManage(p, project); err != nil {
		return hiermodels.Excel{}, err
	}

	created, err := s.store.Excels.Insert(ctx, hiermodels.Excel{
		ProjectID:   projectID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		AgentIDs:    []primitive.ObjectID{},
		SheetIDs:    []primitive.ObjectID{},
	})
	if err != nil {
		return hiermodels.Excel{}, err
	}
	if err := s.store.Projects.AddToSet(ctx, projectID, hiermodels.ProjectFieldExcels, created.ID); err != nil {
		// An unlinked excel would never be reached from its project.
		if delErr := s.store.Excels.Delete(ctx, created.ID); delErr != nil {
			logger.WithContext(ctx).WithError(delErr).Error("Failed to remove unlinked excel")
		}
		return hiermodels.Excel{}, err
	}
	logger.WithContext(ctx).WithFields(logrus.Fields{
		"excel_id":   created.ID.Hex(),
		"project_id": projectID.Hex(),
	}).Info("Excel created")
	return created, nil
}

// List returns the excels of the projects p may see, optionally of one
// project.
func (s *ExcelService) List(ctx context.Context, p authmodels.Principal, projectID primitive.ObjectID) ([]hiermodels.Excel, error) {
	scope, all, err := ProjectScope(ctx, s.store.Projects, p)
	if err != nil {
		return nil, err
	}
	filter := store.ExcelFilter{}
	switch {
	case all && !projectID.IsZero():
		filter.ProjectIDs = []primitive.ObjectID{projectID}
	case !all && !projectID.IsZero():
		filter.ProjectIDs = intersect([]primitive.ObjectID{projectID}, scope)
	case !all:
		filter.ProjectIDs = scope
	}
	if !all && len(filter.ProjectIDs) == 0 {
		return []hiermodels.Excel{}, nil
	}
	return s.store.Excels.Find(ctx, filter)
}

// Get returns an excel of a project p is a member of.
func (s *ExcelService) Get(ctx context.Context, p authmodels.Principal, id primitive.ObjectID) (hiermodels.Excel, error) {
	excel, err := s.store.Excels.FindByID(ctx, id)
	if err != nil {
		return hiermodels.Excel{}, err
	}
	project, err := liveProject(ctx, s.store.Projects, excel.ProjectID)
	if err != nil {
		return hiermodels.Excel{}, err
	}
	if !IsMember(p, project) {
		return hiermodels.Excel{}, common.AccessDenied("Not a member of the project", map[string]string{"excelId": id.Hex()})
	}
	return excel, nil
}

// Update renames or re-describes an excel.
func (s *ExcelService) Update(ctx context.Context, p authmodels.Principal, id primitive.ObjectID, input hierdto.NamedUpdateInput) (hiermodels.Excel, error) {
	excel, err := s.manageable(ctx, p, id)
	if err != nil {
		return hiermodels.Excel{}, err
	}
	set := namedSet(input)
	if len(set) == 0 {
		return excel, nil
	}
	return s.store.Excels.Update(ctx, id, set)
}

// Delete removes an excel without sheets and unlinks it from its project.
func (s *ExcelService) Delete(ctx context.Context, p authmodels.Principal, id primitive.ObjectID) error {
	excel, err := s.manageable(ctx, p, id)
	if err != nil {
		return err
	}
	children, err := s.store.Sheets.Count(ctx, store.SheetFilter{ExcelIDs: []primitive.ObjectID{id}})
	if err != nil {
		return err
	}
	if children > 0 {
		return common.Conflict("Excel still has sheets", map[string]interface{}{"excelId": id.Hex(), "sheets": children})
	}
	if err := s.store.Excels.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Projects.Pull(ctx, excel.ProjectID, hiermodels.ProjectFieldExcels, id); err != nil {
		return err
	}
	logger.WithContext(ctx).WithField("excel_id", id.Hex()).Info("Excel deleted")
	return nil
}

func (s *ExcelService) manageable(ctx context.Context, p authmodels.Principal, id primitive.ObjectID) (hiermodels.Excel, error) {
	excel, err := s.store.Excels.FindByID(ctx, id)
	if err != nil {
		return hiermodels.Excel{}, err
	}
	project, err := liveProject(ctx, s.store.Projects, excel.ProjectID)
	if err != nil {
		return hiermodels.Excel{}, err
	}
	if err := CanManage(p, project); err != nil {
		return hiermodels.Excel{}, err
	}
	return excel, nil
}

func namedSet(input hierdto.NamedUpdateInput) store.Fields {
	set := store.Fields{}
	if input.Name != nil {
		set["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		set["description"] = strings.TrimSpace(*input.Description)
	}
	return set
}
