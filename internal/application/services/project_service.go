package services

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
	"github.com/atlaserp/backend/pkg/utils"
)

// ProjectService owns projects, tasks and the completion rollup.
type ProjectService struct {
	projects *persistence.ProjectRepository
}

func NewProjectService(projects *persistence.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

type ProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	CompanyID   string `json:"company_id"`
	Description string `json:"description"`
}

func (s *ProjectService) Create(ctx context.Context, req ProjectRequest) (*models.Project, error) {
	now := time.Now()
	project := &models.Project{
		ID:           utils.GenerateID(),
		Name:         req.Name,
		CompanyID:    req.CompanyID,
		Description:  req.Description,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if err := s.projects.Insert(ctx, project); err != nil {
		return nil, errors.NewPersistenceError("create project", err)
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Project", id)
	}
	if err != nil {
		return nil, errors.NewPersistenceError("get project", err)
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, limit, offset int) ([]*models.Project, error) {
	projects, err := s.projects.FindAll(ctx, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewPersistenceError("list projects", err)
	}
	return projects, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	filtered, err := filterUpdates(updates, "name", "company_id", "description")
	if err != nil {
		return err
	}
	if err := s.projects.Update(ctx, id, filtered); err != nil {
		return errors.NewPersistenceError("update project", err)
	}
	return nil
}

// Delete removes the project and all its tasks.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return errors.NewPersistenceError("delete project", err)
	}
	return nil
}

// ---- tasks ----

type TaskRequest struct {
	Title      string     `json:"title" binding:"required"`
	AssigneeID string     `json:"assignee_id"`
	DueDate    *time.Time `json:"due_date"`
}

func (s *ProjectService) AddTask(ctx context.Context, projectID string, req TaskRequest) (*models.Task, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          utils.GenerateID(),
		ProjectID:   projectID,
		Title:       req.Title,
		Status:      constants.TaskStatusOpen,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		CreatedDate: time.Now(),
	}
	if err := s.projects.InsertTask(ctx, task); err != nil {
		return nil, errors.NewPersistenceError("add task", err)
	}
	return task, nil
}

func (s *ProjectService) ListTasks(ctx context.Context, projectID string) ([]*models.Task, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	tasks, err := s.projects.FindTasks(ctx, projectID)
	if err != nil {
		return nil, errors.NewPersistenceError("list tasks", err)
	}
	return tasks, nil
}

func (s *ProjectService) SetTaskStatus(ctx context.Context, taskID, status string) error {
	if status != constants.TaskStatusOpen && status != constants.TaskStatusDone {
		return errors.NewValidationError("status", "Unknown task status")
	}
	if err := s.projects.UpdateTaskStatus(ctx, taskID, status); err != nil {
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError("Task", taskID)
		}
		return errors.NewPersistenceError("update task", err)
	}
	return nil
}

// Progress reports the done-task percentage, rounded to one decimal.
func (s *ProjectService) Progress(ctx context.Context, projectID string) (*models.ProjectProgress, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	total, done, err := s.projects.TaskCounts(ctx, projectID)
	if err != nil {
		return nil, errors.NewPersistenceError("project progress", err)
	}

	pct := 0.0
	if total > 0 {
		pct = math.Round(float64(done)/float64(total)*1000) / 10
	}

	return &models.ProjectProgress{
		ProjectID:     projectID,
		TotalTasks:    total,
		DoneTasks:     done,
		CompletionPct: pct,
	}, nil
}
