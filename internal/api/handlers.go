package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/service"
	"github.com/stratako/stratako/internal/validate"
)

type nameRequest struct {
	Name  string `json:"name"`
	Order *int   `json:"order"`
}

type moveRequest struct {
	Index *int `json:"index"`
	// At most one destination applies, depending on the resource.
	Slot      string `json:"slot"`
	Operation string `json:"operation"`
	Project   string `json:"project"`
	Category  string `json:"category"`
}

func (r moveRequest) index() (int, error) {
	if r.Index == nil {
		return 0, validate.Field("index", errors.New("this field is required"))
	}
	return *r.Index, nil
}

// registerList wires the routes shared by every per-user ordered list.
func registerList[T, V any](s *Server, g *gin.RouterGroup, svc service.OrderedListService[T], view func(*T) V) {
	g.GET("", func(c *gin.Context) {
		items, err := svc.List(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, listJSON(items, view))
	})

	g.POST("", func(c *gin.Context) {
		var req nameRequest
		if !bind(c, &req) {
			return
		}
		item, err := svc.Create(c.Request.Context(), currentUser(c).ID, req.Name, req.Order)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, view(item))
	})

	g.PATCH("/:id", func(c *gin.Context) {
		var req nameRequest
		if !bind(c, &req) {
			return
		}
		item, err := svc.Rename(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Name)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view(item))
	})

	g.POST("/:id/move", func(c *gin.Context) {
		var req moveRequest
		if !bind(c, &req) {
			return
		}
		index, err := req.index()
		if err != nil {
			s.respondError(c, err)
			return
		}
		res, err := svc.Move(c.Request.Context(), currentUser(c).ID, c.Param("id"), index)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reorderedJSON(res, view))
	})

	g.DELETE("/:id", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
			s.respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

// Operations

type operationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
	Started     bool   `json:"started"`
}

func (s *Server) handleListOperations(c *gin.Context) {
	ops, err := s.svc.Operations.List(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listJSON(ops, operationJSON))
}

func (s *Server) handleCreateOperation(c *gin.Context) {
	var req operationRequest
	if !bind(c, &req) {
		return
	}
	op, err := s.svc.Operations.Create(c.Request.Context(), currentUser(c).ID, c.Param("id"), service.NewOperation{
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		Started:     req.Started,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, operationJSON(op))
}

func (s *Server) handleGetOperation(c *gin.Context) {
	op, err := s.svc.Operations.Get(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, operationJSON(op))
}

func (s *Server) handleUpdateOperation(c *gin.Context) {
	var req operationRequest
	if !bind(c, &req) {
		return
	}
	op, err := s.svc.Operations.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Name, req.Description)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, operationJSON(op))
}

func (s *Server) handleMoveOperation(c *gin.Context) {
	var req moveRequest
	if !bind(c, &req) {
		return
	}
	index, err := req.index()
	if err != nil {
		s.respondError(c, err)
		return
	}
	res, err := s.svc.Operations.Move(c.Request.Context(), currentUser(c).ID, c.Param("id"), index, req.Slot)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reorderedJSON(res, operationJSON))
}

func (s *Server) handleActivateOperation(c *gin.Context) {
	op, err := s.svc.Operations.Activate(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, operationJSON(op))
}

func (s *Server) handleCompleteOperation(c *gin.Context) {
	op, err := s.svc.Operations.Complete(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, operationJSON(op))
}

func (s *Server) handleDeleteOperation(c *gin.Context) {
	if err := s.svc.Operations.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Tasks

func (s *Server) handleListTasks(kind domain.TaskContainerKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		container := domain.TaskContainer{Kind: kind, ID: c.Param("id")}
		tasks, err := s.svc.Tasks.List(c.Request.Context(), currentUser(c).ID, container)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, listJSON(tasks, taskJSON))
	}
}

func (s *Server) handleCreateTask(kind domain.TaskContainerKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req nameRequest
		if !bind(c, &req) {
			return
		}
		container := domain.TaskContainer{Kind: kind, ID: c.Param("id")}
		task, err := s.svc.Tasks.Create(c.Request.Context(), currentUser(c).ID, container, req.Name, req.Order)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, taskJSON(task))
	}
}

func (s *Server) handleRenameTask(c *gin.Context) {
	var req nameRequest
	if !bind(c, &req) {
		return
	}
	task, err := s.svc.Tasks.Rename(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskJSON(task))
}

func (s *Server) handleToggleTask(c *gin.Context) {
	task, err := s.svc.Tasks.Toggle(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskJSON(task))
}

func (s *Server) handleMoveTask(c *gin.Context) {
	var req moveRequest
	if !bind(c, &req) {
		return
	}
	index, err := req.index()
	if err != nil {
		s.respondError(c, err)
		return
	}
	var dest *domain.TaskContainer
	switch {
	case req.Operation != "" && req.Project != "":
		s.respondError(c, validate.Field("container", errors.New("give either operation or project, not both")))
		return
	case req.Operation != "":
		dest = &domain.TaskContainer{Kind: domain.ContainerOperation, ID: req.Operation}
	case req.Project != "":
		dest = &domain.TaskContainer{Kind: domain.ContainerProject, ID: req.Project}
	}
	res, err := s.svc.Tasks.Move(c.Request.Context(), currentUser(c).ID, c.Param("id"), index, dest)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reorderedJSON(res, taskJSON))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.svc.Tasks.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Projects

type projectRequest struct {
	Category    *string `json:"category"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Status      int     `json:"status"`
}

func (r projectRequest) input() service.ProjectInput {
	return service.ProjectInput{
		CategoryID:  r.Category,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Status:      domain.ProjectStatus(r.Status),
	}
}

func (s *Server) handleListProjects(c *gin.Context) {
	u := currentUser(c)
	includeDone := u.ShowDoneProjects
	if v, ok := c.GetQuery("done"); ok {
		includeDone = v == "true" || v == "1"
	}
	projects, err := s.svc.Projects.List(c.Request.Context(), u.ID, includeDone)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listJSON(projects, projectJSON))
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req projectRequest
	if !bind(c, &req) {
		return
	}
	p, err := s.svc.Projects.Create(c.Request.Context(), currentUser(c).ID, req.input())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projectJSON(p))
}

func (s *Server) handleGetProject(c *gin.Context) {
	p, err := s.svc.Projects.Get(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectJSON(p))
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	var req projectRequest
	if !bind(c, &req) {
		return
	}
	p, err := s.svc.Projects.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.input())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectJSON(p))
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.svc.Projects.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Goals

type goalRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
}

func (s *Server) handleListGoals(c *gin.Context) {
	goals, err := s.svc.Goals.List(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listJSON(goals, goalJSON))
}

func (s *Server) handleCreateGoal(c *gin.Context) {
	var req goalRequest
	if !bind(c, &req) {
		return
	}
	g, err := s.svc.Goals.Create(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Name, req.Description, req.Order)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goalJSON(g))
}

func (s *Server) handleUpdateGoal(c *gin.Context) {
	var req goalRequest
	if !bind(c, &req) {
		return
	}
	g, err := s.svc.Goals.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Name, req.Description)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalJSON(g))
}

func (s *Server) handleToggleGoal(c *gin.Context) {
	g, err := s.svc.Goals.Toggle(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalJSON(g))
}

func (s *Server) handleMoveGoal(c *gin.Context) {
	var req moveRequest
	if !bind(c, &req) {
		return
	}
	index, err := req.index()
	if err != nil {
		s.respondError(c, err)
		return
	}
	res, err := s.svc.Goals.Move(c.Request.Context(), currentUser(c).ID, c.Param("id"), index, req.Category)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reorderedJSON(res, goalJSON))
}

func (s *Server) handleDeleteGoal(c *gin.Context) {
	if err := s.svc.Goals.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
