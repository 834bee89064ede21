package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stratako/stratako/internal/domain"
	"github.com/stratako/stratako/internal/service"
)

type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignup creates the account and answers with a token in "message".
func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.svc.Accounts.Signup(ctx, service.Signup{Email: req.Email, Name: req.Name, Password: req.Password}); err != nil {
		s.respondError(c, err)
		return
	}
	token, err := s.svc.Accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": token})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	token, err := s.svc.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": token})
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, userJSON(currentUser(c)))
}

type profileRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bind(c, &req) {
		return
	}
	u, err := s.svc.Accounts.UpdateProfile(c.Request.Context(), currentUser(c).ID, service.ProfileUpdate{Email: req.Email, Name: req.Name})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userJSON(u))
}

type passwordRequest struct {
	Current string `json:"current"`
	New     string `json:"new"`
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var req passwordRequest
	if !bind(c, &req) {
		return
	}
	if err := s.svc.Accounts.ChangePassword(c.Request.Context(), currentUser(c).ID, req.Current, req.New); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type settingsRequest struct {
	DefaultProjectGrouping *string `json:"default_project_grouping"`
	ShowDoneProjects       *bool   `json:"show_done_projects"`
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req settingsRequest
	if !bind(c, &req) {
		return
	}
	in := service.ProjectSettings{ShowDoneProjects: req.ShowDoneProjects}
	if req.DefaultProjectGrouping != nil {
		g := domain.ProjectGrouping(*req.DefaultProjectGrouping)
		in.DefaultProjectGrouping = &g
	}
	u, err := s.svc.Accounts.UpdateSettings(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userJSON(u))
}

func (s *Server) handleDeleteAccount(c *gin.Context) {
	if err := s.svc.Accounts.Delete(c.Request.Context(), currentUser(c).ID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
