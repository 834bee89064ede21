// Package api exposes the services over REST/JSON.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/stratako/stratako/internal/app"
	"github.com/stratako/stratako/internal/domain"
)

// Server is the stratako HTTP server.
type Server struct {
	svc    *app.App
	log    zerolog.Logger
	router *gin.Engine
	cors   *cors.Cors
}

// NewServer builds the router. allowedOrigins lists CORS origins; "*"
// allows any.
func NewServer(svc *app.App, logger zerolog.Logger, allowedOrigins []string) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	s := &Server{
		svc:    svc,
		log:    logger,
		router: router,
		cors: cors.New(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodPatch,
				http.MethodDelete,
			},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}),
	}

	router.Use(gin.Recovery(), s.requestLogger())
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	router.POST("/signup", s.handleSignup)
	router.POST("/login", s.handleLogin)

	api := router.Group("/api", s.authRequired())
	{
		api.GET("/me", s.handleMe)
		api.PATCH("/me", s.handleUpdateProfile)
		api.PUT("/me/password", s.handleChangePassword)
		api.PATCH("/me/settings", s.handleUpdateSettings)
		api.DELETE("/me", s.handleDeleteAccount)

		registerList(s, api.Group("/slots"), svc.Slots, slotJSON)
		registerList(s, api.Group("/project-categories"), svc.ProjectCategories, projectCategoryJSON)
		registerList(s, api.Group("/goal-categories"), svc.GoalCategories, goalCategoryJSON)

		api.GET("/slots/:id/operations", s.handleListOperations)
		api.POST("/slots/:id/operations", s.handleCreateOperation)
		api.GET("/operations/:id", s.handleGetOperation)
		api.PATCH("/operations/:id", s.handleUpdateOperation)
		api.POST("/operations/:id/move", s.handleMoveOperation)
		api.POST("/operations/:id/activate", s.handleActivateOperation)
		api.POST("/operations/:id/complete", s.handleCompleteOperation)
		api.DELETE("/operations/:id", s.handleDeleteOperation)

		api.GET("/operations/:id/tasks", s.handleListTasks(domain.ContainerOperation))
		api.POST("/operations/:id/tasks", s.handleCreateTask(domain.ContainerOperation))
		api.GET("/projects/:id/tasks", s.handleListTasks(domain.ContainerProject))
		api.POST("/projects/:id/tasks", s.handleCreateTask(domain.ContainerProject))
		api.PATCH("/tasks/:id", s.handleRenameTask)
		api.POST("/tasks/:id/toggle", s.handleToggleTask)
		api.POST("/tasks/:id/move", s.handleMoveTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)

		api.GET("/projects", s.handleListProjects)
		api.POST("/projects", s.handleCreateProject)
		api.GET("/projects/:id", s.handleGetProject)
		api.PATCH("/projects/:id", s.handleUpdateProject)
		api.DELETE("/projects/:id", s.handleDeleteProject)

		api.GET("/goal-categories/:id/goals", s.handleListGoals)
		api.POST("/goal-categories/:id/goals", s.handleCreateGoal)
		api.PATCH("/goals/:id", s.handleUpdateGoal)
		api.POST("/goals/:id/toggle", s.handleToggleGoal)
		api.POST("/goals/:id/move", s.handleMoveGoal)
		api.DELETE("/goals/:id", s.handleDeleteGoal)
	}

	return s
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	return s.cors.Handler(s.router)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
