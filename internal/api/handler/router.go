package handler

import (
	"denuncias/backend/internal/web"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with templates, static assets and routes.
func NewRouter(h *Handler) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), RequestIDMiddleware())
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())

	r.GET("/", h.Index)
	r.GET("/denuncias", h.ListComplaints)
	r.POST("/denuncias", h.CreateComplaint)
	r.GET("/editar/:id", h.EditComplaintForm)
	r.POST("/editar/:id", h.UpdateComplaint)
	r.GET("/eliminar/:id", h.DeleteComplaint)

	r.NoRoute(h.renderNotFound)

	return r, nil
}
