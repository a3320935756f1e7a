package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"denuncias/backend/internal/complaint"

	"github.com/gin-gonic/gin"
)

const listPath = "/denuncias"

// complaintForm is the form posted by both the create and the edit page.
type complaintForm struct {
	Nombre string `form:"nombre" binding:"max=100"`
	Lugar  string `form:"lugar" binding:"required,max=200"`
}

// Index renders the landing page.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// ListComplaints GET /denuncias
func (h *Handler) ListComplaints(c *gin.Context) {
	complaints, err := h.Complaints.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "list complaints", err)
		return
	}
	c.HTML(http.StatusOK, "denuncias.html", gin.H{"Denuncias": complaints})
}

// CreateComplaint POST /denuncias
func (h *Handler) CreateComplaint(c *gin.Context) {
	var form complaintForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderError(c, http.StatusBadRequest, "error.invalid_form")
		return
	}

	res, err := h.Complaints.Create(c.Request.Context(), form.Nombre, form.Lugar)
	if errors.Is(err, complaint.ErrInvalidComplaint) {
		h.renderError(c, http.StatusBadRequest, invalidComplaintKey(err))
		return
	}
	if err != nil {
		h.serverError(c, "create complaint", err)
		return
	}

	switch res.Outcome {
	case complaint.OutcomeAbandoned:
		log.Printf("WARN: [%s] complaint was not stored after two number collisions", RequestID(c))
	case complaint.OutcomePartiallyFinalized:
		log.Printf("WARN: [%s] complaint %d stored with provisional number %d", RequestID(c), res.Complaint.ID, res.Complaint.Number)
	default:
		log.Printf("INFO: [%s] complaint %d created", RequestID(c), res.Complaint.ID)
	}

	c.Redirect(http.StatusSeeOther, listPath)
}

// EditComplaintForm GET /editar/:id
func (h *Handler) EditComplaintForm(c *gin.Context) {
	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	found, err := h.Complaints.Get(c.Request.Context(), id)
	if errors.Is(err, complaint.ErrNotFound) {
		h.renderNotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, "load complaint", err)
		return
	}
	c.HTML(http.StatusOK, "editar_denuncia.html", gin.H{"Denuncia": found})
}

// UpdateComplaint POST /editar/:id
func (h *Handler) UpdateComplaint(c *gin.Context) {
	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	var form complaintForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderError(c, http.StatusBadRequest, "error.invalid_form")
		return
	}

	_, err := h.Complaints.Update(c.Request.Context(), id, form.Nombre, form.Lugar)
	switch {
	case errors.Is(err, complaint.ErrNotFound):
		h.renderNotFound(c)
		return
	case errors.Is(err, complaint.ErrInvalidComplaint):
		h.renderError(c, http.StatusBadRequest, invalidComplaintKey(err))
		return
	case err != nil:
		h.serverError(c, "update complaint", err)
		return
	}

	c.Redirect(http.StatusSeeOther, listPath)
}

// DeleteComplaint GET /eliminar/:id
func (h *Handler) DeleteComplaint(c *gin.Context) {
	id, ok := h.complaintID(c)
	if !ok {
		return
	}

	err := h.Complaints.Delete(c.Request.Context(), id)
	if errors.Is(err, complaint.ErrNotFound) {
		h.renderNotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, "delete complaint", err)
		return
	}

	c.Redirect(http.StatusSeeOther, listPath)
}

// complaintID parses :id. Anything that is not a positive integer cannot
// name a complaint, so it is answered with 404 like an unknown id.
func (h *Handler) complaintID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderNotFound(c)
		return 0, false
	}
	return id, true
}

func (h *Handler) serverError(c *gin.Context, action string, err error) {
	log.Printf("ERROR: [%s] Failed to %s: %v", RequestID(c), action, err)
	h.renderError(c, http.StatusInternalServerError, "error.internal")
}

func (h *Handler) renderNotFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, "error.not_found")
}

// renderError shows the error page with the message for key in the
// caller's Accept-Language.
func (h *Handler) renderError(c *gin.Context, status int, key string) {
	message := key
	if h.Messages != nil {
		message = h.Messages.GetString(h.Messages.Match(c.GetHeader("Accept-Language")), key)
	}
	c.HTML(status, "error.html", gin.H{
		"Status":  http.StatusText(status),
		"Message": message,
	})
}

// invalidComplaintKey names the message for a rejected name or place.
func invalidComplaintKey(err error) string {
	if errors.Is(err, complaint.ErrPlaceRequired) {
		return "error.place_required"
	}
	return "error.invalid_form"
}
