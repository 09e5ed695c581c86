package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/amelfit-backend/internal/http/response"
	"github.com/yungbote/amelfit-backend/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// GET /api/courses?category=
func (ch *CatalogHandler) ListCourses(c *gin.Context) {
	out, err := ch.catalog.ListCourses(c.Request.Context(), strings.TrimSpace(c.Query("category")))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/courses/categories
func (ch *CatalogHandler) Categories(c *gin.Context) {
	out, err := ch.catalog.Categories(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/courses/:id
func (ch *CatalogHandler) GetCourse(c *gin.Context) {
	id, ok := uuidParam(c, "id", "course_not_found")
	if !ok {
		return
	}
	course, err := ch.catalog.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, course)
}

// GET /api/courses/:id/access
func (ch *CatalogHandler) Access(c *gin.Context) {
	id, ok := uuidParam(c, "id", "course_not_found")
	if !ok {
		return
	}
	has, err := ch.catalog.HasAccess(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"has_access": has})
}

// POST /api/seed
func (ch *CatalogHandler) Seed(c *gin.Context) {
	res, err := ch.catalog.Seed(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/admin/courses
func (ch *CatalogHandler) CreateCourse(c *gin.Context) {
	var req services.CourseInput
	if !bindJSON(c, &req) {
		return
	}
	course, err := ch.catalog.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, course)
}

// PUT /api/admin/courses/:id
func (ch *CatalogHandler) UpdateCourse(c *gin.Context) {
	id, ok := uuidParam(c, "id", "course_not_found")
	if !ok {
		return
	}
	var req services.CoursePatch
	if !bindJSON(c, &req) {
		return
	}
	course, err := ch.catalog.UpdateCourse(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, course)
}

// DELETE /api/admin/courses/:id
func (ch *CatalogHandler) DeleteCourse(c *gin.Context) {
	id, ok := uuidParam(c, "id", "course_not_found")
	if !ok {
		return
	}
	if err := ch.catalog.DeleteCourse(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Course deleted"})
}
