package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/amelfit-backend/internal/http/response"
	"github.com/yungbote/amelfit-backend/internal/services"
)

type SiteContentHandler struct {
	content services.SiteContentService
	uploads services.UploadService
}

func NewSiteContentHandler(content services.SiteContentService, uploads services.UploadService) *SiteContentHandler {
	return &SiteContentHandler{content: content, uploads: uploads}
}

// GET /api/site-content and GET /api/admin/site-content
func (sh *SiteContentHandler) Get(c *gin.Context) {
	all, err := sh.content.Get(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, all)
}

// PUT /api/admin/site-content/:section
// body: the section document, a JSON object
func (sh *SiteContentHandler) UpdateSection(c *gin.Context) {
	var data json.RawMessage
	if !bindJSON(c, &data) {
		return
	}
	s, err := sh.content.UpdateSection(c.Request.Context(), c.Param("section"), data)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"section": s.Name, "data": s.Data})
}

// POST /api/admin/upload/image (multipart "file")
func (sh *SiteContentHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", errors.New("multipart field \"file\" is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	defer f.Close()

	url, err := sh.uploads.UploadImage(c.Request.Context(), f)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"url": url})
}
