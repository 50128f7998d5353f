package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/guardforce-admin/internal/service"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
	"github.com/noah-isme/guardforce-admin/pkg/response"
)

// ExportHandler serves previously rendered exports.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download godoc
// @Summary Download a stored export
// @Tags Exports
// @Produce octet-stream
// @Param file path string true "Stored file name"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /exports/{file} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnsupported, "Exports are disabled."))
		return
	}
	name := c.Param("file")
	body, err := h.exports.Open(name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, name, h.exports.ContentTypeFor(name), body)
}
