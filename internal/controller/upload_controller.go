package controller

import (
	"great_awareness_backend/internal/service"
	"great_awareness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	StorageService *service.StorageService
}

func NewUploadController(storageService *service.StorageService) *UploadController {
	return &UploadController{StorageService: storageService}
}

// UploadImage godoc
// @Summary Upload an image
// @Description The type is sniffed from the file content
// @Tags uploads
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "Image"
// @Success 201 {object} util.Response{data=service.UploadResponse} "Created"
// @Failure 400 {object} util.Response "Missing file, wrong type or too large"
// @Router /api/uploads/images [post]
func (c *UploadController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	userID, _ := caller(ctx)
	resp, err := c.StorageService.UploadImage(ctx.Request.Context(), userID, file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, resp)
}
