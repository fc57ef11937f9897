package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz_master_backend/internal/service"
	"quiz_master_backend/internal/util"
)

// 备份文件大小上限
const maxImportBytes = 32 << 20

type ExportController struct {
	Service *service.ExportService
}

func NewExportController(s *service.ExportService) *ExportController {
	return &ExportController{Service: s}
}

// Export 全量导出 JSON，直接作为附件下载
func (c *ExportController) Export(ctx *gin.Context) {
	data, err := c.Service.Export()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="quiz-backup.json"`)
	ctx.Data(http.StatusOK, "application/json", data)
}

// Import 从上传的备份恢复
func (c *ExportController) Import(ctx *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxImportBytes))
	if err != nil {
		util.BadRequest(ctx, "cannot read body")
		return
	}

	imported, err := c.Service.Import(data)
	if err != nil {
		if errors.Is(err, util.ErrInvalidBackup) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"imported": imported})
}

// Backup 导出并上传到配置的存储后端
func (c *ExportController) Backup(ctx *gin.Context) {
	url, err := c.Service.Backup(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
