package admin

import (
	"fmt"
	"time"

	"github.com/wellpulse/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListAssessments 读取最近问卷记录 (Admin)
func (h *Handler) ListAssessments(c *gin.Context) {
	rows, err := h.AssessmentService.ListRecent()
	if err != nil {
		respondError(c, response.CodeInternal, "assessment fetch failed", err)
		return
	}
	response.Success(c, rows)
}

// AssessmentStats 问卷统计 (Admin)
func (h *Handler) AssessmentStats(c *gin.Context) {
	total, err := h.AssessmentService.Count()
	if err != nil {
		respondError(c, response.CodeInternal, "assessment count failed", err)
		return
	}
	response.Success(c, gin.H{"total": total})
}

// ExportAssessments 导出问卷记录为 CSV (Admin)
// 先读库再写响应：读失败时响应头还没发出，可以正常返回 500。
func (h *Handler) ExportAssessments(c *gin.Context) {
	rows, err := h.AssessmentService.ListRecent()
	if err != nil {
		respondError(c, response.CodeInternal, "assessment export failed", err)
		return
	}

	filename := fmt.Sprintf("assessments_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.AssessmentService.WriteCSV(c.Writer, rows); err != nil {
		// 此时响应体已开始写出，只能记日志并中断。
		requestLog(c).Errorw("assessment_export_failed", "error", err)
		c.Abort()
	}
}
