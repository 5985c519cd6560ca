package public

import (
	"github.com/wellpulse/internal/http/response"
	"github.com/wellpulse/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitAssessmentRequest 问卷提交请求
// 全部字段可缺省，评分为客户端自报值，服务端不做范围校验。
type SubmitAssessmentRequest struct {
	HoursPerDay           *float64 `json:"hours_per_day"`
	ShortVideoMinutes     *int     `json:"short_video_minutes"`
	MainPlatform          *string  `json:"main_platform"`
	SleepQuality          *int     `json:"sleep_quality"`
	Procrastination       *int     `json:"procrastination"`
	StressLevel           *int     `json:"stress_level"`
	Performance           *int     `json:"performance"`
	EscapismScore         *float64 `json:"escapism_score"`
	SocialConnectionScore *float64 `json:"social_connection_score"`
	LearningScore         *float64 `json:"learning_score"`
	NegativeImpactLabel   *int     `json:"negative_impact_label"`
}

// SubmitAssessment 提交一条问卷记录
func (h *Handler) SubmitAssessment(c *gin.Context) {
	var req SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	assessment, err := h.AssessmentService.Submit(service.SubmitAssessmentInput{
		HoursPerDay:           req.HoursPerDay,
		ShortVideoMinutes:     req.ShortVideoMinutes,
		MainPlatform:          req.MainPlatform,
		SleepQuality:          req.SleepQuality,
		Procrastination:       req.Procrastination,
		StressLevel:           req.StressLevel,
		Performance:           req.Performance,
		EscapismScore:         req.EscapismScore,
		SocialConnectionScore: req.SocialConnectionScore,
		LearningScore:         req.LearningScore,
		NegativeImpactLabel:   req.NegativeImpactLabel,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "assessment save failed", err)
		return
	}

	response.Success(c, gin.H{"id": assessment.ID})
}
