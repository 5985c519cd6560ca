package service

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/wellpulse/internal/config"
	"github.com/wellpulse/internal/models"
	"github.com/wellpulse/internal/repository"
)

// AssessmentService 问卷采集服务
type AssessmentService struct {
	cfg  *config.Config
	repo repository.AssessmentRepository
}

// NewAssessmentService 创建问卷服务
func NewAssessmentService(cfg *config.Config, repo repository.AssessmentRepository) *AssessmentService {
	return &AssessmentService{cfg: cfg, repo: repo}
}

// SubmitAssessmentInput 问卷提交输入
// 所有字段均可缺省，评分由客户端自报，服务端原样落库。
type SubmitAssessmentInput struct {
	HoursPerDay           *float64
	ShortVideoMinutes     *int
	MainPlatform          *string
	SleepQuality          *int
	Procrastination       *int
	StressLevel           *int
	Performance           *int
	EscapismScore         *float64
	SocialConnectionScore *float64
	LearningScore         *float64
	NegativeImpactLabel   *int
}

// Submit 追加一条问卷记录
func (s *AssessmentService) Submit(input SubmitAssessmentInput) (*models.Assessment, error) {
	assessment := &models.Assessment{
		HoursPerDay:           input.HoursPerDay,
		ShortVideoMinutes:     input.ShortVideoMinutes,
		SleepQuality:          input.SleepQuality,
		Procrastination:       input.Procrastination,
		StressLevel:           input.StressLevel,
		Performance:           input.Performance,
		EscapismScore:         input.EscapismScore,
		SocialConnectionScore: input.SocialConnectionScore,
		LearningScore:         input.LearningScore,
	}
	if input.MainPlatform != nil {
		platform := strings.TrimSpace(*input.MainPlatform)
		if platform != "" {
			assessment.MainPlatform = &platform
		}
	}
	if input.NegativeImpactLabel != nil {
		assessment.NegativeImpactLabel = *input.NegativeImpactLabel
	}

	if err := s.repo.Create(assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

// ListRecent 按提交时间倒序读取最近记录
// 返回条数受 survey.list_limit 限制，不做分页。
func (s *AssessmentService) ListRecent() ([]models.Assessment, error) {
	return s.repo.ListRecent(s.listLimit())
}

// Count 统计记录总数
func (s *AssessmentService) Count() (int64, error) {
	return s.repo.Count()
}

// csvHeader 导出列顺序与数据库列保持一致
var csvHeader = []string{
	"id",
	"hours_per_day",
	"short_video_minutes",
	"main_platform",
	"sleep_quality",
	"procrastination",
	"stress_level",
	"performance",
	"escapism_score",
	"social_connection_score",
	"learning_score",
	"negative_impact_label",
	"created_at",
}

// WriteCSV 把记录写为 CSV
// 缺省字段输出空串，列顺序与 csvHeader 一致。
// 读库与写出分开，调用方可以在写响应体之前处理读失败。
func (s *AssessmentService) WriteCSV(w io.Writer, rows []models.Assessment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			formatFloatPtr(row.HoursPerDay),
			formatIntPtr(row.ShortVideoMinutes),
			formatStringPtr(row.MainPlatform),
			formatIntPtr(row.SleepQuality),
			formatIntPtr(row.Procrastination),
			formatIntPtr(row.StressLevel),
			formatIntPtr(row.Performance),
			formatFloatPtr(row.EscapismScore),
			formatFloatPtr(row.SocialConnectionScore),
			formatFloatPtr(row.LearningScore),
			strconv.Itoa(row.NegativeImpactLabel),
			row.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (s *AssessmentService) listLimit() int {
	limit := s.cfg.Survey.ListLimit
	if limit <= 0 {
		limit = 500
	}
	return limit
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatStringPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
