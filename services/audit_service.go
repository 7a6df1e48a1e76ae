package services

import (
	"context"
	"math"
	"net"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"recipe-share/logging"
	"recipe-share/metrics"
	"recipe-share/models"
	"recipe-share/repositories"
)

type AuditService interface {
	// Log records an audit entry. It never fails the caller: write errors
	// are logged and counted, then dropped.
	Log(ctx context.Context, entry models.AuditEntry)
	ListLogs(ctx context.Context, viewer *models.User, params models.LogListParams) (*models.LogPage, error)
}

type auditService struct {
	logRepo repositories.AdminLogRepository
	now     func() time.Time
}

func NewAuditService(logRepo repositories.AdminLogRepository) AuditService {
	return &auditService{logRepo: logRepo, now: time.Now}
}

func (s *auditService) Log(ctx context.Context, entry models.AuditEntry) {
	record := &models.AdminLog{
		ActionType:  entry.ActionType,
		TargetType:  entry.TargetType,
		TargetID:    entry.TargetID,
		Description: entry.Description,
		Timestamp:   s.now().UTC(),
	}
	if record.ActionType == "" {
		record.ActionType = models.ActionOther
	}
	if entry.Actor != nil && entry.Actor.ID != 0 {
		actorID := entry.Actor.ID
		record.ActorID = &actorID
	}
	if entry.Metadata != nil {
		record.Metadata = datatypes.JSONMap(entry.Metadata)
	}
	if entry.Request != nil {
		if ip := net.ParseIP(strings.TrimSpace(entry.Request.IP)); ip != nil {
			addr := ip.String()
			record.IPAddress = &addr
		}
		record.UserAgent = truncate(entry.Request.UserAgent, models.MaxUserAgentLength)
	}

	if err := s.logRepo.Create(ctx, record); err != nil {
		metrics.RecordAuditFailure()
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("action_type", string(record.ActionType)).
			Str("target_type", record.TargetType).
			Msg("failed to write audit log")
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func (s *auditService) ListLogs(ctx context.Context, viewer *models.User, params models.LogListParams) (*models.LogPage, error) {
	if !models.CanViewLogs(viewer) {
		return nil, models.ErrForbidden
	}

	filter := parseLogFilter(params)

	total, err := s.logRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Out-of-range pages clamp to the nearest valid page.
	lastPage := int(math.Ceil(float64(total) / float64(models.LogsPerPage)))
	if lastPage < 1 {
		lastPage = 1
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	if page > lastPage {
		page = lastPage
	}

	logs, _, err := s.logRepo.List(ctx, filter, (page-1)*models.LogsPerPage, models.LogsPerPage)
	if err != nil {
		return nil, err
	}

	options, err := s.filterOptions(ctx)
	if err != nil {
		return nil, err
	}

	params.Page = page
	return &models.LogPage{
		Logs:         logs,
		Total:        total,
		Page:         page,
		PerPage:      models.LogsPerPage,
		FilterValues: params,
		Options:      *options,
	}, nil
}

func (s *auditService) filterOptions(ctx context.Context) (*models.LogFilterOptions, error) {
	actions, err := s.logRepo.ActionTypes(ctx)
	if err != nil {
		return nil, err
	}
	targets, err := s.logRepo.TargetTypes(ctx)
	if err != nil {
		return nil, err
	}
	actors, err := s.logRepo.Actors(ctx)
	if err != nil {
		return nil, err
	}
	return &models.LogFilterOptions{
		ActionTypes:   actions,
		TargetTypes:   targets,
		Actors:        actors,
		ActionChoices: models.ActionTypes,
	}, nil
}

// parseLogFilter drops values it cannot interpret instead of failing the
// request.
func parseLogFilter(p models.LogListParams) repositories.AdminLogFilter {
	f := repositories.AdminLogFilter{
		Search:     strings.TrimSpace(p.Search),
		ActionType: strings.TrimSpace(p.ActionType),
		TargetType: strings.TrimSpace(p.TargetType),
	}
	if id, err := strconv.ParseUint(strings.TrimSpace(p.Actor), 10, 32); err == nil {
		actorID := uint(id)
		f.ActorID = &actorID
	}
	if from, ok := parseLogDate(p.DateFrom, false); ok {
		f.From = &from
	}
	if to, ok := parseLogDate(p.DateTo, true); ok {
		f.To = &to
	}
	return f
}

// parseLogDate accepts YYYY-MM-DD or RFC3339. A bare date used as an upper
// bound covers the whole day.
func parseLogDate(s string, endOfDay bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}
