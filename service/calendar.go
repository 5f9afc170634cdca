package service

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"gearbook/dao/model"
	"gearbook/engine"
	"gearbook/layout"
	"gearbook/logutils"
	"gearbook/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxCalendarDays = 31

type CalendarService struct {
	db *gorm.DB
}

func RegisterCalendar(r gin.IRouter, db *gorm.DB) {
	s := &CalendarService{db: db}
	r.GET("/calendar", s.Range)
}

// Block is one laid-out project on a day column.
type Block struct {
	ProjectID uint         `json:"project_id"`
	Title     string       `json:"title"`
	Status    model.Status `json:"status"`
	Start     time.Time    `json:"start"`
	End       time.Time    `json:"end"`
	Lane      int          `json:"lane"`
	Lanes     int          `json:"lanes"`
}

type DayColumn struct {
	Date   string  `json:"date"`
	Blocks []Block `json:"blocks"`
}

// Range serves the calendar feed: projects in the window, partitioned into
// day columns by start day, each column laid out by the overlap layout
// engine so simultaneous blocks render side-by-side.
func (s *CalendarService) Range(c *gin.Context) {
	from, days, ok := calendarWindow(c)
	if !ok {
		return
	}
	until := from.AddDate(0, 0, days)

	var projects []model.Project
	err := s.db.WithContext(c).
		Where("usage_start IS NOT NULL AND usage_end IS NOT NULL").
		Order("usage_start ASC").
		Order("id ASC").
		Find(&projects).Error
	if err != nil {
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":    from.Format("2006-01-02"),
		"days":    days,
		"columns": dayColumns(projects, from, until),
	})
}

// dayColumns partitions projects into per-day columns keyed by start day and
// lays each column out. A project belongs to the column of the day it starts
// on; if that day is outside [from, until) there is no column for it in the
// window, so the block is dropped even when its interval overlaps the window.
func dayColumns(projects []model.Project, from, until time.Time) []DayColumn {
	byID := make(map[uint]*model.Project, len(projects))
	byDay := make(map[string][]layout.Event)
	for i := range projects {
		p := &projects[i]
		if p.UsageStart == nil || p.UsageEnd == nil {
			continue
		}
		if !engine.Overlaps(*p.UsageStart, *p.UsageEnd, from, until) {
			continue
		}
		if p.UsageStart.Before(from) || !p.UsageStart.Before(until) {
			continue
		}
		byID[p.ID] = p
		day := p.UsageStart.Format("2006-01-02")
		byDay[day] = append(byDay[day], layout.Event{
			ID:    p.ID,
			Start: *p.UsageStart,
			End:   *p.UsageEnd,
		})
	}

	columns := make([]DayColumn, 0, len(byDay))
	for day, events := range byDay {
		col := DayColumn{Date: day, Blocks: make([]Block, 0, len(events))}
		for _, ev := range layout.Assign(events) {
			p := byID[ev.ID]
			col.Blocks = append(col.Blocks, Block{
				ProjectID: p.ID,
				Title:     p.Title,
				Status:    p.Status,
				Start:     ev.Start,
				End:       ev.End,
				Lane:      ev.Lane,
				Lanes:     ev.Lanes,
			})
		}
		columns = append(columns, col)
	}
	sort.Slice(columns, func(i, j int) bool { return columns[i].Date < columns[j].Date })
	return columns
}

func calendarWindow(c *gin.Context) (time.Time, int, bool) {
	from := time.Now().Truncate(24 * time.Hour)
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequestError(c, "from must be YYYY-MM-DD")
			return time.Time{}, 0, false
		}
		from = parsed
	}
	days := 7
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > maxCalendarDays {
			response.BadRequestError(c, "days must be between 1 and 31")
			return time.Time{}, 0, false
		}
		days = parsed
	}
	return from, days, true
}
