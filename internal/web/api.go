package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"calendr/internal/calendar"
	"calendr/internal/data"
	"calendr/internal/dates"
	"calendr/internal/model"
)

// selection is the (year, region) a request resolves events for.
type selection struct {
	year   int
	region string
}

func (s *Server) region(r *http.Request) (string, error) {
	code := strings.TrimSpace(r.URL.Query().Get("region"))
	if code == "" {
		code = s.cfg.DefaultRegion
	}
	rc := s.cfg.Region(code)
	if rc == nil {
		return "", badRequest("unknown region " + strconv.Quote(code))
	}
	return rc.Code, nil
}

func (s *Server) yearSelection(r *http.Request) (selection, error) {
	region, err := s.region(r)
	if err != nil {
		return selection{}, err
	}
	year, err := parseIntDefault(r.URL.Query().Get("year"), s.now().In(s.loc).Year())
	if err != nil || year < 1 || year > 9999 {
		return selection{}, badRequest("invalid year")
	}
	return selection{year: year, region: region}, nil
}

// date reads the date query parameter; it defaults to today.
func (s *Server) date(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return dates.StartOfDay(s.now().In(s.loc)), nil
	}
	d, err := dates.ParseKey(raw, s.loc)
	if err != nil {
		return time.Time{}, badRequest("invalid date, want YYYY-MM-DD")
	}
	return d, nil
}

func (s *Server) snapshot(ctx context.Context, sel selection) (*data.Snapshot, error) {
	return s.store.Get(ctx, sel.year, sel.region)
}

// spanSnapshot covers every event that can show on a date in [from, to],
// including spans that start in an earlier year's data.
func (s *Server) spanSnapshot(ctx context.Context, region string, from, to time.Time) (*data.Snapshot, error) {
	return s.store.Span(ctx, region, from, to)
}

// dayDTO is one date with its classification and, optionally, its events.
type dayDTO struct {
	Date           string `json:"date"`
	IsCurrentMonth bool   `json:"is_current_month"`
	calendar.DayInfo
	EventCount int           `json:"event_count"`
	Events     []model.Event `json:"events,omitempty"`
}

func describeDay(idx *calendar.Index, d time.Time, withEvents bool) dayDTO {
	events := idx.ForDate(d)
	out := dayDTO{
		Date:           dates.Key(d),
		IsCurrentMonth: true,
		DayInfo:        calendar.Describe(events, d),
		EventCount:     len(events),
	}
	if withEvents {
		out.Events = events
	}
	return out
}

type regionDTO struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	out := make([]regionDTO, 0, len(s.cfg.Regions))
	for _, rc := range s.cfg.Regions {
		out = append(out, regionDTO{
			Code:    rc.Code,
			Name:    rc.Name,
			Default: strings.EqualFold(rc.Code, s.cfg.DefaultRegion),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type eventsResponse struct {
	Year   int           `json:"year"`
	Region string        `json:"region"`
	Events []model.Event `json:"events"`
}

func (s *Server) handleEvents(ctx context.Context, r *http.Request) (any, error) {
	sel, err := s.yearSelection(r)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, sel)
	if err != nil {
		return nil, err
	}
	return eventsResponse{Year: sel.year, Region: sel.region, Events: snap.Events}, nil
}

type monthResponse struct {
	Year     int           `json:"year"`
	Month    int           `json:"month"`
	Region   string        `json:"region"`
	Title    string        `json:"title"`
	Cells    []dayDTO      `json:"cells"`
	Holidays []model.Event `json:"holidays"`
}

func (s *Server) handleMonth(ctx context.Context, r *http.Request) (any, error) {
	sel, err := s.yearSelection(r)
	if err != nil {
		return nil, err
	}
	month, err := parseIntDefault(r.URL.Query().Get("month"), int(s.now().In(s.loc).Month()))
	if err != nil || month < 1 || month > 12 {
		return nil, badRequest("invalid month, want 1-12")
	}
	cells := calendar.BuildMonthGrid(sel.year, time.Month(month), s.loc)
	snap, err := s.spanSnapshot(ctx, sel.region, cells[0].Date, cells[len(cells)-1].Date)
	if err != nil {
		return nil, err
	}

	resp := monthResponse{
		Year:     sel.year,
		Month:    month,
		Region:   sel.region,
		Title:    calendar.Title(model.ViewMonth, time.Date(sel.year, time.Month(month), 1, 0, 0, 0, 0, s.loc)),
		Cells:    make([]dayDTO, 0, len(cells)),
		Holidays: calendar.MonthHolidays(snap.Events, sel.year, time.Month(month), s.loc),
	}
	for _, c := range cells {
		d := describeDay(snap.Index, c.Date, true)
		d.IsCurrentMonth = c.IsCurrentMonth
		resp.Cells = append(resp.Cells, d)
	}
	return resp, nil
}

type yearMonthDTO struct {
	Month int      `json:"month"`
	Title string   `json:"title"`
	Cells []dayDTO `json:"cells"`
}

type yearResponse struct {
	Year   int            `json:"year"`
	Region string         `json:"region"`
	Months []yearMonthDTO `json:"months"`
}

func (s *Server) handleYear(ctx context.Context, r *http.Request) (any, error) {
	sel, err := s.yearSelection(r)
	if err != nil {
		return nil, err
	}
	grid := calendar.BuildYearGrid(sel.year, s.loc)
	snap, err := s.spanSnapshot(ctx, sel.region, grid[0].Cells[0].Date, grid[11].Cells[len(grid[11].Cells)-1].Date)
	if err != nil {
		return nil, err
	}

	resp := yearResponse{Year: sel.year, Region: sel.region, Months: make([]yearMonthDTO, 0, 12)}
	for _, mg := range grid {
		m := yearMonthDTO{
			Month: int(mg.Month),
			Title: mg.Month.String(),
			Cells: make([]dayDTO, 0, len(mg.Cells)),
		}
		for _, c := range mg.Cells {
			d := describeDay(snap.Index, c.Date, false)
			d.IsCurrentMonth = c.IsCurrentMonth
			m.Cells = append(m.Cells, d)
		}
		resp.Months = append(resp.Months, m)
	}
	return resp, nil
}

type weekResponse struct {
	Region string   `json:"region"`
	Title  string   `json:"title"`
	Days   []dayDTO `json:"days"`
}

// handleWeek serves the Sunday-start week containing date.
func (s *Server) handleWeek(ctx context.Context, r *http.Request) (any, error) {
	region, err := s.region(r)
	if err != nil {
		return nil, err
	}
	d, err := s.date(r)
	if err != nil {
		return nil, err
	}

	week := calendar.WeekDates(d)
	snap, err := s.spanSnapshot(ctx, region, week[0], week[len(week)-1])
	if err != nil {
		return nil, err
	}
	resp := weekResponse{
		Region: region,
		Title:  calendar.Title(model.ViewWeek, week[0]),
		Days:   make([]dayDTO, 0, len(week)),
	}
	for _, day := range week {
		resp.Days = append(resp.Days, describeDay(snap.Index, day, true))
	}
	return resp, nil
}

type dayResponse struct {
	Date   string `json:"date"`
	Region string `json:"region"`
	Title  string `json:"title"`
	calendar.DayInfo
	Events []model.LaidOutEvent `json:"events"`
}

func (s *Server) handleDay(ctx context.Context, r *http.Request) (any, error) {
	region, err := s.region(r)
	if err != nil {
		return nil, err
	}
	d, err := s.date(r)
	if err != nil {
		return nil, err
	}
	snap, err := s.spanSnapshot(ctx, region, d, d)
	if err != nil {
		return nil, err
	}

	events := snap.Index.ForDate(d)
	return dayResponse{
		Date:    dates.Key(d),
		Region:  region,
		Title:   calendar.Title(model.ViewDay, d),
		DayInfo: calendar.Describe(events, d),
		Events:  calendar.LayoutDay(d, events, s.layoutOptions()),
	}, nil
}

func (s *Server) layoutOptions() calendar.LayoutOptions {
	l := s.cfg.Layout
	return calendar.LayoutOptions{
		RowHeight:   l.RowHeight,
		MinHeight:   l.MinHeight,
		ColumnWidth: l.ColumnWidth,
		ColumnGap:   l.ColumnGap,
	}
}

type agendaResponse struct {
	Year         int           `json:"year"`
	Region       string        `json:"region"`
	HolidaysOnly bool          `json:"holidays_only"`
	Events       []model.Event `json:"events"`
}

func (s *Server) handleAgenda(ctx context.Context, r *http.Request) (any, error) {
	sel, err := s.yearSelection(r)
	if err != nil {
		return nil, err
	}
	holidaysOnly := false
	if v := r.URL.Query().Get("holidays_only"); v != "" {
		holidaysOnly, err = strconv.ParseBool(v)
		if err != nil {
			return nil, badRequest("invalid holidays_only")
		}
	}
	snap, err := s.snapshot(ctx, sel)
	if err != nil {
		return nil, err
	}
	return agendaResponse{
		Year:         sel.year,
		Region:       sel.region,
		HolidaysOnly: holidaysOnly,
		Events:       calendar.Agenda(snap.Events, holidaysOnly),
	}, nil
}
