package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"calendr/internal/calendar"
	"calendr/internal/dates"
	"calendr/internal/model"
)

//go:embed templates/calendar.html
var templateFS embed.FS

var calendarTmpl = template.Must(template.ParseFS(templateFS, "templates/calendar.html"))

// maxCellEvents is how many event titles fit in a month cell.
const maxCellEvents = 3

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type pageCell struct {
	Day         int
	Key         string
	Class       string
	Current     bool
	Today       bool
	HasOptional bool
	HasRegular  bool
	Events      []string
	More        int
}

type pageHoliday struct {
	Date     string
	Title    string
	Optional bool
}

type pageMonth struct {
	Title string
	URL   string
	Weeks [][]pageCell
}

type pageSlot struct {
	Title  string
	Time   string
	Top    float64
	Height float64
	Left   float64
	Width  int
}

type pageHour struct {
	Label string
	Top   float64
}

type pageDay struct {
	Class       string
	HasOptional bool
	Hours       []pageHour
	GridHeight  float64
	Slots       []pageSlot
}

type pageAgendaItem struct {
	Date     string
	Title    string
	Time     string
	Holiday  bool
	Optional bool
}

type pageData struct {
	Title      string
	Region     string
	RegionName string
	View       string
	PrevURL    string
	NextURL    string
	Weekdays   []string

	// Weeks backs the month (six rows) and week (one row) views.
	Weeks    [][]pageCell
	Months   []pageMonth
	Day      *pageDay
	Agenda   []pageAgendaItem
	Holidays []pageHoliday
}

// handleCalendarPage renders the requested view around date as plain HTML.
// The root element carries data-ready="true" once rendered, which is what
// the snapshot capture waits for.
func (s *Server) handleCalendarPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	region, err := s.region(r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	d, err := s.date(r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	view, err := calendar.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		s.writeFailure(w, r, badRequest(err.Error()))
		return
	}

	pd := pageData{
		Title:    calendar.Title(view, d),
		Region:   region,
		View:     string(view),
		PrevURL:  pageURL(view, calendar.Step(view, d, -1), region),
		NextURL:  pageURL(view, calendar.Step(view, d, 1), region),
		Weekdays: weekdayNames,
	}
	if rc := s.cfg.Region(region); rc != nil {
		pd.RegionName = rc.Name
	}

	switch view {
	case model.ViewYear:
		err = s.fillYearPage(ctx, &pd, d, region)
	case model.ViewWeek:
		err = s.fillWeekPage(ctx, &pd, d, region)
	case model.ViewDay:
		err = s.fillDayPage(ctx, &pd, d, region)
	case model.ViewAgenda:
		err = s.fillAgendaPage(ctx, &pd, d, region)
	default:
		err = s.fillMonthPage(ctx, &pd, d, region)
	}
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := calendarTmpl.Execute(&buf, pd); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) fillMonthPage(ctx context.Context, pd *pageData, d time.Time, region string) error {
	cells := calendar.BuildMonthGrid(d.Year(), d.Month(), s.loc)
	snap, err := s.spanSnapshot(ctx, region, cells[0].Date, cells[len(cells)-1].Date)
	if err != nil {
		return err
	}

	pd.Weeks = s.pageWeeks(snap.Index, cells, maxCellEvents)
	for _, e := range calendar.MonthHolidays(snap.Events, d.Year(), d.Month(), s.loc) {
		pd.Holidays = append(pd.Holidays, pageHoliday{
			Date:     e.Start.In(s.loc).Format("Mon, Jan 2"),
			Title:    e.Title,
			Optional: e.IsOptionalHoliday,
		})
	}
	return nil
}

func (s *Server) fillYearPage(ctx context.Context, pd *pageData, d time.Time, region string) error {
	grid := calendar.BuildYearGrid(d.Year(), s.loc)
	last := grid[len(grid)-1].Cells
	snap, err := s.spanSnapshot(ctx, region, grid[0].Cells[0].Date, last[len(last)-1].Date)
	if err != nil {
		return err
	}

	pd.Months = make([]pageMonth, 0, len(grid))
	for _, mg := range grid {
		first := time.Date(mg.Year, mg.Month, 1, 0, 0, 0, 0, s.loc)
		pd.Months = append(pd.Months, pageMonth{
			Title: mg.Month.String(),
			URL:   pageURL(model.ViewMonth, first, region),
			Weeks: s.pageWeeks(snap.Index, mg.Cells, 0),
		})
	}
	return nil
}

func (s *Server) fillWeekPage(ctx context.Context, pd *pageData, d time.Time, region string) error {
	week := calendar.WeekDates(d)
	snap, err := s.spanSnapshot(ctx, region, week[0], week[len(week)-1])
	if err != nil {
		return err
	}

	cells := make([]model.CalendarCell, 0, len(week))
	for _, day := range week {
		cells = append(cells, model.CalendarCell{Date: day, IsCurrentMonth: true})
	}
	pd.Title = calendar.Title(model.ViewWeek, week[0])
	pd.Weeks = s.pageWeeks(snap.Index, cells, -1)
	return nil
}

func (s *Server) fillDayPage(ctx context.Context, pd *pageData, d time.Time, region string) error {
	snap, err := s.spanSnapshot(ctx, region, d, d)
	if err != nil {
		return err
	}

	opts := s.layoutOptions()
	if opts.RowHeight <= 0 {
		opts.RowHeight = calendar.DefaultLayoutOptions().RowHeight
	}
	events := snap.Index.ForDate(d)
	info := calendar.Describe(events, d)

	day := &pageDay{
		Class:       info.Class.String(),
		HasOptional: info.HasOptional,
		Hours:       make([]pageHour, 0, 24),
		GridHeight:  24 * opts.RowHeight,
	}
	for h := 0; h < 24; h++ {
		day.Hours = append(day.Hours, pageHour{
			Label: fmt.Sprintf("%02d:00", h),
			Top:   float64(h) * opts.RowHeight,
		})
	}
	for _, le := range calendar.LayoutDay(d, events, opts) {
		day.Slots = append(day.Slots, pageSlot{
			Title:  le.Title,
			Time:   le.Start.In(s.loc).Format("15:04") + " - " + le.End.In(s.loc).Format("15:04"),
			Top:    le.Top,
			Height: le.Height,
			Left:   le.Left,
			Width:  le.ColumnWidth,
		})
	}
	pd.Day = day
	return nil
}

func (s *Server) fillAgendaPage(ctx context.Context, pd *pageData, d time.Time, region string) error {
	snap, err := s.snapshot(ctx, selection{year: d.Year(), region: region})
	if err != nil {
		return err
	}

	pd.Agenda = make([]pageAgendaItem, 0, len(snap.Events))
	for _, e := range calendar.Agenda(snap.Events, false) {
		item := pageAgendaItem{
			Date:     e.Start.In(s.loc).Format("Mon, Jan 2"),
			Title:    e.Title,
			Holiday:  e.IsPublicHoliday,
			Optional: e.IsOptionalHoliday,
		}
		if !e.IsPublicHoliday {
			item.Time = e.Start.In(s.loc).Format("15:04")
		}
		pd.Agenda = append(pd.Agenda, item)
	}
	return nil
}

// pageWeeks splits cells into rows of seven. limit caps the event titles per
// cell: 0 lists none and a negative limit lists all.
func (s *Server) pageWeeks(idx *calendar.Index, cells []model.CalendarCell, limit int) [][]pageCell {
	today := dates.StartOfDay(s.now().In(s.loc))
	weeks := make([][]pageCell, 0, (len(cells)+6)/7)
	week := make([]pageCell, 0, 7)
	for _, c := range cells {
		events := idx.ForDate(c.Date)
		info := calendar.Describe(events, c.Date)
		cell := pageCell{
			Day:         c.Date.Day(),
			Key:         dates.Key(c.Date),
			Class:       info.Class.String(),
			Current:     c.IsCurrentMonth,
			Today:       dates.IsSameDay(c.Date, today),
			HasOptional: info.HasOptional,
			HasRegular:  info.HasRegular,
		}
		if limit != 0 {
			for i, e := range events {
				if limit > 0 && i == limit {
					cell.More = len(events) - limit
					break
				}
				cell.Events = append(cell.Events, e.Title)
			}
		}
		week = append(week, cell)
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]pageCell, 0, 7)
		}
	}
	return weeks
}

func pageURL(view model.View, d time.Time, region string) string {
	q := url.Values{}
	q.Set("view", string(view))
	q.Set("date", dates.Key(d))
	q.Set("region", region)
	return "/calendar?" + q.Encode()
}
