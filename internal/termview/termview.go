// Package termview draws a month of the calendar for the terminal.
package termview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"calendr/internal/calendar"
	"calendr/internal/dates"
	"calendr/internal/model"
)

// cellWidth fits a two-digit day, the joint-holiday marker and padding.
const cellWidth = 5

// Styles colors each day class.
type Styles struct {
	Title            lipgloss.Style
	Weekday          lipgloss.Style
	Plain            lipgloss.Style
	Outside          lipgloss.Style
	Weekend          lipgloss.Style
	Holiday          lipgloss.Style
	HolidayOnWeekend lipgloss.Style
	Optional         lipgloss.Style
	Marker           lipgloss.Style
	ListDate         lipgloss.Style
}

func DefaultStyles() Styles {
	red := lipgloss.Color("9")
	return Styles{
		Title:            lipgloss.NewStyle().Bold(true),
		Weekday:          lipgloss.NewStyle().Faint(true),
		Plain:            lipgloss.NewStyle(),
		Outside:          lipgloss.NewStyle().Faint(true),
		Weekend:          lipgloss.NewStyle().Foreground(red),
		Holiday:          lipgloss.NewStyle().Foreground(red).Bold(true),
		HolidayOnWeekend: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		Optional:         lipgloss.NewStyle().Underline(true),
		Marker:           lipgloss.NewStyle().Foreground(red),
		ListDate:         lipgloss.NewStyle().Width(12),
	}
}

func (s Styles) forClass(c model.DayClass) lipgloss.Style {
	switch c {
	case model.DayWeekend:
		return s.Weekend
	case model.DayHoliday:
		return s.Holiday
	case model.DayHolidayOnWeekend:
		return s.HolidayOnWeekend
	case model.DayOptionalHoliday:
		return s.Optional
	default:
		return s.Plain
	}
}

// RenderMonth draws the 42-cell grid of a month followed by its holidays.
func RenderMonth(year int, month time.Month, idx *calendar.Index, events []model.Event, loc *time.Location) string {
	return DefaultStyles().RenderMonth(year, month, idx, events, loc)
}

func (s Styles) RenderMonth(year int, month time.Month, idx *calendar.Index, events []model.Event, loc *time.Location) string {
	if loc == nil {
		loc = idx.Location()
	}
	cells := calendar.BuildMonthGrid(year, month, loc)
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	var b strings.Builder
	title := calendar.Title(model.ViewMonth, first)
	b.WriteString(s.Title.Width(cellWidth * 7).Align(lipgloss.Center).Render(title))
	b.WriteByte('\n')

	header := make([]string, 0, 7)
	for _, wd := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		header = append(header, s.Weekday.Width(cellWidth).Align(lipgloss.Right).Render(wd))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteByte('\n')

	row := make([]string, 0, 7)
	for i, c := range cells {
		row = append(row, s.cell(c, idx))
		if i%7 == 6 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
			b.WriteByte('\n')
			row = row[:0]
		}
	}

	holidays := calendar.MonthHolidays(events, year, month, loc)
	if len(holidays) > 0 {
		b.WriteByte('\n')
	}
	for _, h := range holidays {
		start := h.Start.In(loc)
		line := s.ListDate.Render(start.Format("Mon Jan 2")) + h.Title
		if !dates.IsSameDay(start, h.End.In(loc)) {
			line += fmt.Sprintf(" (until %s)", h.End.In(loc).Format("Jan 2"))
		}
		if h.IsOptionalHoliday {
			line += " " + s.Marker.Render("•")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (s Styles) cell(c model.CalendarCell, idx *calendar.Index) string {
	day := fmt.Sprintf("%2d", c.Date.Day())
	if !c.IsCurrentMonth {
		return s.Outside.Width(cellWidth).Align(lipgloss.Right).Render(day + " ")
	}

	info := calendar.Describe(idx.ForDate(c.Date), c.Date)
	marker := " "
	if info.HasOptional {
		marker = s.Marker.Render("•")
	}
	text := s.forClass(info.Class).Render(day) + marker
	return lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right).Render(text)
}
