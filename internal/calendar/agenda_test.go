package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"calendr/internal/model"
)

func TestAgenda(t *testing.T) {
	t.Parallel()

	holiday := ev("independence", at(2025, 8, 17, 0, 0), at(2025, 8, 17, 23, 59))
	holiday.IsPublicHoliday = true
	joint := ev("joint", at(2025, 8, 18, 0, 0), at(2025, 8, 18, 23, 59))
	joint.IsOptionalHoliday = true
	festival := ev("festival", at(2025, 7, 1, 19, 0), at(2025, 7, 1, 22, 0))
	broken := ev("broken", at(2025, 7, 2, 0, 0), at(2025, 7, 1, 0, 0))

	events := []model.Event{holiday, joint, festival, broken}

	assert.Equal(t, []string{"festival", "independence", "joint"}, ids(Agenda(events, false)))
	assert.Equal(t, []string{"independence"}, ids(Agenda(events, true)))
	assert.Empty(t, Agenda(nil, false))
}

func TestMonthHolidays(t *testing.T) {
	t.Parallel()

	eid := ev("eid", at(2025, 3, 31, 0, 0), at(2025, 4, 1, 23, 59))
	eid.IsPublicHoliday = true
	nyepi := ev("nyepi", at(2025, 3, 29, 0, 0), at(2025, 3, 29, 23, 59))
	nyepi.IsPublicHoliday = true
	joint := ev("joint", at(2025, 3, 28, 0, 0), at(2025, 3, 28, 23, 59))
	joint.IsOptionalHoliday = true
	concert := ev("concert", at(2025, 3, 15, 19, 0), at(2025, 3, 15, 22, 0))
	good := ev("good-friday", at(2025, 4, 18, 0, 0), at(2025, 4, 18, 23, 59))
	good.IsPublicHoliday = true

	events := []model.Event{eid, good, nyepi, concert, joint}

	assert.Equal(t, []string{"joint", "nyepi", "eid"}, ids(MonthHolidays(events, 2025, time.March, wib)))
	assert.Equal(t, []string{"good-friday"}, ids(MonthHolidays(events, 2025, time.April, wib)))
	assert.Empty(t, MonthHolidays(events, 2024, time.March, wib))
}
