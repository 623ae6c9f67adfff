package calendar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"calendr/internal/model"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	saturday := at(2025, 1, 4, 0, 0)
	monday := at(2025, 1, 6, 0, 0)

	mandatory := model.Event{ID: "m", IsPublicHoliday: true}
	optional := model.Event{ID: "o", IsOptionalHoliday: true}
	joint := model.Event{ID: "j", IsPublicHoliday: true, IsOptionalHoliday: true}
	regular := model.Event{ID: "r"}

	tests := []struct {
		name   string
		events []model.Event
		day    bool // true = saturday
		want   DayInfo
	}{
		{name: "plain weekday", want: DayInfo{Class: model.DayPlain}},
		{name: "regular event on weekday", events: []model.Event{regular}, want: DayInfo{Class: model.DayPlain, HasRegular: true}},
		{name: "weekend", day: true, want: DayInfo{Class: model.DayWeekend}},
		{name: "holiday", events: []model.Event{mandatory}, want: DayInfo{Class: model.DayHoliday}},
		{name: "holiday on weekend", day: true, events: []model.Event{mandatory}, want: DayInfo{Class: model.DayHolidayOnWeekend}},
		{name: "optional on weekday", events: []model.Event{optional}, want: DayInfo{Class: model.DayOptionalHoliday, HasOptional: true}},
		{name: "optional on weekend keeps weekend", day: true, events: []model.Event{optional}, want: DayInfo{Class: model.DayWeekend, HasOptional: true}},
		{name: "holiday beats optional", events: []model.Event{optional, mandatory}, want: DayInfo{Class: model.DayHoliday, HasOptional: true}},
		{name: "mandatory and optional on weekend", day: true, events: []model.Event{mandatory, optional}, want: DayInfo{Class: model.DayHolidayOnWeekend, HasOptional: true}},
		{name: "joint flagged public is not mandatory", events: []model.Event{joint}, want: DayInfo{Class: model.DayOptionalHoliday, HasOptional: true}},
		{name: "all markers", events: []model.Event{regular, joint, mandatory}, want: DayInfo{Class: model.DayHoliday, HasOptional: true, HasRegular: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := monday
			if tt.day {
				d = saturday
			}
			got := Describe(tt.events, d)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Class, Classify(tt.events, d))
		})
	}
}

func TestDayClassText(t *testing.T) {
	t.Parallel()

	b, err := model.DayHolidayOnWeekend.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "holiday_on_weekend", string(b))
	assert.Equal(t, "plain", model.DayPlain.String())
	assert.Equal(t, "optional_holiday", model.DayOptionalHoliday.String())
}

func TestDayInfoDecodesOwnJSON(t *testing.T) {
	t.Parallel()

	var info DayInfo
	err := json.Unmarshal([]byte(`{"class":"optional_holiday","has_optional":true,"has_regular":false}`), &info)
	assert.NoError(t, err)
	assert.Equal(t, DayInfo{Class: model.DayOptionalHoliday, HasOptional: true}, info)

	var c model.DayClass
	assert.Error(t, c.UnmarshalText([]byte("festival")))
}
