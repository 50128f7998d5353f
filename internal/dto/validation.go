package dto

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Struct-level rule tags reported on the offending field.
const (
	TagTimeAfter = "time_after"
	TagDateAfter = "date_after"
	TagDiffers   = "differs"
)

// NewValidator returns a validator that names fields by their json tag and knows
// the cross-field rules of the input structs.
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterValidations(v)
	return v
}

// RegisterValidations installs field naming and struct-level rules on v.
func RegisterValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(JSONName)
	v.RegisterStructValidation(dutyRules, DutyInput{})
	v.RegisterStructValidation(dutyTimeTypeRules, DutyTimeTypeInput{})
	v.RegisterStructValidation(leaveRules, LeaveInput{})
	v.RegisterStructValidation(attendanceRules, DutyAttendanceInput{})
	v.RegisterStructValidation(guardRules, GuardInput{})
}

// JSONName returns the json key of a struct field.
func JSONName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func dutyRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(DutyInput)
	if in.EndDate != nil && validDate(*in.EndDate) && validDate(in.StartDate) && *in.EndDate < in.StartDate {
		sl.ReportError(in.EndDate, "end_date", "EndDate", TagDateAfter, "start_date")
		return
	}
	sameDay := in.EndDate == nil || *in.EndDate == in.StartDate
	if sameDay && validClock(in.StartTime) && validClock(in.EndTime) && in.EndTime <= in.StartTime {
		sl.ReportError(in.EndTime, "end_time", "EndTime", TagTimeAfter, "start_time")
	}
}

// Shift windows may cross midnight, so only identical bounds are rejected.
func dutyTimeTypeRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(DutyTimeTypeInput)
	if validClock(in.StartTime) && in.StartTime == in.EndTime {
		sl.ReportError(in.EndTime, "end_time", "EndTime", TagDiffers, "start_time")
	}
}

func leaveRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(LeaveInput)
	if validDate(in.StartDate) && validDate(in.EndDate) && in.EndDate < in.StartDate {
		sl.ReportError(in.EndDate, "end_date", "EndDate", TagDateAfter, "start_date")
	}
}

func attendanceRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(DutyAttendanceInput)
	if in.CheckInAt == nil || in.CheckOutAt == nil {
		return
	}
	checkIn, err1 := time.Parse(time.RFC3339, *in.CheckInAt)
	checkOut, err2 := time.Parse(time.RFC3339, *in.CheckOutAt)
	if err1 == nil && err2 == nil && !checkOut.After(checkIn) {
		sl.ReportError(in.CheckOutAt, "check_out_at", "CheckOutAt", TagTimeAfter, "check_in_at")
	}
}

func guardRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(GuardInput)
	if in.DateOfBirth == nil || in.JoinedOn == nil {
		return
	}
	if validDate(*in.DateOfBirth) && validDate(*in.JoinedOn) && *in.JoinedOn <= *in.DateOfBirth {
		sl.ReportError(in.JoinedOn, "joined_on", "JoinedOn", TagDateAfter, "date_of_birth")
	}
}

// Fixed-width formats compare lexicographically once they parse.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
