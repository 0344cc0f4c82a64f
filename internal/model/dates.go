package model

import (
	"math"
	"time"
)

// DateLayout is the ISO calendar date format used on the wire and in templates
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b, comparing dates only.
// Each side is read in its own location, so a UTC due date keeps its calendar day.
func DaysBetween(a, b time.Time) int {
	ca := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	cb := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(cb.Sub(ca) / day)
}

// WeeksBetween returns ceil((to - from) / 7 days), never negative
func WeeksBetween(from, to time.Time) int {
	weeks := math.Ceil(to.Sub(from).Hours() / (24 * 7))
	if weeks < 0 {
		return 0
	}
	return int(weeks)
}

// ParseDate reads an ISO date or a full RFC3339 timestamp
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
