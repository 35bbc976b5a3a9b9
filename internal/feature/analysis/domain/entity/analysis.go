// Package entity defines chart analyses over uploaded datasets.
package entity

import (
	"strings"
	"time"
)

// ChartType is one of the supported chart renderings.
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartPie     ChartType = "pie"
	ChartScatter ChartType = "scatter"
)

// ParseChartType trims and lower-cases s before matching.
func ParseChartType(s string) (ChartType, bool) {
	switch ct := ChartType(strings.ToLower(strings.TrimSpace(s))); ct {
	case ChartBar, ChartLine, ChartPie, ChartScatter:
		return ct, true
	default:
		return "", false
	}
}

// Analysis is a chart definition bound to one upload of the same owner.
type Analysis struct {
	ID         uint
	UserID     uint
	UploadID   uint
	XAxis      string
	YAxis      string
	ChartType  ChartType
	AISummary  string
	ChartImage string
	CreatedAt  time.Time
}

// AnalysisView is an Analysis joined with its upload's file name.
type AnalysisView struct {
	Analysis
	UploadFileName string
}
