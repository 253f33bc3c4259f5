package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"car-dashboard/models"
)

const maxReportPoints = 20

// Print renders an aggregation result as terminal tables.
func (s *InsightService) Print(w io.Writer, r models.AggregationResult) {
	overview := newReportTable(w, "Overview")
	overview.AppendRows([]table.Row{
		{"Total records", humanize.Comma(int64(r.TotalCount))},
		{"Average price", fmt.Sprintf("%.1f 万円", r.AveragePrice)},
		{"Median price", fmt.Sprintf("%.1f 万円", r.MedianPrice)},
		{"Minimum price", fmt.Sprintf("%.1f 万円", r.MinPrice)},
		{"Maximum price", fmt.Sprintf("%s 万円", humanize.Comma(r.MaxPrice))},
		{"Grades", r.UniqueGradeCount},
		{"Repair history", fmt.Sprintf("%.1f%%", r.RepairHistoryPercentage)},
	})
	overview.Render()

	if r.TotalCount == 0 {
		fmt.Fprintln(w, "  No records match the current filter")
		return
	}

	years := newReportTable(w, "Year distribution")
	years.AppendHeader(table.Row{"Year", "Count", ""})
	for _, y := range r.YearHistogram {
		years.AppendRow(table.Row{y.Label, y.Count, bar(y.Count)})
	}
	years.Render()

	prices := newReportTable(w, "Price distribution (万円)")
	prices.AppendHeader(table.Row{"Range", "Count", ""})
	for _, b := range r.PriceHistogram {
		prices.AppendRow(table.Row{b.Label, b.Count, bar(b.Count)})
	}
	prices.Render()

	trend := newReportTable(w, "Price trend (万円)")
	trend.AppendHeader(table.Row{"Date", "Average", "Median", "Min", "Max", "Priced"})
	for _, p := range r.PriceTrend {
		trend.AppendRow(table.Row{
			p.Label,
			fmt.Sprintf("%.1f", p.Average),
			fmt.Sprintf("%.1f", p.Median),
			fmt.Sprintf("%.1f", p.Min),
			p.Max,
			p.Count,
		})
	}
	trend.Render()

	grades := newReportTable(w, "Average price by grade (万円)")
	grades.AppendHeader(table.Row{"#", "Grade", "Average", "Count"})
	for i, g := range r.GradeAnalysis {
		grades.AppendRow(table.Row{i + 1, g.Grade, fmt.Sprintf("%.1f", g.AveragePrice), g.Count})
	}
	grades.Render()

	scatter := newReportTable(w, "Mileage vs price")
	scatter.AppendHeader(table.Row{"Mileage (万km)", "Price (万円)"})
	for i, pt := range r.MileagePrice {
		if i == maxReportPoints {
			scatter.AppendFooter(table.Row{fmt.Sprintf("… %d more", len(r.MileagePrice)-maxReportPoints), ""})
			break
		}
		scatter.AppendRow(table.Row{fmt.Sprintf("%.1f", pt.X), fmt.Sprintf("%.1f", pt.Y)})
	}
	scatter.Render()
}

func newReportTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle(title)
	return t
}

func bar(n int) string {
	if n > 40 {
		n = 40
	}
	return strings.Repeat("█", n)
}
