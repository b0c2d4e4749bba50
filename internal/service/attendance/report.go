package attendance

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/domain/correction"
	"github.com/anpk/attendance-backend-go/internal/domain/employee"
	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

const (
	summarySheet = "Summary"
	detailSheet  = "Detail"
)

// SiteReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SiteReport(ctx context.Context, actorID string, filter attendance.ReportFilter) (attendance.SiteReportResponse, error) {
	from, to, err := filter.Parse()
	if err != nil {
		return attendance.SiteReportResponse{}, err
	}

	actor, err := s.policy.RequireAdminOrManager(ctx, actorID)
	if err != nil {
		return attendance.SiteReportResponse{}, err
	}

	var (
		st        site.Site
		employees []employee.Employee
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		st, err = s.SiteRepository.GetByID(gCtx, filter.SiteID)
		return err
	})

	g.Go(func() error {
		var err error
		employees, err = s.EmployeeRepository.ListBySiteIDs(gCtx, []string{filter.SiteID}, nil)
		if err != nil {
			return fmt.Errorf("failed to list site employees: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return attendance.SiteReportResponse{}, err
	}

	if err := s.policy.AuthorizeSite(ctx, actor, st.ID); err != nil {
		return attendance.SiteReportResponse{}, err
	}

	userIDs := make([]string, 0, len(employees))
	for _, e := range employees {
		userIDs = append(userIDs, e.ID)
	}

	var records []attendance.Attendance
	if len(userIDs) > 0 {
		records, err = s.AttendanceRepository.ListByUsersInDateRange(ctx, userIDs, from, to)
		if err != nil {
			return attendance.SiteReportResponse{}, fmt.Errorf("failed to list site attendance: %w", err)
		}
	}

	snapshots, err := s.final.ComputeAll(ctx, records)
	if err != nil {
		return attendance.SiteReportResponse{}, err
	}

	byUser := make(map[string][]attendance.Attendance, len(employees))
	for _, a := range records {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	loc := s.clock.Location()
	report := attendance.SiteReportResponse{
		SiteID:         st.ID,
		SiteName:       st.Name,
		From:           from.Format(attendance.DateLayout),
		To:             to.Format(attendance.DateLayout),
		TotalEmployees: len(employees),
		Employees:      make([]attendance.ReportEmployee, 0, len(employees)),
	}

	for _, e := range employees {
		row := attendance.ReportEmployee{
			UserID:       e.ID,
			EmployeeCode: e.EmployeeCode,
			Name:         e.Name,
			Role:         string(e.Role),
			Active:       e.Active,
			SiteID:       e.SiteID,
			Items:        []attendance.ReportItem{},
		}

		for _, a := range byUser[e.ID] {
			item := reportItem(a, snapshots[a.ID], loc)
			row.Items = append(row.Items, item)
			row.TotalDays++
			if item.WorkMinutes != nil {
				row.TotalWorkMinutes += *item.WorkMinutes
			}
			if item.CheckInAt != nil && item.CheckOutAt == nil {
				row.MissingCheckoutCount++
			}
			if item.IsCorrected {
				row.CorrectedCount++
			}
		}

		report.Employees = append(report.Employees, row)
	}

	return report, nil
}

func reportItem(a attendance.Attendance, snap correction.FinalSnapshot, loc *time.Location) attendance.ReportItem {
	item := attendance.ReportItem{
		AttendanceID: a.ID,
		WorkDate:     a.WorkDateString(),
		CheckInAt:    inZone(snap.CheckInAt, loc),
		CheckOutAt:   inZone(snap.CheckOutAt, loc),
		IsCorrected:  snap.IsCorrected,
	}
	if snap.CheckInAt != nil && snap.CheckOutAt != nil {
		minutes := int64(snap.CheckOutAt.Sub(*snap.CheckInAt) / time.Minute)
		item.WorkMinutes = &minutes
	}
	return item
}

// ExportSiteReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportSiteReport(ctx context.Context, actorID string, filter attendance.ReportFilter) (*bytes.Buffer, string, error) {
	report, err := s.SiteReport(ctx, actorID, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, "", fmt.Errorf("failed to prepare workbook: %w", err)
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, "", fmt.Errorf("failed to prepare workbook: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	summary := [][]interface{}{
		{"Site", report.SiteName},
		{"Period", fmt.Sprintf("%s ~ %s", report.From, report.To)},
		{"Employees", report.TotalEmployees},
		{},
		{"Employee Code", "Name", "Role", "Active", "Days", "Work Minutes", "Missing Check-out", "Corrected"},
	}
	for _, e := range report.Employees {
		summary = append(summary, []interface{}{
			e.EmployeeCode, e.Name, e.Role, e.Active, e.TotalDays, e.TotalWorkMinutes, e.MissingCheckoutCount, e.CorrectedCount,
		})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, "", err
	}
	if err := f.SetCellStyle(summarySheet, "A5", "H5", headerStyle); err != nil {
		return nil, "", fmt.Errorf("failed to style summary header: %w", err)
	}

	detail := [][]interface{}{
		{"Employee Code", "Name", "Work Date", "Check-in", "Check-out", "Work Minutes", "Corrected"},
	}
	for _, e := range report.Employees {
		for _, item := range e.Items {
			detail = append(detail, []interface{}{
				e.EmployeeCode, e.Name, item.WorkDate, formatClock(item.CheckInAt), formatClock(item.CheckOutAt), minutesCell(item.WorkMinutes), item.IsCorrected,
			})
		}
	}
	if err := writeRows(f, detailSheet, detail); err != nil {
		return nil, "", err
	}
	if err := f.SetCellStyle(detailSheet, "A1", "G1", headerStyle); err != nil {
		return nil, "", fmt.Errorf("failed to style detail header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("attendance_report_%s_%s.xlsx", report.From, report.To)
	return buf, filename, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func minutesCell(m *int64) interface{} {
	if m == nil {
		return "-"
	}
	return *m
}
