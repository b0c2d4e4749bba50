package attendance

import (
	"testing"

	"github.com/anpk/attendance-backend-go/internal/domain/access"
	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/domain/common"
	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func (f *fixture) seedReportData(t *testing.T) {
	t.Helper()

	in10, out10 := f.at(10, 9, 0), f.at(10, 18, 0)
	in13 := f.at(13, 9, 0)
	f.seed(t, "att-10", empID, 10, &in10, &out10)
	f.seed(t, "att-13", empID, 13, &in13, nil)
	f.seed(t, "att-outside", empID, 25, &in10, &out10)
	f.seed(t, "att-busan", otherEmpID, 10, &in10, &out10)

	corrected := f.at(10, 8, 30)
	f.approve(t, "corr-1", "att-10", empID, &corrected, nil, f.at(11, 9, 0))
}

func reportRow(t *testing.T, report attendance.SiteReportResponse, code string) attendance.ReportEmployee {
	t.Helper()
	for _, e := range report.Employees {
		if e.EmployeeCode == code {
			return e
		}
	}
	require.Failf(t, "employee missing from report", "code %s", code)
	return attendance.ReportEmployee{}
}

func TestSiteReport_AggregatesFinalValues(t *testing.T) {
	f := newFixture(t)
	f.seedReportData(t)

	report, err := f.service.SiteReport(f.ctx, mgrID, attendance.ReportFilter{SiteID: siteA, From: "2025-01-01", To: "2025-01-20"})
	require.NoError(t, err)

	assert.Equal(t, "Seoul HQ", report.SiteName)
	assert.Equal(t, "2025-01-01", report.From)
	assert.Equal(t, "2025-01-20", report.To)
	// Inactive employees stay in historical reports.
	assert.Equal(t, 4, report.TotalEmployees)

	kim := reportRow(t, report, "E001")
	assert.Equal(t, 2, kim.TotalDays)
	assert.Equal(t, int64(570), kim.TotalWorkMinutes)
	assert.Equal(t, 1, kim.MissingCheckoutCount)
	assert.Equal(t, 1, kim.CorrectedCount)
	require.Len(t, kim.Items, 2)
	assert.True(t, kim.Items[0].IsCorrected)
	require.NotNil(t, kim.Items[0].WorkMinutes)
	assert.Equal(t, int64(570), *kim.Items[0].WorkMinutes)
	assert.Nil(t, kim.Items[1].WorkMinutes)

	retired := reportRow(t, report, "E003")
	assert.False(t, retired.Active)
	assert.Empty(t, retired.Items)
}

func TestSiteReport_Access(t *testing.T) {
	f := newFixture(t)
	filter := attendance.ReportFilter{SiteID: siteB, From: "2025-01-01", To: "2025-01-31"}

	_, err := f.service.SiteReport(f.ctx, mgrID, filter)
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = f.service.SiteReport(f.ctx, empID, filter)
	assert.ErrorIs(t, err, access.ErrForbidden)

	report, err := f.service.SiteReport(f.ctx, adminID, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalEmployees)

	_, err = f.service.SiteReport(f.ctx, adminID, attendance.ReportFilter{SiteID: "nowhere", From: "2025-01-01", To: "2025-01-31"})
	assert.ErrorIs(t, err, site.ErrSiteNotFound)
}

func TestSiteReport_FilterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		filter  attendance.ReportFilter
		wantErr error
	}{
		{"missing site", attendance.ReportFilter{From: "2025-01-01", To: "2025-01-31"}, common.ErrMissingRequiredParam},
		{"bad date", attendance.ReportFilter{SiteID: siteA, From: "2025-1-1", To: "2025-01-31"}, common.ErrInvalidRequestParam},
		{"reversed range", attendance.ReportFilter{SiteID: siteA, From: "2025-02-01", To: "2025-01-31"}, attendance.ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.SiteReport(f.ctx, adminID, tt.filter)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExportSiteReport_Workbook(t *testing.T) {
	f := newFixture(t)
	f.seedReportData(t)

	buf, filename, err := f.service.ExportSiteReport(f.ctx, adminID, attendance.ReportFilter{SiteID: siteA, From: "2025-01-01", To: "2025-01-20"})
	require.NoError(t, err)
	assert.Equal(t, "attendance_report_2025-01-01_2025-01-20.xlsx", filename)

	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{"Summary", "Detail"}, book.GetSheetList())

	siteName, err := book.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Seoul HQ", siteName)

	rows, err := book.GetRows("Detail")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Work Date", rows[0][2])
	assert.Equal(t, []string{"E001", "Kim", "2025-01-10", "2025-01-10 08:30", "2025-01-10 18:00", "570", "TRUE"}, rows[1])
	assert.Equal(t, "-", rows[2][4])
}
