package response

import (
	"github.com/shopspring/decimal"
)

type StatusBreakdown struct {
	Initiated int `json:"initiated"`
	Processed int `json:"processed"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

type MonthlySummaryResponse struct {
	Month         string          `json:"month"` // 2006-01
	Label         string          `json:"label"` // Jan 2006
	CaseCount     int             `json:"case_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AverageAmount decimal.Decimal `json:"average_amount"`
	Breakdown     StatusBreakdown `json:"breakdown"`
}

type MonthlyReportResponse struct {
	Months      []MonthlySummaryResponse `json:"months"`
	SuccessRate float64                  `json:"success_rate"`
}
