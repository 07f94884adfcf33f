package investments

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finance-backend/internal/tabular"
)

const (
	colName       = "Name"
	colValue      = "Value"
	colType       = "Type"
	colRisk       = "Risk Level"
	colAllocation = "Allocation"
	colReturn     = "Return"
)

// Parse maps spreadsheet rows to investments. Name and Value columns are required;
// rows with a blank Name or Value are skipped.
func Parse(table tabular.Table) ([]Investment, error) {
	nameIdx, valueIdx := table.Column(colName), table.Column(colValue)
	var missing []string
	if nameIdx < 0 {
		missing = append(missing, colName)
	}
	if valueIdx < 0 {
		missing = append(missing, colValue)
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	typeIdx := table.Column(colType)
	riskIdx := table.Column(colRisk)
	allocIdx := table.Column(colAllocation)
	returnIdx := table.Column(colReturn)

	out := make([]Investment, 0, len(table.Rows))
	for _, row := range table.Rows {
		name := tabular.Cell(row, nameIdx)
		rawValue := tabular.Cell(row, valueIdx)
		if name == "" || rawValue == "" {
			continue
		}
		typ := tabular.Cell(row, typeIdx)
		if typ == "" {
			typ = InferType(name)
		}
		out = append(out, Investment{
			ID:         fmt.Sprintf("inv_%d", len(out)+1),
			Name:       name,
			Type:       typ,
			Value:      tabular.ParseFloat(rawValue),
			Allocation: tabular.ParseFloat(tabular.Cell(row, allocIdx)),
			Return:     tabular.ParseFloat(tabular.Cell(row, returnIdx)),
			RiskLevel:  InferRiskLevel(typ, tabular.Cell(row, riskIdx)),
			Icon:       IconFor(typ),
		})
	}
	if allocIdx < 0 {
		assignShares(out)
	}
	return out, nil
}

// assignShares sets each allocation to its percentage of the total value, to one decimal.
func assignShares(holdings []Investment) {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(decimal.NewFromFloat(h.Value))
	}
	if !total.IsPositive() {
		return
	}
	hundred := decimal.NewFromInt(100)
	for i := range holdings {
		share := decimal.NewFromFloat(holdings[i].Value).Mul(hundred).Div(total).Round(1)
		holdings[i].Allocation = share.InexactFloat64()
	}
}
