package export

import (
	"bytes"

	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/xuri/excelize/v2"
)

const customerSheet = "Customers"

var customerHeadings = []string{
	"Code", "Title", "Address", "Currency", "Last Delivered",
	"Month Value", "Threatened Value", "Growth", "Subscribed",
}

func renderCustomers(customers []partner.CustomerView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", customerSheet); err != nil {
		return nil, err
	}

	for i, h := range customerHeadings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(customerSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, c := range customers {
		lastDelivered := ""
		if c.LastDelivered != nil {
			lastDelivered = c.LastDelivered.Format("2006-01-02")
		}
		row := []any{
			c.Code,
			c.Title,
			c.Address,
			c.Currency,
			lastDelivered,
			c.MonthValue.InexactFloat64(),
			c.ThreatenedValue.InexactFloat64(),
			c.Growth,
			c.Subscribed,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(customerSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
