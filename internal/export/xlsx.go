// Package export writes lead reports for offline review.
package export

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/quickleads/lead-broker/internal/model"
)

var leadColumns = []string{
	"lead_id", "name", "email", "phone", "move_type",
	"origin_address", "destination_address", "move_size", "move_timeline",
	"distance_miles", "estimate_low", "estimate_high", "estimate_typical",
	"quality_tier", "quality_score", "lead_value",
	"status", "distributed_to", "created_at",
}

// WriteLeadsXLSX writes leads to a single-sheet workbook at path.
func WriteLeadsXLSX(path string, leads []model.Lead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range leadColumns {
		header.AddCell().SetString(col)
	}

	for i := range leads {
		addLeadRow(sheet, &leads[i])
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func addLeadRow(sheet *xlsx.Sheet, lead *model.Lead) {
	row := sheet.AddRow()
	row.AddCell().SetString(lead.LeadID)
	row.AddCell().SetString(lead.Name)
	row.AddCell().SetString(lead.Email)
	row.AddCell().SetString(lead.Phone)
	row.AddCell().SetString(string(lead.MoveType))
	row.AddCell().SetString(lead.OriginAddress)
	row.AddCell().SetString(lead.DestinationAddress)
	row.AddCell().SetString(string(lead.MoveSize))
	row.AddCell().SetString(string(lead.MoveTimeline))
	row.AddCell().SetFloat(lead.DistanceMiles)
	row.AddCell().SetFloat(lead.Estimate.Low)
	row.AddCell().SetFloat(lead.Estimate.High)
	row.AddCell().SetFloat(lead.Estimate.Typical)
	row.AddCell().SetString(string(lead.QualityTier))
	row.AddCell().SetString(strconv.Itoa(lead.QualityScore))
	row.AddCell().SetFloat(lead.LeadValue)
	row.AddCell().SetString(string(lead.Status))
	row.AddCell().SetString(strings.Join(lead.DistributedTo, ","))
	row.AddCell().SetString(lead.CreatedAt.Format("2006-01-02 15:04:05"))
}
