package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/demiirawo/cc-academy/database"
	"github.com/demiirawo/cc-academy/models"
	"github.com/demiirawo/cc-academy/services"
)

// PayPreview returns the estimated pay breakdown for one staff member.
// Optional query params: month=YYYY-MM (defaults to the current month) and
// currency=XXX (re-denominates the figures via the exchange-rate service).
func PayPreview(c *fiber.Ctx) error {
	user, err := loadOrgUser(c, false)
	if err != nil {
		return err
	}

	refDate := time.Now().UTC()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return badRequest(c, "month must be YYYY-MM")
		}
		refDate = parsed
	}

	input, err := collectPayInputs(c, user, refDate)
	if err != nil {
		return dbError(c, err)
	}

	preview := services.BuildPayPreview(*input)
	if preview == nil {
		return c.JSON(fiber.Map{
			"available": false,
			"reason":    "No base salary on the HR profile",
		})
	}

	if target := c.Query("currency"); target != "" && target != preview.Currency {
		rate, err := exchangeClient.Rate(c.UserContext(), preview.Currency, target)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Exchange rate lookup failed: " + err.Error()})
		}
		convertPreview(preview, target, rate)
	}

	return c.JSON(fiber.Map{"available": true, "preview": preview})
}

// PayPreviewExport writes the whole roster's pay previews to a spreadsheet
func PayPreviewExport(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	refDate := time.Now().UTC()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return badRequest(c, "month must be YYYY-MM")
		}
		refDate = parsed
	}

	var staff []models.User
	err = database.GetDB().
		Where("organisation_id = ? AND is_active = true", orgID).
		Order("last_name, first_name").
		Find(&staff).Error
	if err != nil {
		return dbError(c, err)
	}

	holidays := fetchHolidays(c, refDate.Year())

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Pay Preview"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Staff member", "Currency", "Monthly base", "Bonuses",
		"Holiday OT days", "Holiday OT bonus", "Deductions", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, member := range staff {
		input, err := collectPayInputsFor(&member, holidays, refDate)
		if err != nil {
			return dbError(c, err)
		}
		preview := services.BuildPayPreview(*input)
		if preview == nil {
			continue
		}

		values := []interface{}{
			member.FullName(), preview.Currency, preview.MonthlyBaseSalary,
			preview.Bonuses, preview.HolidayOvertimeDays,
			preview.HolidayOvertimeBonus, preview.Deductions, preview.TotalPay,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build spreadsheet"})
	}

	filename := fmt.Sprintf("pay-preview-%s.xlsx", refDate.Format("2006-01"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// collectPayInputs gathers every row the calculator needs for one user
func collectPayInputs(c *fiber.Ctx, user *models.User, refDate time.Time) (*services.PayPreviewInput, error) {
	holidays := fetchHolidays(c, refDate.Year())
	return collectPayInputsFor(user, holidays, refDate)
}

func collectPayInputsFor(user *models.User, holidays []services.Holiday, refDate time.Time) (*services.PayPreviewInput, error) {
	db := database.GetDB()

	var profile models.StaffProfile
	err := db.Where("user_id = ?", user.ID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &services.PayPreviewInput{Today: refDate}, nil
	}
	if err != nil {
		return nil, err
	}

	var patterns []models.RecurringShiftPattern
	if err := db.Where("user_id = ?", user.ID).Find(&patterns).Error; err != nil {
		return nil, err
	}

	var exceptions []models.ShiftPatternException
	if len(patterns) > 0 {
		ids := make([]interface{}, 0, len(patterns))
		for _, p := range patterns {
			ids = append(ids, p.ID)
		}
		if err := db.Where("pattern_id IN ?", ids).Find(&exceptions).Error; err != nil {
			return nil, err
		}
	}

	monthStart := time.Date(refDate.Year(), refDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	var schedules []models.StaffSchedule
	err = db.Where("user_id = ? AND start_datetime >= ? AND start_datetime < ?",
		user.ID, monthStart, monthStart.AddDate(0, 1, 0)).
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}

	var records []models.PayRecord
	err = db.Where("user_id = ? AND pay_date >= ? AND pay_date < ?",
		user.ID, monthStart, monthStart.AddDate(0, 1, 0)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return &services.PayPreviewInput{
		Profile:    &profile,
		Patterns:   patterns,
		Exceptions: exceptions,
		Schedules:  schedules,
		Holidays:   holidays,
		PayRecords: records,
		Today:      refDate,
	}, nil
}

// fetchHolidays asks the lookup service for the year's public holidays.
// A failed lookup degrades to zero holiday-overtime days instead of
// failing the preview.
func fetchHolidays(c *fiber.Ctx, year int) []services.Holiday {
	holidays, err := holidayClient.FetchYear(c.UserContext(), year)
	if err != nil {
		log.Printf("Warning: public holiday lookup failed for %d: %v", year, err)
		return nil
	}
	return holidays
}

// convertPreview re-denominates every monetary field for display
func convertPreview(p *services.PayPreview, currency string, rate float64) {
	p.Currency = currency
	p.MonthlyBaseSalary *= rate
	p.DailyRate *= rate
	p.Bonuses *= rate
	p.Deductions *= rate
	p.HolidayOvertimeBonus *= rate
	p.TotalPay *= rate
}
