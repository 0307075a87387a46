package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/demiirawo/cc-academy/database"
	"github.com/demiirawo/cc-academy/models"
)

// StaffList returns the org roster
func StaffList(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	q := database.GetDB().Where("organisation_id = ?", orgID)
	if c.Query("active", "true") == "true" {
		q = q.Where("is_active = true")
	}

	var staff []models.User
	if err := q.Order("last_name, first_name").Find(&staff).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"staff": staff, "total": len(staff)})
}

// StaffCreate adds a staff member to the org
func StaffCreate(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	var req struct {
		Email      string     `json:"email"`
		Password   string     `json:"password"`
		FirstName  string     `json:"first_name"`
		LastName   string     `json:"last_name"`
		Role       string     `json:"role"`
		JobTitle   *string    `json:"job_title"`
		Department *string    `json:"department"`
		HireDate   *time.Time `json:"hire_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if req.Email == "" || len(req.Password) < 8 {
		return badRequest(c, "Email and a password of at least 8 characters are required")
	}
	switch req.Role {
	case models.RoleAdmin, models.RoleManager, models.RoleStaff:
	case "":
		req.Role = models.RoleStaff
	default:
		return badRequest(c, "Unknown role: "+req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		JobTitle:     req.JobTitle,
		Department:   req.Department,
		HireDate:     req.HireDate,
		IsActive:     true,
	}
	user.OrganisationID = orgID

	if err := database.GetDB().Create(&user).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// StaffView returns one staff member
func StaffView(c *fiber.Ctx) error {
	user, err := loadOrgUser(c, false)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// StaffUpdate edits roster fields (not credentials)
func StaffUpdate(c *fiber.Ctx) error {
	user, err := loadOrgUser(c, true)
	if err != nil {
		return err
	}

	var req struct {
		FirstName  *string    `json:"first_name"`
		LastName   *string    `json:"last_name"`
		Role       *string    `json:"role"`
		JobTitle   *string    `json:"job_title"`
		Department *string    `json:"department"`
		HireDate   *time.Time `json:"hire_date"`
		IsActive   *bool      `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleAdmin, models.RoleManager, models.RoleStaff:
			updates["role"] = *req.Role
		default:
			return badRequest(c, "Unknown role: "+*req.Role)
		}
	}
	if req.JobTitle != nil {
		updates["job_title"] = req.JobTitle
	}
	if req.Department != nil {
		updates["department"] = req.Department
	}
	if req.HireDate != nil {
		updates["hire_date"] = req.HireDate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := database.GetDB().Model(user).Updates(updates).Error; err != nil {
			return dbError(c, err)
		}
	}

	return c.JSON(user)
}

// HRProfileView returns a staff member's HR profile
func HRProfileView(c *fiber.Ctx) error {
	user, err := loadOrgUser(c, false)
	if err != nil {
		return err
	}

	var profile models.StaffProfile
	err = database.GetDB().Where("user_id = ?", user.ID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "No HR profile for this staff member")
		}
		return dbError(c, err)
	}

	return c.JSON(profile)
}

// HRProfileUpsert creates or replaces a staff member's HR profile
func HRProfileUpsert(c *fiber.Ctx) error {
	user, err := loadOrgUser(c, true)
	if err != nil {
		return err
	}

	var req struct {
		BaseSalary             *float64 `json:"base_salary"`
		BaseCurrency           string   `json:"base_currency"`
		PayFrequency           string   `json:"pay_frequency"`
		AnnualHolidayAllowance int      `json:"annual_holiday_allowance"`
		BankAccount            *string  `json:"bank_account"`
		TaxReference           *string  `json:"tax_reference"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	switch req.PayFrequency {
	case models.PayFrequencyWeekly, models.PayFrequencyBiWeekly,
		models.PayFrequencyMonthly, models.PayFrequencyAnnually:
	case "":
		req.PayFrequency = models.PayFrequencyMonthly
	default:
		return badRequest(c, "Unknown pay_frequency: "+req.PayFrequency)
	}
	if req.BaseCurrency == "" {
		req.BaseCurrency = "GBP"
	}
	if req.BaseSalary != nil && *req.BaseSalary < 0 {
		return badRequest(c, "base_salary cannot be negative")
	}

	db := database.GetDB()

	var profile models.StaffProfile
	err = db.Where("user_id = ?", user.ID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.StaffProfile{UserID: user.ID}
		profile.OrganisationID = user.OrganisationID
	} else if err != nil {
		return dbError(c, err)
	}

	profile.BaseSalary = req.BaseSalary
	profile.BaseCurrency = req.BaseCurrency
	profile.PayFrequency = req.PayFrequency
	profile.AnnualHolidayAllowance = req.AnnualHolidayAllowance
	profile.BankAccount = req.BankAccount
	profile.TaxReference = req.TaxReference

	if err := db.Save(&profile).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(profile)
}

// PatternList returns a staff member's recurring shift patterns
func PatternList(c *fiber.Ctx) error {
	user, err := loadOrgUser(c, false)
	if err != nil {
		return err
	}

	var patterns []models.RecurringShiftPattern
	if err := database.GetDB().Where("user_id = ?", user.ID).Order("created_at").Find(&patterns).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"patterns": patterns, "total": len(patterns)})
}

// PatternCreate adds a recurring shift pattern for a staff member
func PatternCreate(c *fiber.Ctx) error {
	user, err := loadOrgUser(c, true)
	if err != nil {
		return err
	}

	var req struct {
		DaysOfWeek         string     `json:"days_of_week"`
		StartTime          string     `json:"start_time"`
		EndTime            string     `json:"end_time"`
		StartDate          *time.Time `json:"start_date"`
		EndDate            *time.Time `json:"end_date"`
		RecurrenceInterval string     `json:"recurrence_interval"`
		Label              *string    `json:"label"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	switch req.RecurrenceInterval {
	case models.RecurrenceWeekly, models.RecurrenceBiweekly, models.RecurrenceMonthly:
	case "":
		req.RecurrenceInterval = models.RecurrenceWeekly
	default:
		return badRequest(c, "Unknown recurrence_interval: "+req.RecurrenceInterval)
	}

	pattern := models.RecurringShiftPattern{
		UserID:             user.ID,
		DaysOfWeek:         req.DaysOfWeek,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		RecurrenceInterval: req.RecurrenceInterval,
		Label:              req.Label,
	}
	pattern.OrganisationID = user.OrganisationID
	if len(pattern.WeekdaySet()) == 0 {
		return badRequest(c, "days_of_week must contain at least one weekday (0-6)")
	}

	if err := database.GetDB().Create(&pattern).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(pattern)
}

// PatternDelete removes a pattern and its exceptions
func PatternDelete(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}
	patternID, err := paramUUID(c, "patternId")
	if err != nil {
		return badRequest(c, "Invalid pattern id")
	}

	db := database.GetDB()

	var pattern models.RecurringShiftPattern
	err = db.Where("id = ? AND organisation_id = ?", patternID, orgID).First(&pattern).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Pattern not found")
		}
		return dbError(c, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pattern_id = ?", pattern.ID).Delete(&models.ShiftPatternException{}).Error; err != nil {
			return err
		}
		return tx.Delete(&pattern).Error
	})
	if err != nil {
		return dbError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ExceptionCreate suppresses one pattern occurrence on one date
func ExceptionCreate(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}
	patternID, err := paramUUID(c, "patternId")
	if err != nil {
		return badRequest(c, "Invalid pattern id")
	}

	var req struct {
		ExceptionDate string  `json:"exception_date"` // YYYY-MM-DD
		Reason        *string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	date, err := time.Parse("2006-01-02", req.ExceptionDate)
	if err != nil {
		return badRequest(c, "exception_date must be YYYY-MM-DD")
	}

	db := database.GetDB()

	var pattern models.RecurringShiftPattern
	err = db.Where("id = ? AND organisation_id = ?", patternID, orgID).First(&pattern).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Pattern not found")
		}
		return dbError(c, err)
	}

	exception := models.ShiftPatternException{
		PatternID:     pattern.ID,
		ExceptionDate: date.UTC(),
		Reason:        req.Reason,
	}
	err = db.Where("pattern_id = ? AND exception_date = ?", pattern.ID, exception.ExceptionDate).
		FirstOrCreate(&exception).Error
	if err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(exception)
}

// ExceptionDelete restores a suppressed occurrence
func ExceptionDelete(c *fiber.Ctx) error {
	exceptionID, err := paramUUID(c, "exceptionId")
	if err != nil {
		return badRequest(c, "Invalid exception id")
	}
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	res := database.GetDB().
		Where("id = ? AND pattern_id IN (?)",
			exceptionID,
			database.GetDB().Model(&models.RecurringShiftPattern{}).
				Select("id").Where("organisation_id = ?", orgID),
		).
		Delete(&models.ShiftPatternException{})
	if res.Error != nil {
		return dbError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(c, "Exception not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ScheduleList returns a staff member's concrete shifts, optionally for one
// month (?month=YYYY-MM)
func ScheduleList(c *fiber.Ctx) error {
	user, err := loadOrgUser(c, false)
	if err != nil {
		return err
	}

	q := database.GetDB().Where("user_id = ?", user.ID)
	if raw := c.Query("month"); raw != "" {
		monthStart, err := time.Parse("2006-01", raw)
		if err != nil {
			return badRequest(c, "month must be YYYY-MM")
		}
		q = q.Where("start_datetime >= ? AND start_datetime < ?", monthStart, monthStart.AddDate(0, 1, 0))
	}

	var schedules []models.StaffSchedule
	if err := q.Order("start_datetime").Find(&schedules).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"schedules": schedules, "total": len(schedules)})
}

// ScheduleCreate adds a concrete shift instance
func ScheduleCreate(c *fiber.Ctx) error {
	user, err := loadOrgUser(c, true)
	if err != nil {
		return err
	}

	var req struct {
		StartDatetime time.Time `json:"start_datetime"`
		EndDatetime   time.Time `json:"end_datetime"`
		Notes         *string   `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if !req.EndDatetime.After(req.StartDatetime) {
		return badRequest(c, "end_datetime must be after start_datetime")
	}

	schedule := models.StaffSchedule{
		UserID:        user.ID,
		StartDatetime: req.StartDatetime.UTC(),
		EndDatetime:   req.EndDatetime.UTC(),
		Notes:         req.Notes,
	}
	schedule.OrganisationID = user.OrganisationID

	if err := database.GetDB().Create(&schedule).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(schedule)
}

// ScheduleDelete removes a concrete shift
func ScheduleDelete(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}
	scheduleID, err := paramUUID(c, "scheduleId")
	if err != nil {
		return badRequest(c, "Invalid schedule id")
	}

	res := database.GetDB().
		Where("id = ? AND organisation_id = ?", scheduleID, orgID).
		Delete(&models.StaffSchedule{})
	if res.Error != nil {
		return dbError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(c, "Schedule not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PayRecordList returns a staff member's pay records, optionally for one
// month (?month=YYYY-MM)
func PayRecordList(c *fiber.Ctx) error {
	user, err := loadOrgUser(c, false)
	if err != nil {
		return err
	}

	q := database.GetDB().Where("user_id = ?", user.ID)
	if raw := c.Query("month"); raw != "" {
		monthStart, err := time.Parse("2006-01", raw)
		if err != nil {
			return badRequest(c, "month must be YYYY-MM")
		}
		q = q.Where("pay_date >= ? AND pay_date < ?", monthStart, monthStart.AddDate(0, 1, 0))
	}

	var records []models.PayRecord
	if err := q.Order("pay_date").Find(&records).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"records": records, "total": len(records)})
}

// PayRecordCreate adds a pay record
func PayRecordCreate(c *fiber.Ctx) error {
	user, err := loadOrgUser(c, true)
	if err != nil {
		return err
	}

	var req struct {
		RecordType  string  `json:"record_type"`
		Amount      float64 `json:"amount"`
		PayDate     string  `json:"pay_date"` // YYYY-MM-DD
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	switch req.RecordType {
	case models.PayRecordSalary, models.PayRecordBonus, models.PayRecordOvertime,
		models.PayRecordExpense, models.PayRecordDeduction:
	default:
		return badRequest(c, "Unknown record_type: "+req.RecordType)
	}
	payDate, err := time.Parse("2006-01-02", req.PayDate)
	if err != nil {
		return badRequest(c, "pay_date must be YYYY-MM-DD")
	}

	record := models.PayRecord{
		UserID:      user.ID,
		RecordType:  req.RecordType,
		Amount:      req.Amount,
		PayDate:     payDate.UTC(),
		Description: req.Description,
	}
	record.OrganisationID = user.OrganisationID

	if err := database.GetDB().Create(&record).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// loadOrgUser fetches the :id user scoped to the caller's organisation.
// Staff may only reach their own record; write access needs manager/admin
// when manageOnly is set.
func loadOrgUser(c *fiber.Ctx, manageOnly bool) (*models.User, error) {
	orgID, err := currentOrgID(c)
	if err != nil {
		return nil, badRequest(c, "Invalid session")
	}
	targetID, err := paramUUID(c, "id")
	if err != nil {
		return nil, badRequest(c, "Invalid user id")
	}

	callerID, _ := currentUserID(c)
	role := currentRole(c)
	if role == models.RoleStaff && targetID != callerID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot access other staff records"})
	}
	if manageOnly && role == models.RoleStaff {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var user models.User
	err = database.GetDB().
		Where("id = ? AND organisation_id = ?", targetID, orgID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(c, "Staff member not found")
		}
		return nil, dbError(c, err)
	}
	return &user, nil
}
