package database

import (
	"fmt"
	"log"
	"time"

	"github.com/demiirawo/cc-academy/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedData loads a demo organisation with users, pages, onboarding steps and
// HR data. Safe to re-run: it skips entirely when an organisation exists.
func SeedData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Organisation{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if count > 0 {
		log.Println("Seed skipped: organisations already present")
		return nil
	}

	org := models.Organisation{
		Name:         "CC Academy Demo",
		Slug:         "cc-academy-demo",
		BaseCurrency: "GBP",
		IsActive:     true,
	}
	if err := db.Create(&org).Error; err != nil {
		return fmt.Errorf("failed to create organisation: %w", err)
	}

	users, err := seedUsers(db, &org)
	if err != nil {
		return err
	}

	pages, err := seedPages(db, &org, users["admin"])
	if err != nil {
		return err
	}

	if err := seedOnboarding(db, &org, pages); err != nil {
		return err
	}

	if err := seedHR(db, &org, users); err != nil {
		return err
	}

	log.Println("Database seeded successfully")
	return nil
}

func seedUsers(db *gorm.DB, org *models.Organisation) (map[string]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	title := func(s string) *string { return &s }
	hire := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	users := map[string]*models.User{
		"admin": {
			Email: "admin@cc-academy.app", FirstName: "Dee", LastName: "Ola",
			Role: models.RoleAdmin, JobTitle: title("Operations Director"),
			HireDate: hire(2019, time.March, 4),
		},
		"manager": {
			Email: "manager@cc-academy.app", FirstName: "Sam", LastName: "Reid",
			Role: models.RoleManager, JobTitle: title("Team Lead"),
			HireDate: hire(2021, time.June, 14),
		},
		"staff": {
			Email: "staff@cc-academy.app", FirstName: "Alex", LastName: "Mburu",
			Role: models.RoleStaff, JobTitle: title("Support Worker"),
			HireDate: hire(2023, time.January, 9),
		},
	}

	for _, u := range users {
		u.OrganisationID = org.ID
		u.PasswordHash = string(hash)
		u.IsActive = true
		if err := db.Create(u).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
	}
	return users, nil
}

func seedPages(db *gorm.DB, org *models.Organisation, author *models.User) (map[string]*models.Page, error) {
	doc := func(text string) datatypes.JSON {
		return datatypes.JSON(fmt.Sprintf(`{"type":"doc","content":[{"type":"paragraph","text":%q}]}`, text))
	}

	handbook := &models.Page{
		Title: "Staff Handbook", Content: doc("Welcome to the team."),
		IsPublic: true, SortOrder: 0, CreatedBy: author.ID,
	}
	handbook.OrganisationID = org.ID
	if err := db.Create(handbook).Error; err != nil {
		return nil, fmt.Errorf("failed to create handbook page: %w", err)
	}

	safeguarding := &models.Page{
		Title: "Safeguarding Policy", Content: doc("Everyone must read and acknowledge this policy."),
		IsPublic: true, SortOrder: 1, CreatedBy: author.ID, ParentID: &handbook.ID,
	}
	safeguarding.OrganisationID = org.ID
	if err := db.Create(safeguarding).Error; err != nil {
		return nil, fmt.Errorf("failed to create safeguarding page: %w", err)
	}

	payPolicy := &models.Page{
		Title: "Pay & Expenses", Content: doc("Managers only: pay review process."),
		IsPublic: false, SortOrder: 2, CreatedBy: author.ID, ParentID: &handbook.ID,
	}
	payPolicy.OrganisationID = org.ID
	if err := db.Create(payPolicy).Error; err != nil {
		return nil, fmt.Errorf("failed to create pay policy page: %w", err)
	}

	perms := []models.PagePermission{
		{PageID: payPolicy.ID, Role: models.RoleAdmin, CanView: true, CanEdit: true},
		{PageID: payPolicy.ID, Role: models.RoleManager, CanView: true, CanEdit: false},
	}
	if err := db.Create(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to create page permissions: %w", err)
	}

	return map[string]*models.Page{
		"handbook":     handbook,
		"safeguarding": safeguarding,
		"pay_policy":   payPolicy,
	}, nil
}

func seedOnboarding(db *gorm.DB, org *models.Organisation, pages map[string]*models.Page) error {
	desc := func(s string) *string { return &s }
	url := func(s string) *string { return &s }

	steps := []models.OnboardingStep{
		{
			Title: "Sign your contract", StepType: models.StepTypeTask,
			Description: desc("Return the signed contract to HR."), SortOrder: 0, IsActive: true,
		},
		{
			Title: "Read the safeguarding policy", StepType: models.StepTypeInternalPage,
			TargetPageID: &pages["safeguarding"].ID, SortOrder: 1, IsActive: true,
		},
		{
			Title: "Accept the code of conduct", StepType: models.StepTypeAcknowledgement,
			SortOrder: 2, IsActive: true,
		},
		{
			Title: "Complete online DBS check", StepType: models.StepTypeExternalLink,
			ExternalURL: url("https://www.gov.uk/request-copy-criminal-record"), SortOrder: 3, IsActive: true,
		},
	}
	for i := range steps {
		steps[i].OrganisationID = org.ID
	}
	if err := db.Create(&steps).Error; err != nil {
		return fmt.Errorf("failed to create onboarding steps: %w", err)
	}
	return nil
}

func seedHR(db *gorm.DB, org *models.Organisation, users map[string]*models.User) error {
	salary := func(v float64) *float64 { return &v }

	profiles := []models.StaffProfile{
		{UserID: users["manager"].ID, BaseSalary: salary(34000), BaseCurrency: "GBP", PayFrequency: models.PayFrequencyAnnually, AnnualHolidayAllowance: 28},
		{UserID: users["staff"].ID, BaseSalary: salary(2400), BaseCurrency: "GBP", PayFrequency: models.PayFrequencyMonthly, AnnualHolidayAllowance: 25},
	}
	for i := range profiles {
		profiles[i].OrganisationID = org.ID
	}
	if err := db.Create(&profiles).Error; err != nil {
		return fmt.Errorf("failed to create staff profiles: %w", err)
	}

	monStart := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	pattern := models.RecurringShiftPattern{
		UserID:             users["staff"].ID,
		DaysOfWeek:         "1,2,3,4,5",
		StartTime:          "09:00",
		EndTime:            "17:00",
		StartDate:          &monStart,
		RecurrenceInterval: models.RecurrenceWeekly,
	}
	pattern.OrganisationID = org.ID
	if err := db.Create(&pattern).Error; err != nil {
		return fmt.Errorf("failed to create shift pattern: %w", err)
	}

	now := time.Now().UTC()
	records := []models.PayRecord{
		{UserID: users["staff"].ID, RecordType: models.PayRecordBonus, Amount: 150, PayDate: time.Date(now.Year(), now.Month(), 15, 0, 0, 0, 0, time.UTC)},
		{UserID: users["staff"].ID, RecordType: models.PayRecordDeduction, Amount: 45, PayDate: time.Date(now.Year(), now.Month(), 20, 0, 0, 0, 0, time.UTC)},
	}
	for i := range records {
		records[i].OrganisationID = org.ID
	}
	if err := db.Create(&records).Error; err != nil {
		return fmt.Errorf("failed to create pay records: %w", err)
	}

	return nil
}
