package models

// AllModels returns all model structs for auto-migration
// IMPORTANT: Order matters! Parent tables must be created before child tables
func AllModels() []interface{} {
	return []interface{}{
		// 1. Tenant root
		&Organisation{},

		// 2. Tables depending only on Organisation
		&User{}, // depends on: Organisation

		// 3. Knowledge base
		&Page{},                // depends on: Organisation, User, Page (parent)
		&PagePermission{},      // depends on: Page
		&PageAcknowledgement{}, // depends on: Page, User

		// 4. Onboarding
		&OnboardingStep{},       // depends on: Organisation, Page
		&OnboardingCompletion{}, // depends on: OnboardingStep, User

		// 5. HR / scheduling
		&StaffProfile{},          // depends on: User
		&RecurringShiftPattern{}, // depends on: User
		&ShiftPatternException{}, // depends on: RecurringShiftPattern
		&StaffSchedule{},         // depends on: User
		&PayRecord{},             // depends on: User

		// 6. Assistant conversations
		&ChatThread{},  // depends on: User
		&ChatMessage{}, // depends on: ChatThread
	}
}
