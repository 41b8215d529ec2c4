package services

// Services defined in this package:
// - AuthService: Handles registration, login and token lifecycle
// - ApprovalService: Handles admin decisions on accounts and reservations
// - ReservationService: Handles booking CRUD
// - CoordinatorService: Handles the coordinator directory
// - ScheduleService: Handles the fixed weekly schedule and XLSX import
// - PushService: Handles browser push subscriptions
