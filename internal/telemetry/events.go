package telemetry

// Event names.
const (
	EventPlanCreated      = "plan_created"
	EventPlanFailed       = "plan_generation_failed"
	EventTaskToggled      = "task_toggled"
	EventPlanReset        = "plan_reset"
	EventPersistenceError = "plan_persist_failed"
)
