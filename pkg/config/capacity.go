package config

// CapacityConfig controls the fixed deductions the Briefing Composer
// subtracts from the workday window before comparing available minutes
// against the minutes required by the day's open tasks.
type CapacityConfig struct {
	LunchMinutes         int `yaml:"lunch_minutes"`
	OverheadMinutes      int `yaml:"overhead_minutes"`
	PerTaskBufferMinutes int `yaml:"per_task_buffer_minutes"`
}

// DefaultCapacityConfig reserves 30 minutes for lunch, 30 minutes of
// context-switch overhead, and a 5-minute buffer per remaining task.
func DefaultCapacityConfig() *CapacityConfig {
	return &CapacityConfig{
		LunchMinutes:         30,
		OverheadMinutes:      30,
		PerTaskBufferMinutes: 5,
	}
}
