package config

// WorkdayConfig controls the workday timezone and daily focus-hours
// window used by the Calendar Engine and Briefing Composer.
type WorkdayConfig struct {
	Timezone        string `yaml:"timezone"`
	FocusStartHour  int    `yaml:"focus_start_hour"`
	FocusStartMin   int    `yaml:"focus_start_minute"`
	FocusEndHour    int    `yaml:"focus_end_hour"`
	FocusEndMin     int    `yaml:"focus_end_minute"`
}

// DefaultWorkdayConfig is America/New_York, 08:00-16:30.
func DefaultWorkdayConfig() *WorkdayConfig {
	return &WorkdayConfig{
		Timezone:       "America/New_York",
		FocusStartHour: 8,
		FocusStartMin:  0,
		FocusEndHour:   16,
		FocusEndMin:    30,
	}
}

// PriorityConfig controls the Priority Kernel's configurable inputs.
type PriorityConfig struct {
	HighPriorityStakeholders []string `yaml:"high_priority_stakeholders"`
	NextWindowMinutes        int      `yaml:"next_window_minutes"`
}

// DefaultPriorityConfig matches §4.B's defaults.
func DefaultPriorityConfig() *PriorityConfig {
	return &PriorityConfig{
		HighPriorityStakeholders: []string{"nancy", "heath"},
		NextWindowMinutes:        60,
	}
}
