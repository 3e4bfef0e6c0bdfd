package models

// Priority is a professor's preference for one schedule block.
type Priority struct {
	ProfessorID string `db:"professor_id" json:"professor_id"`
	BlockID     int64  `db:"block_id" json:"block_id"`
	Value       int    `db:"value" json:"value"`
}

// PriorityExportRow flattens a stored priority with its professor and block.
type PriorityExportRow struct {
	ProfessorID string `db:"professor_id"`
	ShortName   string `db:"short_name"`
	BlockID     int64  `db:"block_id"`
	Day         string `db:"day"`
	StartTime   string `db:"start_time"`
	EndTime     string `db:"end_time"`
	Value       int    `db:"value"`
}

// PreferenceSet is the reconciled input for one submission.
type PreferenceSet struct {
	ProfessorID string
	Values      map[int64]int
	MinMaxDays  bool
}
