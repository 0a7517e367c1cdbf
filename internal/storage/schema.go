// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for daily logs, blood pressure, measurements and workouts.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_logs (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL UNIQUE,
		weight REAL NOT NULL DEFAULT 0,
		calories INTEGER NOT NULL DEFAULT 0,
		protein_grams REAL NOT NULL DEFAULT 0,
		carbs_grams REAL NOT NULL DEFAULT 0,
		fat_grams REAL NOT NULL DEFAULT 0,
		steps INTEGER NOT NULL DEFAULT 0,
		energy_level INTEGER,
		sleep_hours REAL,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS blood_pressure (
		id TEXT PRIMARY KEY,
		recorded_at DATETIME NOT NULL,
		systolic INTEGER NOT NULL,
		diastolic INTEGER NOT NULL,
		pulse INTEGER,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS body_measurements (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL UNIQUE,
		waist REAL,
		chest REAL,
		left_arm REAL,
		right_arm REAL,
		left_thigh REAL,
		right_thigh REAL,
		neck REAL,
		hips REAL,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS workout_sessions (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		workout_type TEXT NOT NULL,
		start_seconds INTEGER,
		end_seconds INTEGER,
		overall_rpe INTEGER,
		fatigue_level INTEGER,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE,
		category TEXT,
		muscle_group TEXT,
		movement_pattern TEXT,
		equipment TEXT
	);

	CREATE TABLE IF NOT EXISTS workout_sets (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		set_number INTEGER NOT NULL,
		reps INTEGER NOT NULL CHECK (reps > 0),
		weight REAL NOT NULL CHECK (weight >= 0),
		rpe INTEGER,
		is_warmup INTEGER NOT NULL DEFAULT 0,
		is_failure INTEGER NOT NULL DEFAULT 0,
		rest_seconds INTEGER,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES workout_sessions(id) ON DELETE CASCADE,
		FOREIGN KEY (exercise_id) REFERENCES exercises(id)
	);

	CREATE INDEX IF NOT EXISTS idx_blood_pressure_recorded ON blood_pressure(recorded_at);
	CREATE INDEX IF NOT EXISTS idx_workout_sessions_date ON workout_sessions(date);
	CREATE INDEX IF NOT EXISTS idx_workout_sets_session ON workout_sets(session_id);
	CREATE INDEX IF NOT EXISTS idx_workout_sets_exercise ON workout_sets(exercise_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
