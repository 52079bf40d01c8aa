package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "citizens, complaints, feedback and reports",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS citizens (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    phone TEXT UNIQUE NOT NULL,
    district TEXT,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ministries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    code TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS districts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    region TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS complaints (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tracking_number TEXT UNIQUE NOT NULL,
    citizen_id INTEGER REFERENCES citizens(id),
    description TEXT NOT NULL,
    location TEXT,
    category TEXT NOT NULL,
    priority TEXT NOT NULL DEFAULT 'Normal' CHECK(priority IN ('Normal', 'High', 'Urgent')),
    status TEXT NOT NULL DEFAULT 'Pending' CHECK(status IN ('Pending', 'In Progress', 'Resolved')),
    ministry_id INTEGER REFERENCES ministries(id),
    district_id INTEGER REFERENCES districts(id),
    created_at TEXT NOT NULL,
    resolved_at TEXT
);

CREATE TABLE IF NOT EXISTS policy_feedback (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    policy_id INTEGER,
    citizen_id INTEGER REFERENCES citizens(id),
    feedback_text TEXT NOT NULL,
    sentiment TEXT CHECK(sentiment IN ('positive', 'neutral', 'negative')),
    themes TEXT,
    submitted_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS service_ratings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    citizen_id INTEGER REFERENCES citizens(id),
    service_type TEXT NOT NULL,
    service_location TEXT NOT NULL,
    rating INTEGER NOT NULL CHECK(rating BETWEEN 1 AND 5),
    comment TEXT,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    report_type TEXT NOT NULL,
    report_data TEXT NOT NULL,
    body_markdown TEXT NOT NULL,
    confidence REAL NOT NULL DEFAULT 0,
    generated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_complaints_district ON complaints(district_id);
CREATE INDEX IF NOT EXISTS idx_complaints_ministry ON complaints(ministry_id);
CREATE INDEX IF NOT EXISTS idx_reports_generated ON reports(generated_at);
`)
			return err
		},
	},
	{
		Version:     2,
		Description: "ranked recommendations and predictions",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS recommendations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    report_id INTEGER NOT NULL REFERENCES reports(id),
    position INTEGER NOT NULL,
    category TEXT NOT NULL,
    priority TEXT NOT NULL,
    recommendation TEXT NOT NULL,
    rationale TEXT NOT NULL,
    action_items TEXT
);

CREATE TABLE IF NOT EXISTS predictions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    report_id INTEGER REFERENCES reports(id),
    prediction_type TEXT NOT NULL,
    prediction_data TEXT NOT NULL,
    confidence_score REAL NOT NULL DEFAULT 0,
    valid_until TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recommendations_report ON recommendations(report_id, position);
CREATE INDEX IF NOT EXISTS idx_predictions_valid ON predictions(valid_until);
CREATE INDEX IF NOT EXISTS idx_complaints_created ON complaints(created_at);
`)
			return err
		},
	},
	{
		Version:     3,
		Description: "policies, policy_feedback.policy_id foreign key",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS policies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category TEXT,
    status TEXT NOT NULL DEFAULT 'Draft' CHECK(status IN ('Draft', 'Active', 'Closed')),
    deadline TEXT,
    created_at TEXT NOT NULL
);

CREATE TABLE policy_feedback_v3 (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    policy_id INTEGER REFERENCES policies(id),
    citizen_id INTEGER REFERENCES citizens(id),
    feedback_text TEXT NOT NULL,
    sentiment TEXT CHECK(sentiment IN ('positive', 'neutral', 'negative')),
    themes TEXT,
    submitted_at TEXT NOT NULL
);
`); err != nil {
				return err
			}

			// SQLite cannot add a foreign key in place, so the table is rebuilt.
			// Policy ids that match no policy are cleared.
			exists, err := tableExists(tx, "policy_feedback")
			if err != nil {
				return err
			}
			if exists {
				if _, err := tx.Exec(`
INSERT INTO policy_feedback_v3 (id, policy_id, citizen_id, feedback_text, sentiment, themes, submitted_at)
SELECT id,
       CASE WHEN policy_id IN (SELECT id FROM policies) THEN policy_id END,
       CASE WHEN citizen_id IN (SELECT id FROM citizens) THEN citizen_id END,
       feedback_text, sentiment, themes, submitted_at
FROM policy_feedback;
DROP TABLE policy_feedback;
`); err != nil {
					return err
				}
			}
			_, err = tx.Exec(`
ALTER TABLE policy_feedback_v3 RENAME TO policy_feedback;
CREATE INDEX IF NOT EXISTS idx_feedback_policy ON policy_feedback(policy_id);
CREATE INDEX IF NOT EXISTS idx_policies_created ON policies(created_at);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}

func tableExists(tx *sql.Tx, name string) (bool, error) {
	var n int
	err := tx.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", name).Scan(&n)
	return n > 0, err
}
