package models

// Domain models matching the database schema in db/migrations/<driver>/0001_init.sql.
// Timestamps are unix milliseconds; dates are YYYY-MM-DD strings.

type Profile struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Active   bool   `json:"active" db:"active"`
	Created  int64  `json:"created_at" db:"created_at"`
}

type User struct {
	ID       int64   `json:"id" db:"id"`
	Username string  `json:"username" db:"username"`
	Name     *string `json:"name,omitempty" db:"name"`
	Created  int64   `json:"created_at" db:"created_at"`
	Updated  int64   `json:"updated_at" db:"updated_at"`
}

type Certification struct {
	ID      int64   `json:"id" db:"id"`
	Title   string  `json:"title" db:"title"`
	Product *string `json:"product,omitempty" db:"product"`
	Created int64   `json:"created_at" db:"created_at"`
	Updated int64   `json:"updated_at" db:"updated_at"`
}

type UserCertification struct {
	ID            int64   `json:"id" db:"id"`
	UserID        int64   `json:"user_id" db:"user_id"`
	CertID        int64   `json:"cert_id" db:"cert_id"`
	DateCompleted string  `json:"date_completed" db:"date_completed"`
	DateExpired   *string `json:"date_expired,omitempty" db:"date_expired"`
	Created       int64   `json:"created_at" db:"created_at"`
	Updated       int64   `json:"updated_at" db:"updated_at"`
}

// HeldCertification is a user's certification joined with its catalog entry.
type HeldCertification struct {
	Title         string  `json:"title"`
	Product       *string `json:"product,omitempty"`
	DateCompleted string  `json:"date_completed"`
	DateExpired   *string `json:"date_expired,omitempty"`
	Updated       int64   `json:"updated_at"`
}

// Sync run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

type SyncRun struct {
	ID        int64  `json:"id" db:"id"`
	RunID     string `json:"run_id" db:"run_id"`
	Status    string `json:"status" db:"status"`
	Total     int    `json:"total" db:"total"`
	Succeeded int    `json:"succeeded" db:"succeeded"`
	Failed    int    `json:"failed" db:"failed"`
	LastError string `json:"last_error,omitempty" db:"last_error"`
	Started   int64  `json:"started_at" db:"started_at"`
	Finished  *int64 `json:"finished_at,omitempty" db:"finished_at"`
}

// UserStats is one row of the v_user_certification_stats view.
type UserStats struct {
	Username               string `json:"username"`
	Name                   string `json:"name"`
	TotalCertifications    int    `json:"total_certifications"`
	ActiveCertifications   int    `json:"active_certifications"`
	CertificationsThisYear int    `json:"certifications_this_year"`
	LastCompleted          string `json:"last_completed,omitempty"`
}
