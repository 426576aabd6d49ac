package domain

import (
	"database/sql"
	"time"
)

// Job status constants
const (
	JobStatusPending           = "pending"
	JobStatusInProgress        = "in-progress"
	JobStatusCancelledByClient = "cancelled-by-client"
)

// Job represents a unit of requested cleaning work with a lifecycle status.
// ClientID is set once at creation and never changes. WorkerID is non-null
// exactly while the job is in progress.
type Job struct {
	JobID           string         `db:"job_id" json:"jobId"`
	ClientID        string         `db:"client_id" json:"clientId"`
	WorkerID        sql.NullString `db:"worker_id" json:"-"`
	Status          string         `db:"status" json:"status"`
	Title           string         `db:"title" json:"title"`
	Description     string         `db:"description" json:"description"`
	WorkerQuantity  int            `db:"worker_quantity" json:"workerQuantity"`
	Price           float64        `db:"price" json:"price"`
	SizeGarbage     string         `db:"size_garbage" json:"sizeGarbage"`
	TypeOfGarbage   string         `db:"type_of_garbage" json:"typeOfGarbage"`
	CleaningType    string         `db:"cleaning_type" json:"cleaningType"`
	MeasurementUnit string         `db:"measurement_unit" json:"measurementUnit"`
	Location        string         `db:"location" json:"location"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updatedAt"`
}

// Worker returns the assigned worker id, or "" if the job is unassigned.
func (j *Job) Worker() string {
	if j.WorkerID.Valid {
		return j.WorkerID.String
	}
	return ""
}

// OwnedJob is a job listed for its owning client, with the assigned
// worker's display name resolved when a worker is bound.
type OwnedJob struct {
	Job
	WorkerName sql.NullString `db:"worker_name" json:"-"`
}

// AssignedJob is a job listed for its assigned worker, with the owning
// client's display name resolved.
type AssignedJob struct {
	Job
	ClientName string `db:"client_name" json:"clientName"`
}

// JobPatch carries the fields a client may edit on an owned job. Nil fields
// are left untouched. Status is merged verbatim when supplied; the patch
// path performs no transition validation and never touches worker_id.
type JobPatch struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	WorkerQuantity  *int     `json:"workerQuantity"`
	Price           *float64 `json:"price"`
	SizeGarbage     *string  `json:"sizeGarbage"`
	TypeOfGarbage   *string  `json:"typeOfGarbage"`
	CleaningType    *string  `json:"cleaningType"`
	MeasurementUnit *string  `json:"measurementUnit"`
	Location        *string  `json:"location"`
	Status          *string  `json:"status"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p *JobPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.WorkerQuantity == nil &&
		p.Price == nil && p.SizeGarbage == nil && p.TypeOfGarbage == nil &&
		p.CleaningType == nil && p.MeasurementUnit == nil && p.Location == nil &&
		p.Status == nil
}
