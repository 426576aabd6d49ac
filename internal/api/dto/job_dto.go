package dto

import (
	"time"

	"github.com/sweeply/marketplace-be/internal/domain"
)

type CreateJobRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	WorkerQuantity  int     `json:"workerQuantity" binding:"required,min=1"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	SizeGarbage     string  `json:"sizeGarbage"`
	TypeOfGarbage   string  `json:"typeOfGarbage"`
	CleaningType    string  `json:"cleaningType"`
	MeasurementUnit string  `json:"measurementUnit"`
	Location        string  `json:"location" binding:"required"`
}

// UpdateJobRequest mirrors domain.JobPatch: absent fields are left alone,
// supplied fields (status included) are merged verbatim.
type UpdateJobRequest struct {
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

// ToPatch converts the request into a domain patch.
func (r *UpdateJobRequest) ToPatch() domain.JobPatch {
	return domain.JobPatch{
		Title:           r.Title,
		Description:     r.Description,
		WorkerQuantity:  r.WorkerQuantity,
		Price:           r.Price,
		SizeGarbage:     r.SizeGarbage,
		TypeOfGarbage:   r.TypeOfGarbage,
		CleaningType:    r.CleaningType,
		MeasurementUnit: r.MeasurementUnit,
		Location:        r.Location,
		Status:          r.Status,
	}
}

type JobDTO struct {
	JobID           string  `json:"jobId"`
	ClientID        string  `json:"clientId"`
	WorkerID        *string `json:"workerId"`
	Status          string  `json:"status"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	WorkerQuantity  int     `json:"workerQuantity"`
	Price           float64 `json:"price"`
	SizeGarbage     string  `json:"sizeGarbage"`
	TypeOfGarbage   string  `json:"typeOfGarbage"`
	CleaningType    string  `json:"cleaningType"`
	MeasurementUnit string  `json:"measurementUnit"`
	Location        string  `json:"location"`
	WorkerName      string  `json:"workerName,omitempty"`
	ClientName      string  `json:"clientName,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// FromJob maps a domain job to its wire form.
func FromJob(job *domain.Job) JobDTO {
	var workerID *string
	if job.WorkerID.Valid {
		id := job.WorkerID.String
		workerID = &id
	}

	return JobDTO{
		JobID:           job.JobID,
		ClientID:        job.ClientID,
		WorkerID:        workerID,
		Status:          job.Status,
		Title:           job.Title,
		Description:     job.Description,
		WorkerQuantity:  job.WorkerQuantity,
		Price:           job.Price,
		SizeGarbage:     job.SizeGarbage,
		TypeOfGarbage:   job.TypeOfGarbage,
		CleaningType:    job.CleaningType,
		MeasurementUnit: job.MeasurementUnit,
		Location:        job.Location,
		CreatedAt:       job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       job.UpdatedAt.Format(time.RFC3339),
	}
}

// FromJobs maps a job slice to its wire form.
func FromJobs(jobs []domain.Job) []JobDTO {
	out := make([]JobDTO, len(jobs))
	for i := range jobs {
		out[i] = FromJob(&jobs[i])
	}
	return out
}

// FromOwnedJobs maps a client's jobs, carrying resolved worker names.
func FromOwnedJobs(jobs []domain.OwnedJob) []JobDTO {
	out := make([]JobDTO, len(jobs))
	for i := range jobs {
		out[i] = FromJob(&jobs[i].Job)
		if jobs[i].WorkerName.Valid {
			out[i].WorkerName = jobs[i].WorkerName.String
		}
	}
	return out
}

// FromAssignedJobs maps a worker's jobs, carrying resolved client names.
func FromAssignedJobs(jobs []domain.AssignedJob) []JobDTO {
	out := make([]JobDTO, len(jobs))
	for i := range jobs {
		out[i] = FromJob(&jobs[i].Job)
		out[i].ClientName = jobs[i].ClientName
	}
	return out
}
