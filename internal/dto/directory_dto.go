package dto

import (
	"time"

	"github.com/alumlink/alumlink-api/internal/models"
)

// BusinessCreateRequest is the payload for listing a business.
type BusinessCreateRequest struct {
	BusinessName     string `json:"business_name" validate:"required,min=2,max=255"`
	Category         string `json:"category" validate:"required,min=1,max=100"`
	ShortDescription string `json:"short_description" validate:"required,min=10,max=4000"`
	WebsiteURL       string `json:"website_url" validate:"omitempty,url,max=500"`
	Phone            string `json:"phone" validate:"omitempty,max=50"`
	City             string `json:"city" validate:"omitempty,max=120"`
	Country          string `json:"country" validate:"omitempty,max=120"`
}

// BusinessResponse is the serialized representation of a directory listing.
type BusinessResponse struct {
	ID               string      `json:"id"`
	BusinessName     string      `json:"business_name"`
	Category         string      `json:"category"`
	ShortDescription string      `json:"short_description"`
	WebsiteURL       string      `json:"website_url,omitempty"`
	Phone            string      `json:"phone,omitempty"`
	City             string      `json:"city,omitempty"`
	Country          string      `json:"country,omitempty"`
	Owner            UserSummary `json:"owner"`
	CreatedAt        time.Time   `json:"created_at"`
}

// NewBusinessResponse converts a business model into a DTO.
func NewBusinessResponse(business models.BusinessProfile) BusinessResponse {
	return BusinessResponse{
		ID:               business.ID,
		BusinessName:     business.BusinessName,
		Category:         business.Category,
		ShortDescription: business.ShortDescription,
		WebsiteURL:       business.WebsiteURL,
		Phone:            business.Phone,
		City:             business.City,
		Country:          business.Country,
		Owner:            NewUserSummary(business.User),
		CreatedAt:        business.CreatedAt,
	}
}

// NewBusinessResponseSlice converts a slice of business models into DTOs.
func NewBusinessResponseSlice(businesses []models.BusinessProfile) []BusinessResponse {
	out := make([]BusinessResponse, 0, len(businesses))
	for _, business := range businesses {
		out = append(out, NewBusinessResponse(business))
	}
	return out
}

// JobCreateRequest is the payload for posting a job.
type JobCreateRequest struct {
	Title        string     `json:"title" validate:"required,min=3,max=255"`
	Company      string     `json:"company" validate:"required,min=1,max=255"`
	Location     string     `json:"location" validate:"omitempty,max=255"`
	Type         string     `json:"type" validate:"omitempty,oneof=full-time part-time contract freelance"`
	Description  string     `json:"description" validate:"required,min=10,max=8000"`
	Salary       string     `json:"salary" validate:"omitempty,max=120"`
	ContactEmail string     `json:"contact_email" validate:"omitempty,email,max=255"`
	ContactPhone string     `json:"contact_phone" validate:"omitempty,max=50"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// JobResponse is the serialized representation of a job posting.
type JobResponse struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Company      string      `json:"company"`
	Location     string      `json:"location,omitempty"`
	Type         string      `json:"type"`
	Description  string      `json:"description"`
	Salary       string      `json:"salary,omitempty"`
	ContactEmail string      `json:"contact_email,omitempty"`
	ContactPhone string      `json:"contact_phone,omitempty"`
	Poster       UserSummary `json:"poster"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewJobResponse converts a job model into a DTO.
func NewJobResponse(job models.Job) JobResponse {
	return JobResponse{
		ID:           job.ID,
		Title:        job.Title,
		Company:      job.Company,
		Location:     job.Location,
		Type:         job.Type,
		Description:  job.Description,
		Salary:       job.Salary,
		ContactEmail: job.ContactEmail,
		ContactPhone: job.ContactPhone,
		Poster:       NewUserSummary(job.Poster),
		IsActive:     job.IsActive,
		CreatedAt:    job.CreatedAt,
	}
}

// NewJobResponseSlice converts a slice of job models into DTOs.
func NewJobResponseSlice(jobs []models.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, NewJobResponse(job))
	}
	return out
}
