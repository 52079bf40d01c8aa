// Package intake validates citizen submissions, classifies them and hands
// them to storage.
package intake

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/civicpulse/civicpulse/internal/classify"
	"github.com/civicpulse/civicpulse/internal/database"
	"github.com/civicpulse/civicpulse/internal/forecast"
	"github.com/civicpulse/civicpulse/internal/records"
	"github.com/civicpulse/civicpulse/internal/validation"
)

// TrackingPrefix starts every complaint tracking number.
const TrackingPrefix = "CMP-"

// Store is the storage the intake writes through. *database.DB implements it.
type Store interface {
	EnsureCitizen(name, phone string, district *string, at time.Time) (int64, error)
	GetMinistryByCode(code string) (*records.Ministry, error)
	GetDistrictByName(name string) (*records.District, error)
	ListResolvedComplaints(category string, ministryID *int64) ([]records.Complaint, error)
	GetPolicy(id int64) (*records.Policy, error)
	InsertPolicy(p records.Policy) (int64, error)
	InsertComplaint(c records.Complaint) (int64, error)
	InsertFeedback(f records.Feedback) (int64, error)
	InsertRating(r records.Rating) (int64, error)
}

// Citizen identifies the submitter. Both fields are optional; a phone number
// links the submission to a registered citizen.
type Citizen struct {
	Name  string `json:"name" validate:"required_with=Phone,max=100"`
	Phone string `json:"phone" validate:"omitempty,e164"`
}

// ComplaintInput is a complaint as submitted.
type ComplaintInput struct {
	Citizen
	Description string `json:"description" validate:"required,min=10,max=2000"`
	Location    string `json:"location" validate:"max=200"`
	District    string `json:"district" validate:"max=100"`
}

// FeedbackInput is policy feedback as submitted.
type FeedbackInput struct {
	Citizen
	PolicyID *int64 `json:"policy_id" validate:"omitempty,gte=1"`
	Text     string `json:"text" validate:"required,min=3,max=2000"`
}

// RatingInput is a service rating as submitted.
type RatingInput struct {
	Citizen
	ServiceType     string `json:"service_type" validate:"required,max=100"`
	ServiceLocation string `json:"service_location" validate:"required,max=200"`
	Rating          int    `json:"rating" validate:"gte=1,lte=5"`
	Comment         string `json:"comment" validate:"max=500"`
}

// PolicyInput is a policy as registered by an official.
type PolicyInput struct {
	Title       string     `json:"title" validate:"required,max=500"`
	Description string     `json:"description" validate:"required,max=5000"`
	Category    string     `json:"category" validate:"max=100"`
	Status      string     `json:"status" validate:"omitempty,oneof=Draft Active Closed"`
	Deadline    *time.Time `json:"deadline"`
}

// ComplaintReceipt is returned to the citizen after a complaint is filed.
type ComplaintReceipt struct {
	ID             int64             `json:"id"`
	TrackingNumber string            `json:"tracking_number"`
	Classification classify.Result   `json:"classification"`
	Ministry       string            `json:"ministry,omitempty"`
	Estimate       forecast.Estimate `json:"estimated_resolution"`
}

// FeedbackReceipt is returned after feedback is filed.
type FeedbackReceipt struct {
	ID        int64             `json:"id"`
	Sentiment records.Sentiment `json:"sentiment"`
	Themes    []string          `json:"themes"`
}

// Service files submissions.
type Service struct {
	store      Store
	classifier *classify.Classifier
	now        func() time.Time
}

// NewService creates an intake service. A nil classifier selects the default.
func NewService(store Store, classifier *classify.Classifier) *Service {
	if classifier == nil {
		classifier = classify.New(nil, nil)
	}
	return &Service{store: store, classifier: classifier, now: time.Now}
}

// NewTrackingNumber returns a fresh tracking number such as CMP-1A2B3C4D.
func NewTrackingNumber() string {
	return TrackingPrefix + strings.ToUpper(uuid.NewString()[:8])
}

// SubmitComplaint validates, classifies and stores a complaint. The category
// decides the ministry; an unknown ministry or district leaves the reference
// empty rather than rejecting the complaint.
func (s *Service) SubmitComplaint(in ComplaintInput) (*ComplaintReceipt, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.District = strings.TrimSpace(in.District)
	if err := validation.Struct(&in); err != nil {
		return nil, fmt.Errorf("complaint: %w", err)
	}
	now := s.now()
	result := s.classifier.GenerateInsights(in.Description)

	c := records.Complaint{
		TrackingNumber: NewTrackingNumber(),
		Description:    in.Description,
		Category:       result.Category,
		Priority:       result.Priority,
		Status:         records.StatusPending,
		CreatedAt:      now,
	}
	if in.Location != "" {
		c.Location = &in.Location
	}

	receipt := &ComplaintReceipt{TrackingNumber: c.TrackingNumber, Classification: result}

	if result.MinistryCode != "" {
		m, err := s.store.GetMinistryByCode(result.MinistryCode)
		switch {
		case err == nil:
			c.MinistryID = &m.ID
			receipt.Ministry = m.Name
		case errors.Is(err, database.ErrNotFound):
			log.Printf("Warning: ministry %s is not registered, complaint left unassigned", result.MinistryCode)
		default:
			return nil, err
		}
	}

	if in.District != "" {
		d, err := s.store.GetDistrictByName(in.District)
		switch {
		case err == nil:
			c.DistrictID = &d.ID
		case errors.Is(err, database.ErrNotFound):
			log.Printf("Warning: district %q is not registered", in.District)
		default:
			return nil, err
		}
	}

	var err error
	if c.CitizenID, err = s.citizen(in.Citizen, in.District, now); err != nil {
		return nil, err
	}

	history, err := s.store.ListResolvedComplaints(c.Category, c.MinistryID)
	if err != nil {
		return nil, fmt.Errorf("loading resolution history: %w", err)
	}
	receipt.Estimate = forecast.EstimateResolution(c, history)

	if receipt.ID, err = s.store.InsertComplaint(c); err != nil {
		return nil, err
	}
	return receipt, nil
}

// SubmitFeedback validates, analyses and stores policy feedback.
// Feedback naming a policy that is not registered is rejected.
func (s *Service) SubmitFeedback(in FeedbackInput) (*FeedbackReceipt, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := validation.Struct(&in); err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}
	if in.PolicyID != nil {
		if _, err := s.store.GetPolicy(*in.PolicyID); err != nil {
			return nil, fmt.Errorf("feedback: %w", err)
		}
	}
	now := s.now()

	f := records.Feedback{
		PolicyID:    in.PolicyID,
		Text:        in.Text,
		Sentiment:   s.classifier.AnalyzeSentiment(in.Text),
		Themes:      s.classifier.ExtractThemes(in.Text),
		SubmittedAt: now,
	}
	var err error
	if f.CitizenID, err = s.citizen(in.Citizen, "", now); err != nil {
		return nil, err
	}

	id, err := s.store.InsertFeedback(f)
	if err != nil {
		return nil, err
	}
	return &FeedbackReceipt{ID: id, Sentiment: f.Sentiment, Themes: f.Themes}, nil
}

// SubmitRating validates and stores a service rating.
func (s *Service) SubmitRating(in RatingInput) (int64, error) {
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	in.ServiceLocation = strings.TrimSpace(in.ServiceLocation)
	if err := validation.Struct(&in); err != nil {
		return 0, fmt.Errorf("rating: %w", err)
	}
	now := s.now()

	r := records.Rating{
		ServiceType:     in.ServiceType,
		ServiceLocation: in.ServiceLocation,
		Rating:          in.Rating,
		CreatedAt:       now,
	}
	if in.Comment != "" {
		r.Comment = &in.Comment
	}
	var err error
	if r.CitizenID, err = s.citizen(in.Citizen, "", now); err != nil {
		return 0, err
	}
	return s.store.InsertRating(r)
}

// CreatePolicy validates and registers a policy. Policies start as Draft
// unless a status is given.
func (s *Service) CreatePolicy(in PolicyInput) (*records.Policy, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if err := validation.Struct(&in); err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}

	p := records.Policy{
		Title:       in.Title,
		Description: in.Description,
		Status:      records.PolicyStatus(in.Status),
		Deadline:    in.Deadline,
		CreatedAt:   s.now(),
	}
	if p.Status == "" {
		p.Status = records.PolicyDraft
	}
	if in.Category != "" {
		p.Category = &in.Category
	}

	id, err := s.store.InsertPolicy(p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func (s *Service) citizen(c Citizen, district string, now time.Time) (*int64, error) {
	if c.Phone == "" {
		return nil, nil
	}
	var d *string
	if district != "" {
		d = &district
	}
	id, err := s.store.EnsureCitizen(c.Name, c.Phone, d, now)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
