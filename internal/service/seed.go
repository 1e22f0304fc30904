package service

import (
	"context"

	"github.com/leadform/leadform/internal/apperr"
	"github.com/leadform/leadform/internal/models"
)

// SampleFormName is the name of the form created by the setup tool.
const SampleFormName = "Contact Form"

// SampleForm is a ready-to-use contact form.
func SampleForm() FormInput {
	return FormInput{
		Name:     SampleFormName,
		IsActive: true,
		Fields: []models.FieldSpec{
			{ID: "name", Type: models.FieldText, Label: "Full Name", Required: true, Placeholder: "Enter your full name", Order: 0},
			{ID: "email", Type: models.FieldEmail, Label: "Email Address", Required: true, Placeholder: "Enter your email address", Order: 1},
			{ID: "phone", Type: models.FieldPhone, Label: "Phone Number", Placeholder: "Enter your phone number", Order: 2},
			{ID: "subject", Type: models.FieldSelect, Label: "Subject", Required: true, Order: 3,
				Options: []string{"General Inquiry", "Support Request", "Business Proposal", "Other"}},
			{ID: "message", Type: models.FieldTextarea, Label: "Message", Required: true, Placeholder: "Enter your message", Order: 4},
			{ID: "agreement", Type: models.FieldCheckbox, Label: "I agree to the terms and conditions", Required: true, Order: 5},
		},
	}
}

// SeedSample creates the sample form unless a form with its name exists.
func (s *FormService) SeedSample(ctx context.Context) (bool, error) {
	existing, err := s.forms.FindByName(ctx, SampleFormName)
	if err != nil {
		return false, apperr.Internal(err)
	}
	if existing != nil {
		return false, nil
	}
	if _, err := s.Create(ctx, SampleForm()); err != nil {
		return false, err
	}
	return true, nil
}
