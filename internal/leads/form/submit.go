package form

import (
	"context"

	"leadportal/internal/leads/domain"
	"leadportal/internal/leads/transport"
	"leadportal/platform/apperr"
	"leadportal/platform/logger"
)

const (
	MsgCreated      = "Lead added successfully!"
	MsgNotCreated   = "Something went wrong!"
	MsgServerFailed = "Server error. Please try again."
)

// LeadCreator is the create half of the lead backend.
type LeadCreator interface {
	CreateLead(ctx context.Context, req transport.CreateLeadRequest) (*transport.CreateLeadResponse, error)
}

// Notifier receives the notices a submission produces.
type Notifier interface {
	NotifySuccess(message string)
	NotifyFailure(message string)
}

// Result is the outcome of one submission.
type Result struct {
	// Created is true only when the backend reported success == 1.
	Created bool
	// Lead is the created lead when the backend returned it.
	Lead *domain.Lead
	// Input is what the form should show next: empty after success, the
	// trimmed input otherwise.
	Input Input
	// Errors holds field messages when validation blocked the submission.
	Errors FieldErrors
	// Message is the notice that was emitted for a backend outcome.
	Message string
	// Err is nil on success, an apperr.KindValidation error with the
	// FieldErrors as details, or the backend error.
	Err error
}

// Submitter validates the form and creates the lead.
type Submitter struct {
	creator LeadCreator
	log     *logger.Logger
}

// NewSubmitter creates a Submitter.
func NewSubmitter(creator LeadCreator, log *logger.Logger) *Submitter {
	if log == nil {
		log = logger.Discard()
	}
	return &Submitter{creator: creator, log: log}
}

// Submit trims the input, validates it, and sends it to the backend as typed.
// Markup is only stripped when feedback is displayed. Every outcome is
// reported to notify; nothing is retried.
func (s *Submitter) Submit(ctx context.Context, in Input, notify Notifier) Result {
	in = in.Trimmed()

	if errs := Validate(in); len(errs) > 0 {
		for _, msg := range errs.Messages() {
			notify.NotifyFailure(msg)
		}
		s.log.WithContext(ctx).FormRejected(errs.Fields())
		return Result{
			Input:  in,
			Errors: errs,
			Err:    apperr.Validation("lead form is invalid").WithOp("submit lead").WithDetails(errs),
		}
	}

	resp, err := s.creator.CreateLead(ctx, transport.CreateLeadRequest{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Feedback: in.Feedback,
	})
	if err == nil && resp == nil {
		err = apperr.Upstream("empty response from lead service").WithOp("submit lead")
	}
	if err == nil && !resp.Applied() {
		err = apperr.Rejected(resp.Message).WithOp("submit lead")
	}

	if err != nil {
		// A rejection carries the backend's own words; anything else never
		// reached a decision.
		msg := MsgServerFailed
		if apperr.Is(err, apperr.KindRejected) {
			backendMsg := ""
			if resp != nil {
				backendMsg = resp.Message
			}
			msg = messageOr(backendMsg, MsgNotCreated)
		}
		s.log.WithContext(ctx).ServiceError("create lead", err)
		notify.NotifyFailure(msg)
		return Result{Input: in, Message: msg, Err: err}
	}

	msg := messageOr(resp.Message, MsgCreated)
	notify.NotifySuccess(msg)
	result := Result{Created: true, Message: msg}
	if resp.Lead != nil {
		lead := resp.Lead.ToDomain()
		result.Lead = &lead
	}
	return result
}

func messageOr(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
