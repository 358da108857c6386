package usecase

import (
	"context"
	"log"
	"time"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

// DispatchOutreachUseCase drains the DRAFT messages captured at loop start
// and attempts delivery for each, honoring a maximum-sends-per-minute
// ceiling. Messages drafted while the loop runs wait for the next
// invocation.
type DispatchOutreachUseCase struct {
	Leads    LeadRepository
	Outreach OutreachRepository
	Sender   MessageSender
	Events   EventPublisher // optional

	RatePerMinute int
	SendTimeout   time.Duration
}

func NewDispatchOutreachUseCase(leads LeadRepository, outreach OutreachRepository, sender MessageSender, events EventPublisher, ratePerMinute int, sendTimeout time.Duration) *DispatchOutreachUseCase {
	return &DispatchOutreachUseCase{
		Leads:         leads,
		Outreach:      outreach,
		Sender:        sender,
		Events:        events,
		RatePerMinute: ratePerMinute,
		SendTimeout:   sendTimeout,
	}
}

// Execute runs one dispatch pass. In dry-run mode every send is simulated
// as a success with no rate delay and no transport call; lead stages still
// advance, which is what makes the preview faithful.
//
// Cancellation is cooperative: the context is checked before each attempt,
// already-updated messages keep their terminal status and the rest stay
// DRAFT for a future run.
func (uc *DispatchOutreachUseCase) Execute(ctx context.Context, dryRun bool) (*DispatchOutput, error) {
	if !dryRun && uc.Sender == nil {
		return nil, &ConfigurationError{Code: "NO_TRANSPORT", Message: "no send transport configured"}
	}

	drafts, err := uc.Outreach.ListByStatus(ctx, entity.MessageDraft)
	if err != nil {
		return nil, err
	}

	rate := uc.RatePerMinute
	if rate <= 0 {
		rate = 1
	}
	minInterval := time.Minute / time.Duration(rate)

	out := &DispatchOutput{DryRun: dryRun}

	// Earliest moment the next attempt may start. Measured from the
	// previous attempt's return, so slow sends never let the loop burst.
	var nextAttempt time.Time

	for i, msg := range drafts {
		select {
		case <-ctx.Done():
			out.Remaining = len(drafts) - i
			log.Printf("dispatch: cancelled with %d drafts remaining", out.Remaining)
			return out, ctx.Err()
		default:
		}

		if !dryRun {
			if wait := time.Until(nextAttempt); wait > 0 {
				select {
				case <-ctx.Done():
					out.Remaining = len(drafts) - i
					return out, ctx.Err()
				case <-time.After(wait):
				}
			}
		}

		uc.attempt(ctx, msg, dryRun, out)
		nextAttempt = time.Now().Add(minInterval)
	}

	if dryRun {
		log.Printf("dispatch: [dry run] would send %d messages (%d failed)", out.Sent, out.Failed)
	} else {
		log.Printf("dispatch: sent %d messages (%d failed)", out.Sent, out.Failed)
	}
	return out, nil
}

// attempt delivers one message. Failure is isolated: the message is marked
// ERROR, its lead keeps its stage, and the loop moves on.
func (uc *DispatchOutreachUseCase) attempt(ctx context.Context, msg *entity.OutreachMessage, dryRun bool, out *DispatchOutput) {
	out.Attempted++

	lead, err := uc.Leads.FindByID(ctx, msg.LeadID)
	if err != nil {
		log.Printf("dispatch: message %s: %v", msg.ID, err)
		uc.finish(ctx, msg, lead, entity.MessageError, "", dryRun)
		out.Failed++
		return
	}

	var providerID string
	if dryRun {
		log.Printf("dispatch: [dry run] would send to %s: %s", lead.Email, msg.Subject)
	} else {
		if err := uc.Outreach.UpdateStatus(ctx, msg.ID, entity.MessageSending, nil, ""); err != nil {
			log.Printf("dispatch: message %s: %v", msg.ID, err)
			out.Failed++
			return
		}

		sendCtx, cancel := context.WithTimeout(ctx, uc.sendTimeout())
		providerID, err = uc.Sender.Send(sendCtx, lead.Email, msg.Subject, msg.Body)
		cancel()
		if err != nil {
			sendErr := &TransientSendError{Destination: lead.Email, Err: err}
			log.Printf("dispatch: %v", sendErr)
			uc.finish(ctx, msg, lead, entity.MessageError, "", dryRun)
			out.Failed++
			return
		}
	}

	uc.finish(ctx, msg, lead, entity.MessageSent, providerID, dryRun)
	out.Sent++
}

func (uc *DispatchOutreachUseCase) finish(ctx context.Context, msg *entity.OutreachMessage, lead *entity.Lead, status entity.MessageStatus, providerID string, dryRun bool) {
	now := time.Now()
	if err := uc.Outreach.UpdateStatus(ctx, msg.ID, status, &now, providerID); err != nil {
		log.Printf("dispatch: update message %s: %v", msg.ID, err)
	}

	// A stale draft must not resurrect a lead some other process already
	// resolved; only the legal QUALIFIED step advances.
	if status == entity.MessageSent && lead != nil && lead.Stage.CanTransitionTo(entity.StageContacted) {
		if err := uc.Leads.SetStage(ctx, lead.ID, entity.StageContacted); err != nil {
			log.Printf("dispatch: stage lead %s: %v", lead.ID, err)
		}
	}

	if uc.Events != nil {
		evt := OutreachEvent{
			MessageID: msg.ID,
			LeadID:    msg.LeadID,
			Status:    string(status),
			DryRun:    dryRun,
			At:        now,
		}
		if lead != nil {
			evt.Destination = lead.Email
		}
		if err := uc.Events.PublishOutreach(ctx, evt); err != nil {
			log.Printf("dispatch: publish event for %s: %v", msg.ID, err)
		}
	}
}

func (uc *DispatchOutreachUseCase) sendTimeout() time.Duration {
	if uc.SendTimeout > 0 {
		return uc.SendTimeout
	}
	return 30 * time.Second
}
