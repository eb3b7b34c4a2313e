package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"socialdeck/internal/composer"
	"socialdeck/internal/models"
	"socialdeck/internal/repository"
	"socialdeck/internal/transfer"
)

// PublishRequest is the platform-agnostic publish payload; each publisher
// maps it onto its own wire format.
type PublishRequest struct {
	Content     string
	Title       string
	Visibility  string
	MediaURL    string
	MediaKind   string
	MediaURLs   []string
	CtaType     string
	CtaURL      string
	ScheduledAt *time.Time
}

// Publisher posts to one account on one platform.
type Publisher interface {
	Publish(ctx context.Context, account *models.SocialAccount, req *PublishRequest) (permalink string, err error)
}

// Scheduler records a post for later publishing instead of posting now.
type Scheduler interface {
	Schedule(ctx context.Context, account *models.SocialAccount, req *PublishRequest, at time.Time) (int64, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, userID int64, draft *composer.Draft) ([]transfer.DispatchResult, string, error)
}

type dispatcher struct {
	sa         repository.SocialAccountRepository
	publishers map[string]Publisher
	scheduler  Scheduler
	alerts     AlertService
}

func NewDispatcher(sa repository.SocialAccountRepository, publishers map[string]Publisher, scheduler Scheduler, alerts AlertService) Dispatcher {
	return &dispatcher{
		sa:         sa,
		publishers: publishers,
		scheduler:  scheduler,
		alerts:     alerts,
	}
}

// Dispatch validates the draft, then walks the selected accounts in order and
// issues one publish (or schedule) per account. The loop is deliberately
// sequential and a failed account never stops the ones after it.
func (d *dispatcher) Dispatch(ctx context.Context, userID int64, draft *composer.Draft) ([]transfer.DispatchResult, string, error) {
	if err := draft.Validate(); err != nil {
		return nil, "", err
	}

	req := requestFromDraft(draft)

	results := make([]transfer.DispatchResult, 0, len(draft.AccountIDs()))
	for _, accountID := range draft.AccountIDs() {
		result := transfer.DispatchResult{AccountID: accountID}

		account, err := d.sa.GetByID(ctx, accountID)
		if err == nil && (account == nil || account.UserID != userID) {
			err = fmt.Errorf("account %d does not exist", accountID)
		}
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.DisplayName = account.DisplayName
		result.Platform = account.Platform

		permalink, err := d.deliver(ctx, account, req)
		if err != nil {
			slog.Error("dispatch failed", "account_id", accountID, "platform", account.Platform, "error", err)
			result.Error = err.Error()
			d.alerts.Notify(ctx, userID, models.AlertKindPostFailed,
				fmt.Sprintf("Post to %s (%s) failed: %s", account.DisplayName, account.Platform, err))
		} else {
			result.OK = true
			result.Permalink = permalink
		}
		results = append(results, result)
	}

	return results, Summarize(results, req.ScheduledAt != nil), nil
}

func (d *dispatcher) deliver(ctx context.Context, account *models.SocialAccount, req *PublishRequest) (string, error) {
	if req.ScheduledAt != nil {
		_, err := d.scheduler.Schedule(ctx, account, req, *req.ScheduledAt)
		return "", err
	}

	publisher, ok := d.publishers[account.Platform]
	if !ok {
		return "", fmt.Errorf("no publisher for platform %s", account.Platform)
	}
	return publisher.Publish(ctx, account, req)
}

func requestFromDraft(draft *composer.Draft) *PublishRequest {
	req := &PublishRequest{
		Content:     draft.Content,
		Title:       draft.Title,
		Visibility:  draft.Visibility,
		CtaType:     draft.CtaType,
		CtaURL:      draft.CtaURL,
		ScheduledAt: draft.ScheduledAt,
	}
	if single := draft.SingleMedia(); single != nil {
		req.MediaURL = single.URL
		req.MediaKind = single.Kind
	}
	for _, f := range draft.CarouselMedia() {
		req.MediaURLs = append(req.MediaURLs, f.URL)
	}
	return req
}

// Summarize folds per-account outcomes into one status message: full
// success, partial success with one line per failure, or full failure.
func Summarize(results []transfer.DispatchResult, scheduled bool) string {
	verb, infinitive := "Queued", "queue"
	if scheduled {
		verb, infinitive = "Scheduled", "schedule"
	}

	var failures []transfer.DispatchResult
	succeeded := 0
	for _, r := range results {
		if r.OK {
			succeeded++
		} else {
			failures = append(failures, r)
		}
	}

	if len(failures) == 0 {
		return fmt.Sprintf("%s successfully for %d account(s)", verb, len(results))
	}

	var b strings.Builder
	if succeeded > 0 {
		fmt.Fprintf(&b, "%s successfully for %d account(s), %d failed:", verb, succeeded, len(failures))
	} else {
		fmt.Fprintf(&b, "Failed to %s for all %d account(s):", infinitive, len(results))
	}
	for _, f := range failures {
		name := f.DisplayName
		if name == "" {
			name = fmt.Sprintf("account %d", f.AccountID)
		}
		if f.Platform != "" {
			fmt.Fprintf(&b, "\n%s (%s): %s", name, f.Platform, f.Error)
		} else {
			fmt.Fprintf(&b, "\n%s: %s", name, f.Error)
		}
	}
	return b.String()
}
