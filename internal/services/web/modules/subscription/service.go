package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

// plan is the subscription state plus the metered counters for one user.
type plan struct {
	Tier     tiers.Tier
	Status   string
	RenewsAt time.Time
	Usage    []usageRow
}

type usageRow struct {
	Resource string `json:"resource"`
	Period   string `json:"period"`
	Used     int    `json:"used"`
	Limit    int    `json:"limit"`
}

type service struct {
	store webstorage.Store
}

func newService(store webstorage.Store) service {
	return service{store: store}
}

func requireUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", apperrors.EK(apperrors.KindUnauthorized, "auth.user_id_required", "user id is required")
	}
	return userID, nil
}

func (s service) currentPlan(ctx context.Context, userID string) (plan, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return plan{}, err
	}
	result := plan{Tier: tiers.Free, Status: "active"}
	sub, err := s.store.GetSubscription(ctx, userID)
	switch {
	case err == nil:
		if tier, perr := tiers.Parse(sub.Tier); perr == nil {
			result.Tier = tier
		}
		if sub.Status != "" {
			result.Status = sub.Status
		}
		result.RenewsAt = sub.RenewsAt
	case errors.Is(err, webstorage.ErrNotFound):
	default:
		return plan{}, fmt.Errorf("load subscription: %w", err)
	}

	counters, err := s.store.ListUsage(ctx, userID)
	if err != nil {
		return plan{}, fmt.Errorf("list usage: %w", err)
	}
	for _, c := range counters {
		result.Usage = append(result.Usage, usageRow{
			Resource: c.Resource,
			Period:   c.Period,
			Used:     c.Count,
			Limit:    tiers.Limit(result.Tier, tiers.Resource(c.Resource)),
		})
	}
	return result, nil
}

func (s service) changeTier(ctx context.Context, userID, requested string) (tiers.Tier, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return "", err
	}
	tier, err := tiers.Parse(requested)
	if err != nil {
		return "", apperrors.EK(apperrors.KindInvalidInput, "subscription.unknown_tier", "choose one of the available plans")
	}
	now := time.Now().UTC()
	sub := webstorage.Subscription{
		UserID:    userID,
		Tier:      string(tier),
		Status:    "active",
		RenewsAt:  now.AddDate(0, 1, 0),
		UpdatedAt: now,
	}
	if err := s.store.PutSubscription(ctx, sub); err != nil {
		return "", fmt.Errorf("save subscription: %w", err)
	}
	return tier, nil
}
