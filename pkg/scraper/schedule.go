package scraper

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"schedulectl/pkg/schedule"
)

// FetchSchedule returns the schedule of a subject, from the cache when it is fresh
func (c *Client) FetchSchedule(ctx context.Context, subjectID string) (schedule.Schedule, error) {
	if cached, ok := c.cache.Get(ctx, subjectID); ok {
		c.log.Debug("schedule served from cache", zap.String("subject", subjectID))
		return cached, nil
	}
	return c.Refresh(ctx, subjectID)
}

// Refresh downloads and parses the schedule of a subject, bypassing the cache
func (c *Client) Refresh(ctx context.Context, subjectID string) (schedule.Schedule, error) {
	resp, err := c.Get(ctx, fmt.Sprintf(c.schedulePath, url.QueryEscape(subjectID)))
	if err != nil {
		return schedule.Schedule{}, err
	}
	defer resp.Body.Close()

	s, err := c.locator.ParseHTML(resp.Body, subjectID)
	if err != nil {
		return schedule.Schedule{}, err
	}

	if err := c.cache.Put(ctx, s); err != nil {
		c.log.Warn("failed to cache schedule", zap.String("subject", subjectID), zap.Error(err))
	}
	return s, nil
}
