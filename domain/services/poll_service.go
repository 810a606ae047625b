package services

import (
	"strings"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/interfaces"
	"clubledger/events"
	"clubledger/metrics"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// PollResetInterval is the time between scheduled poll resets
const PollResetInterval = 24 * time.Hour

// PollService records votes and keeps the poll on its reset schedule
type PollService struct {
	clock          clockwork.Clock
	location       *time.Location
	eventPublisher interfaces.EventPublisher
}

// NewPollService creates a new poll service. Resets fall on midnight in loc.
func NewPollService(clock clockwork.Clock, loc *time.Location, eventPublisher interfaces.EventPublisher) *PollService {
	if loc == nil {
		loc = time.UTC
	}
	return &PollService{
		clock:          clock,
		location:       loc,
		eventPublisher: eventPublisher,
	}
}

// EnsureSchedule seeds default options and the first reset time on an empty poll.
// Returns true if the poll was changed.
func (s *PollService) EnsureSchedule(poll *entities.PollState) bool {
	changed := false
	if poll.Votes == nil {
		poll.Votes = make(map[string]string)
	}
	if len(poll.Options) == 0 {
		poll.Options = append([]string(nil), entities.DefaultPollOptions...)
		changed = true
	}
	if poll.NextResetAt.IsZero() {
		poll.NextResetAt = entities.NextMidnight(s.clock.Now(), s.location)
		changed = true
	}
	if changed {
		s.publish(events.PollResetEvent{
			Options:       append([]string(nil), poll.Options...),
			NextResetAt:   poll.NextResetAt,
			OptionsChange: true,
		})
	}
	return changed
}

// Vote records the member's choice, replacing any earlier vote
func (s *PollService) Vote(poll *entities.PollState, memberID, option string) error {
	if !poll.HasOption(option) {
		metrics.RecordRejection(entities.ErrInvalidOption)
		return entities.Reject(entities.ErrInvalidOption, "%q is not one of the poll options.", option)
	}
	if poll.Votes == nil {
		poll.Votes = make(map[string]string)
	}
	poll.Votes[memberID] = option

	s.publish(events.VoteCastEvent{MemberID: memberID, Option: option})
	log.WithFields(log.Fields{
		"memberID": memberID,
		"option":   option,
	}).Debug("Poll vote recorded")
	return nil
}

// SetOptions replaces the option set and clears every vote. The reset
// schedule is kept; an unscheduled poll gets its first midnight.
// Options are trimmed; empty, blank or duplicate entries are rejected.
func (s *PollService) SetOptions(poll *entities.PollState, options []string) error {
	cleaned, err := normalizeOptions(options)
	if err != nil {
		metrics.RecordRejection(entities.ErrInvalidOption)
		return err
	}

	poll.Options = cleaned
	poll.Votes = make(map[string]string)
	if poll.NextResetAt.IsZero() {
		poll.NextResetAt = entities.NextMidnight(s.clock.Now(), s.location)
	}

	s.publish(events.PollResetEvent{
		Options:       append([]string(nil), poll.Options...),
		NextResetAt:   poll.NextResetAt,
		OptionsChange: true,
	})
	log.WithField("options", cleaned).Info("Poll options replaced")
	return nil
}

// Reset clears all votes and schedules the next reset one interval after the
// current deadline, skipping ahead past any intervals missed while offline.
func (s *PollService) Reset(poll *entities.PollState) {
	now := s.clock.Now()
	next := poll.NextResetAt
	if next.IsZero() {
		next = entities.NextMidnight(now, s.location)
	}
	for !next.After(now) {
		next = next.Add(PollResetInterval)
	}

	cleared := len(poll.Votes)
	poll.Votes = make(map[string]string)
	poll.NextResetAt = next

	s.publish(events.PollResetEvent{
		Options:     append([]string(nil), poll.Options...),
		NextResetAt: next,
	})
	log.WithFields(log.Fields{
		"clearedVotes": cleared,
		"nextResetAt":  next,
	}).Info("Poll reset")
}

// ResetIfDue resets the poll when its deadline has passed
func (s *PollService) ResetIfDue(poll *entities.PollState) bool {
	if !poll.IsDue(s.clock.Now()) {
		return false
	}
	s.Reset(poll)
	return true
}

// RemoveVoter drops a member's vote without publishing; used when the member is deleted
func (s *PollService) RemoveVoter(poll *entities.PollState, memberID string) bool {
	if _, ok := poll.Votes[memberID]; !ok {
		return false
	}
	delete(poll.Votes, memberID)
	return true
}

func (s *PollService) publish(event events.Event) {
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("Failed to publish poll event")
	}
}

func normalizeOptions(options []string) ([]string, error) {
	if len(options) == 0 {
		return nil, entities.Reject(entities.ErrInvalidOption, "A poll needs at least one option.")
	}
	seen := make(map[string]bool, len(options))
	cleaned := make([]string, 0, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" {
			return nil, entities.Reject(entities.ErrInvalidOption, "Poll options cannot be blank.")
		}
		if seen[o] {
			return nil, entities.Reject(entities.ErrInvalidOption, "Duplicate poll option %q.", o)
		}
		seen[o] = true
		cleaned = append(cleaned, o)
	}
	return cleaned, nil
}
