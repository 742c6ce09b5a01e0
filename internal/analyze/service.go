package analyze

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pverbeek/ganttvoice/internal/domain/activity"
	"github.com/pverbeek/ganttvoice/internal/domain/update"
)

// TaskProposal suggests a status and progress change for one activity,
// inferred from a meeting transcript. Proposals are transient: the caller
// decides which ones to apply.
type TaskProposal struct {
	ID               string  `json:"id"`
	TaskID           string  `json:"taskId"`
	ProposedStatus   Status  `json:"proposedStatus"`
	ProposedProgress int     `json:"proposedProgress"`
	Reason           string  `json:"reason"`
	Confidence       float64 `json:"confidence"`
	MeetingID        string  `json:"meetingId"`
	Timestamp        string  `json:"timestamp"`
}

// Service runs the heuristic transcript analysis: update-stub extraction,
// proposal generation and summary generation. All three are deterministic
// rule evaluation; none of them errors on well-formed string input.
type Service struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a transcript analyzer.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, now: time.Now}
}

// ExtractUpdates runs the literal update patterns over the transcript. Every
// match yields one stub with the first captured group as both project and
// task name. The date-bearing patterns do not fill the stub date fields, and
// overlapping matches produce duplicate stubs; both are deliberate.
func (s *Service) ExtractUpdates(transcript string) []update.ProjectUpdate {
	updates := []update.ProjectUpdate{}
	for _, pattern := range updatePatterns {
		for _, match := range pattern.FindAllStringSubmatch(transcript, -1) {
			updates = append(updates, update.ProjectUpdate{
				ProjectName: match[1],
				TaskName:    match[1],
			})
		}
	}
	return updates
}

// GenerateProposals scores the transcript against the current activity list.
// Phase one emits one proposal per activity whose name appears in the
// transcript, using the first status keyword set that hits anywhere in the
// text. When phase one finds nothing, a transcript-wide completed/delayed
// check emits a single lower-confidence proposal against the first main item.
func (s *Service) GenerateProposals(transcript string, activities []activity.Record) []TaskProposal {
	transcriptLower := strings.ToLower(transcript)
	meetingID := fmt.Sprintf("meeting-%d", s.now().Unix())
	timestamp := s.now().Format(time.RFC3339)

	proposals := []TaskProposal{}
	for _, act := range activities {
		if !strings.Contains(transcriptLower, strings.ToLower(act.Name)) {
			continue
		}
		rule, ok := matchStatus(transcriptLower)
		if !ok {
			continue
		}
		proposals = append(proposals, TaskProposal{
			ID:               fmt.Sprintf("proposal-%d", len(proposals)+1),
			TaskID:           act.ItemID,
			ProposedStatus:   rule.status,
			ProposedProgress: rule.progress,
			Reason:           fmt.Sprintf("Task '%s' status mentioned in meeting", act.Name),
			Confidence:       0.8,
			MeetingID:        meetingID,
			Timestamp:        timestamp,
		})
	}

	if len(proposals) > 0 {
		return proposals
	}

	main, ok := activity.FirstMainItem(activities)
	if !ok {
		return proposals
	}

	for _, fallback := range []struct {
		rule   statusRule
		reason string
	}{
		{statusRules[0], "Completion mentioned in meeting"},
		{statusRules[1], "Delay mentioned in meeting"},
	} {
		if !fallback.rule.matches(transcriptLower) {
			continue
		}
		proposals = append(proposals, TaskProposal{
			ID:               "proposal-1",
			TaskID:           main.ItemID,
			ProposedStatus:   fallback.rule.status,
			ProposedProgress: fallback.rule.progress,
			Reason:           fallback.reason,
			Confidence:       0.6,
			MeetingID:        meetingID,
			Timestamp:        timestamp,
		})
		break
	}

	return proposals
}

// maxSummaryPoints caps the key-point list of a generated summary.
const maxSummaryPoints = 8

// GenerateSummary renders a rule-based summary of the transcript. Pattern
// families come first; when none of them match, a handful of canned Dutch
// phrase checks take over, and failing those the summary is a verbatim
// excerpt of the transcript.
func (s *Service) GenerateSummary(transcript string) string {
	var points []string
	for _, family := range summaryFamilies {
		for _, pattern := range family.patterns {
			for _, match := range pattern.FindAllStringSubmatch(transcript, -1) {
				points = append(points, family.render(match))
			}
		}
	}

	if len(points) > 0 {
		if len(points) > maxSummaryPoints {
			points = points[:maxSummaryPoints]
		}
		return "Meeting Summary:\n" + strings.Join(points, "\n")
	}

	transcriptLower := strings.ToLower(transcript)
	for _, canned := range cannedLines {
		for _, trigger := range canned.triggers {
			if strings.Contains(transcriptLower, trigger) {
				points = append(points, canned.line)
				break
			}
		}
	}
	if len(points) > 0 {
		return "Meeting Summary:\n" + strings.Join(points, "\n")
	}

	return fmt.Sprintf("Meeting discussion recorded. Key topics: %s...", excerpt(transcript, 200))
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
