// Package reliability derives a provider's trust percentage from its enquiry history.
// Scores are computed on read and never stored.
package reliability

import (
	"fmt"
	"math"
	"time"

	"github.com/LewF-Dev/local-help-platform/internal/models"
)

// MaxPercentage is the ceiling applied to every score.
const MaxPercentage = 95

// MinHistory is the number of received enquiries needed before a score is computed.
const MinHistory = 5

const (
	LabelNew                = "New"
	LabelBuildingHistory    = "Building History"
	LabelHighlyReliable     = "Highly Reliable"
	LabelReliable           = "Reliable"
	LabelModeratelyReliable = "Moderately Reliable"
	LabelBuildingReputation = "Building Reputation"
)

const (
	responseWeight     = 40
	acceptanceWeight   = 30
	recencyWeight      = 20
	verificationWeight = 10
)

// Input is the slice of provider state the score depends on.
type Input struct {
	Received     int
	Responded    int
	Accepted     int
	LastActiveAt time.Time
	Verified     bool
}

// Score is the derived reliability view of a provider.
type Score struct {
	Percentage  int    `json:"percentage"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// InputFrom extracts the scoring input from a provider.
func InputFrom(p *models.Provider) Input {
	return Input{
		Received:     p.EnquiriesReceived,
		Responded:    p.EnquiriesResponded,
		Accepted:     p.EnquiriesAccepted,
		LastActiveAt: p.LastActiveAt,
		Verified:     p.Verified,
	}
}

// ForProvider scores p as of now.
func ForProvider(p *models.Provider, now time.Time) Score {
	return Compute(InputFrom(p), now)
}

// Compute scores in as of now. It is deterministic for a fixed now.
func Compute(in Input, now time.Time) Score {
	if in.Received <= 0 {
		return Score{Percentage: 0, Label: LabelNew, Description: "No enquiries received yet"}
	}
	if in.Received < MinHistory {
		return Score{Percentage: 0, Label: LabelBuildingHistory, Description: "Establishing track record"}
	}

	received := float64(in.Received)
	score := float64(in.Responded) / received * responseWeight
	score += float64(in.Accepted) / received * acceptanceWeight
	score += float64(recencyPoints(DaysSince(in.LastActiveAt, now)))
	maxScore := float64(responseWeight + acceptanceWeight + recencyWeight)

	if in.Verified {
		score += verificationWeight
		maxScore += verificationWeight
	}

	percentage := int(math.Floor(score/maxScore*100 + 0.5))
	if percentage > MaxPercentage {
		percentage = MaxPercentage
	}
	if percentage < 0 {
		percentage = 0
	}

	return Score{
		Percentage:  percentage,
		Label:       label(percentage),
		Description: description(percentage, in),
	}
}

// DaysSince counts whole days between t and now, rounding down.
func DaysSince(t, now time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}

func recencyPoints(days int) int {
	switch {
	case days <= 7:
		return 20
	case days <= 14:
		return 15
	case days <= 30:
		return 10
	case days <= 60:
		return 5
	}
	return 0
}

func label(percentage int) string {
	switch {
	case percentage >= 85:
		return LabelHighlyReliable
	case percentage >= 70:
		return LabelReliable
	case percentage >= 50:
		return LabelModeratelyReliable
	}
	return LabelBuildingReputation
}

func description(percentage int, in Input) string {
	switch {
	case percentage >= 85:
		responseRate := int(math.Floor(float64(in.Responded)/float64(in.Received)*100 + 0.5))
		return fmt.Sprintf("Responds to %d%% of enquiries and stays active", responseRate)
	case percentage >= 70:
		return "Good response rate and regular activity"
	case percentage >= 50:
		return "Responds to some enquiries"
	}
	return "Still building track record"
}

// FormatLabel renders a percentage for badges: "New" for zero, otherwise "N% Reliable".
func FormatLabel(percentage int) string {
	if percentage == 0 {
		return LabelNew
	}
	return fmt.Sprintf("%d%% Reliable", percentage)
}
