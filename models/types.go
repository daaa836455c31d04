// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

// CreateBallotRequest is sent by the bot frontend when an admin runs the
// ballot creation command. Threads is the forum listing for the channel.
type CreateBallotRequest struct {
	Month         string   `json:"month"`
	Year          int      `json:"year"`
	Force         bool     `json:"force"`
	TTLMinutes    int      `json:"ttl_minutes"`
	ChannelID     string   `json:"channel_id"`
	AvailableTags []string `json:"available_tags"`
	Threads       []Thread `json:"threads"`
}

type SessionActionRequest struct {
	CustomID string `json:"custom_id"`
}

// Response types

type CreateBallotResponse struct {
	BallotID       string     `json:"ballot_id"`
	AdminKey       string     `json:"admin_key"`
	OptionCount    int        `json:"option_count"`
	PostedLocation MessageRef `json:"posted_location"`
}

type BallotSummary struct {
	ID             string     `json:"id"`
	OptionCount    int        `json:"option_count"`
	PostedLocation MessageRef `json:"posted_location"`
	CreatedAt      time.Time  `json:"created_at"`
	ClosesAt       time.Time  `json:"closes_at"`
	Closed         bool       `json:"closed"`
	WarningSent    bool       `json:"warning_sent"`
}

type ResultsResponse struct {
	BallotID   string      `json:"ballot_id"`
	Results    []Result    `json:"results"`
	RankGroups []RankGroup `json:"rank_groups"`
	Winners    []int       `json:"winners"`
}

type VotingSequence struct {
	UserID   string `json:"user_id"`
	Sequence []int  `json:"sequence"`
}

type VotingSequencesResponse struct {
	BallotID  string           `json:"ballot_id"`
	Sequences []VotingSequence `json:"sequences"`
}

// SessionView is what the bot frontend renders as the ephemeral reply to the
// voter. SessionID is empty when no session was opened.
type SessionView struct {
	SessionID string  `json:"session_id,omitempty"`
	State     string  `json:"state"`
	Message   Message `json:"message"`
}

// Domain types

type Option struct {
	ID        int    `json:"id"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	ThreadURL string `json:"thread_url"`
	ImageURL  string `json:"image_url"`
}

// MessageRef locates a message on the chat platform.
type MessageRef struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

func (r MessageRef) IsZero() bool {
	return r.ChannelID == "" && r.MessageID == ""
}

type Ballot struct {
	ID             string        `json:"id"`
	Options        []Option      `json:"options"`
	PostedLocation MessageRef    `json:"posted_location"`
	CreatedAt      time.Time     `json:"created_at"`
	TTL            time.Duration `json:"ttl"`
	Closed         bool          `json:"closed"`
	WarningSent    bool          `json:"warning_sent"`
	Winners        []int         `json:"winners"`
}

// ClosesAt is the moment the ballot becomes due for closure.
func (b Ballot) ClosesAt() time.Time {
	return b.CreatedAt.Add(b.TTL)
}

func (b Ballot) OptionIDs() []int {
	ids := make([]int, len(b.Options))
	for i, opt := range b.Options {
		ids[i] = opt.ID
	}
	return ids
}

func (b Ballot) Summary() BallotSummary {
	return BallotSummary{
		ID:             b.ID,
		OptionCount:    len(b.Options),
		PostedLocation: b.PostedLocation,
		CreatedAt:      b.CreatedAt,
		ClosesAt:       b.ClosesAt(),
		Closed:         b.Closed,
		WarningSent:    b.WarningSent,
	}
}

type VoterRecord struct {
	BallotID         string     `json:"ballot_id"`
	UserID           string     `json:"user_id"`
	VotesGiven       int        `json:"votes_given"`
	VotesAvailable   int        `json:"votes_available"`
	RemainingOptions []int      `json:"remaining_options"`
	VotingSequence   []int      `json:"voting_sequence"`
	VotedMessage     MessageRef `json:"voted_message"`
	StartedAt        time.Time  `json:"started_at"`
}

// PointValue is the weight the next vote of this voter carries.
func (v VoterRecord) PointValue() int {
	return v.VotesAvailable - v.VotesGiven
}

type Result struct {
	OptionID int `json:"option_id"`
	Points   int `json:"points"`
}

// RankGroup holds every option sharing one point total.
type RankGroup struct {
	Rank      int   `json:"rank"` // 1-indexed
	Points    int   `json:"points"`
	OptionIDs []int `json:"option_ids"`
}

// Chat platform types

type Attachment struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

type Thread struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"owner_id"`
	Name        string       `json:"name"`
	URL         string       `json:"url"`
	Tags        []string     `json:"tags"`
	Attachments []Attachment `json:"attachments"`
}

// Button styles
const (
	StylePrimary   = "primary"
	StyleSecondary = "secondary"
	StyleSuccess   = "success"
)

type Button struct {
	CustomID string `json:"custom_id"`
	Label    string `json:"label"`
	Style    string `json:"style"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Message is the platform-neutral rendering of a chat message. Cards are
// rendered as option sections with a thumbnail.
type Message struct {
	Content  string   `json:"content"`
	Cards    []Option `json:"cards,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
	Mentions []string `json:"mentions,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
